package service

import (
	"context"
	"fmt"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"
)

// RequestServiceImpl implements ports.RequestService.
type RequestServiceImpl struct {
	issuer ports.IntentIssuer
}

// NewRequestService creates a new RequestServiceImpl.
func NewRequestService(issuer ports.IntentIssuer) *RequestServiceImpl {
	return &RequestServiceImpl{issuer: issuer}
}

// CreateForAgent issues an intent paying into the agent's first wallet. The
// memo is the agent id, so these intents are never deduplicated.
func (s *RequestServiceImpl) CreateForAgent(ctx context.Context, agent *domain.Agent, amount string) (*domain.PaymentIntent, error) {
	parsed, err := domain.ParseAmount(amount)
	if err != nil {
		return nil, apperror.ErrInvalidAmount()
	}
	wallet := agent.PrimaryWallet()
	if wallet == nil {
		return nil, apperror.ErrNoReceivingWallet()
	}

	intent, inserted, err := s.issuer.Issue(ctx, ports.IssueParams{
		AgentID: agent.ID,
		Origin:  domain.IntentOriginAgent,
		Wallet:  wallet,
		Amount:  parsed,
		Label:   requestLabel(agent),
		Message: "Sale by agent: " + agent.FullName(),
		Memo:    agent.ID,
	})
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, apperror.InternalError(fmt.Errorf("reference collision for agent %s", agent.ID))
	}
	return intent, nil
}

func requestLabel(agent *domain.Agent) string {
	name := agent.Merchant.Name
	if name == "" {
		name = "the merchant"
	}
	return "Payment to " + name
}
