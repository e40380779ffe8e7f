package service

import (
	"context"
	"fmt"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"
)

// agentService implements ports.AgentService.
type agentService struct {
	agentRepo ports.AgentRepository
	wallets   ports.WalletService
	now       func() time.Time
}

// NewAgentService creates a new agent service.
func NewAgentService(agentRepo ports.AgentRepository, wallets ports.WalletService) ports.AgentService {
	return &agentService{agentRepo: agentRepo, wallets: wallets, now: time.Now}
}

// ResolveByUser loads the agent of userID. Agents without a receiving wallet
// get one on the spot so they can issue requests immediately.
func (s *agentService) ResolveByUser(ctx context.Context, userID string) (*domain.Agent, error) {
	agent, err := s.agentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeError("get agent", err)
	}
	if agent == nil {
		return nil, apperror.ErrAgentNotFound()
	}
	if len(agent.Wallets) > 0 {
		return agent, nil
	}

	wallet, err := s.wallets.Ensure(ctx, agent.ID, agentWalletLabel(agent, s.now()))
	if err != nil {
		return nil, err
	}
	agent.Wallets = []domain.ReceivingWallet{*wallet}
	return agent, nil
}

func agentWalletLabel(a *domain.Agent, at time.Time) string {
	return fmt.Sprintf("%s: %s - %s", a.Merchant.Name, a.FullName(), at.UTC().Format(time.RFC1123))
}
