package service

import (
	"context"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"
	"pago-gateway/pkg/solanapay"

	"github.com/rs/zerolog"
)

// IntentIssuerImpl implements ports.IntentIssuer.
type IntentIssuerImpl struct {
	intentRepo ports.IntentRepository
	keyGen     ports.KeyGenerator
	publisher  ports.EventPublisher // optional
	splToken   string
	log        zerolog.Logger
}

// NewIntentIssuer creates a new issuer. splToken is the mint requested in every
// directive; empty means native SOL. publisher may be nil.
func NewIntentIssuer(
	intentRepo ports.IntentRepository,
	keyGen ports.KeyGenerator,
	publisher ports.EventPublisher,
	splToken string,
	log zerolog.Logger,
) *IntentIssuerImpl {
	return &IntentIssuerImpl{
		intentRepo: intentRepo,
		keyGen:     keyGen,
		publisher:  publisher,
		splToken:   splToken,
		log:        log,
	}
}

// Issue generates a reference, encodes the transfer directive and persists the
// intent. The bool result is false when the store already held an intent with
// the same reference or checkout memo; nothing is returned in that case.
func (s *IntentIssuerImpl) Issue(ctx context.Context, p ports.IssueParams) (*domain.PaymentIntent, bool, error) {
	if p.Wallet == nil || p.Wallet.Address == "" {
		return nil, false, apperror.ErrNoReceivingWallet()
	}

	reference, err := s.keyGen.NewReference()
	if err != nil {
		return nil, false, err
	}

	url := solanapay.EncodeURL(p.Wallet.Address, solanapay.URLParams{
		Amount:     p.Amount.String(),
		SPLToken:   s.splToken,
		References: []string{reference},
		Label:      p.Label,
		Message:    p.Message,
		Memo:       p.Memo,
	})

	intent := &domain.PaymentIntent{
		Reference: reference,
		AgentID:   p.AgentID,
		Origin:    p.Origin,
		Recipient: p.Wallet.Address,
		Amount:    p.Amount,
		SPLToken:  optional(s.splToken),
		Label:     optional(p.Label),
		Message:   optional(p.Message),
		Memo:      optional(p.Memo),
		URL:       url,
		State:     domain.IntentStateCreated,
		CreatedAt: time.Now().UTC(),
	}

	inserted, err := s.intentRepo.Create(ctx, intent)
	if err != nil {
		return nil, false, storeError("create intent", err)
	}
	if !inserted {
		return nil, false, nil
	}

	s.log.Info().
		Str("reference", intent.Reference).
		Str("agent_id", intent.AgentID).
		Str("origin", string(intent.Origin)).
		Str("amount", intent.Amount.String()).
		Msg("payment intent created")
	publish(ctx, s.publisher, s.log, domain.EventIntentCreated, intent)

	return intent, true, nil
}

// publish emits an intent event. Failures are logged; the stored state is
// authoritative and consumers can always re-read it.
func publish(ctx context.Context, publisher ports.EventPublisher, log zerolog.Logger, eventType string, intent *domain.PaymentIntent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, domain.NewIntentEvent(eventType, intent)); err != nil {
		log.Warn().Err(err).Str("reference", intent.Reference).Str("event", eventType).Msg("failed to publish intent event")
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
