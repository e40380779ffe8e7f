package service

import (
	"context"
	"encoding/json"
	"fmt"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// eventProcessor implements ports.EventHandler for the worker.
type eventProcessor struct {
	auditRepo ports.AuditRepository
	webhooks  ports.WebhookService
	log       zerolog.Logger
}

// NewEventProcessor records every event in the audit trail and notifies the
// webhook endpoint about settlements.
func NewEventProcessor(auditRepo ports.AuditRepository, webhooks ports.WebhookService, log zerolog.Logger) ports.EventHandler {
	return &eventProcessor{auditRepo: auditRepo, webhooks: webhooks, log: log}
}

func (p *eventProcessor) Handle(ctx context.Context, event domain.IntentEvent) error {
	log := p.log.With().Str("event_id", event.ID.String()).Str("type", event.Type).Str("reference", event.Reference).Logger()

	details, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	agentID := event.AgentID
	entry := &domain.AuditLog{
		ID:           event.ID,
		AgentID:      &agentID,
		Action:       auditAction(event.Type),
		ResourceType: "payment_intent",
		ResourceID:   event.Reference,
		Details:      string(details),
		CreatedAt:    event.OccurredAt,
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := p.auditRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("record event: %w", err)
	}

	if event.Type != domain.EventIntentSettled {
		log.Debug().Msg("event recorded")
		return nil
	}

	delivery, err := p.webhooks.Deliver(ctx, event)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	if delivery != nil && delivery.Status != domain.WebhookStatusDelivered {
		log.Warn().Int("attempts", delivery.Attempts).Msg("settlement notification not delivered")
	}
	return nil
}

func auditAction(eventType string) domain.AuditAction {
	if eventType == domain.EventIntentSettled {
		return domain.AuditActionSettle
	}
	return domain.AuditActionIssue
}
