package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Publisher implements ports.EventPublisher. Events are routed by type,
// e.g. "intent.settled".
type Publisher struct {
	ch       Channel
	exchange string
	log      zerolog.Logger
}

// NewPublisher creates a publisher on an already declared exchange.
func NewPublisher(ch Channel, exchange string, log zerolog.Logger) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, log: log}
}

var _ ports.EventPublisher = (*Publisher)(nil)

func (p *Publisher) Publish(ctx context.Context, event domain.IntentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	p.log.Debug().Str("routing_key", event.Type).Str("reference", event.Reference).Msg("event published")
	return nil
}
