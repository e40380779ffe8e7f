package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// ErrDeliveriesClosed is returned by Run when the broker closes the channel.
var ErrDeliveriesClosed = errors.New("rabbitmq: delivery channel closed")

// ConsumerConfig names the queue a consumer reads and what it binds to.
type ConsumerConfig struct {
	Exchange       string
	Queue          string
	BindingKey     string // e.g. "intent.#"
	Tag            string
	HandlerTimeout time.Duration
}

// Consumer delivers queued events to a handler one at a time with manual
// acknowledgement.
type Consumer struct {
	ch      Channel
	cfg     ConsumerConfig
	handler ports.EventHandler
	log     zerolog.Logger
}

// NewConsumer creates a consumer. Call Setup before Run.
func NewConsumer(ch Channel, cfg ConsumerConfig, handler ports.EventHandler, log zerolog.Logger) *Consumer {
	if cfg.BindingKey == "" {
		cfg.BindingKey = "intent.#"
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = 30 * time.Minute
	}
	return &Consumer{ch: ch, cfg: cfg, handler: handler, log: log}
}

// Setup declares the exchange and a durable queue bound to it, and limits
// the channel to one unacknowledged delivery.
func (c *Consumer) Setup() error {
	if err := DeclareExchange(c.ch, c.cfg.Exchange); err != nil {
		return err
	}
	q, err := c.ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declaring queue %s: %w", c.cfg.Queue, err)
	}
	if err := c.ch.QueueBind(q.Name, c.cfg.BindingKey, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("binding queue %s: %w", q.Name, err)
	}
	if err := c.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("setting qos: %w", err)
	}
	return nil
}

// Run consumes until ctx is cancelled or the broker closes the channel.
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.ch.Consume(c.cfg.Queue, c.cfg.Tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("registering consumer: %w", err)
	}
	c.log.Info().Str("queue", c.cfg.Queue).Msg("consumer started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return ErrDeliveriesClosed
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var event domain.IntentEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		c.log.Error().Err(err).Str("message_id", d.MessageId).Msg("dropping undecodable event")
		if err := d.Nack(false, false); err != nil {
			c.log.Error().Err(err).Msg("nack failed")
		}
		return
	}

	hctx, cancel := context.WithTimeout(ctx, c.cfg.HandlerTimeout)
	err := c.handler.Handle(hctx, event)
	cancel()
	if err != nil {
		c.log.Warn().Err(err).Str("event_id", event.ID.String()).Str("reference", event.Reference).Msg("event handling failed, requeueing")
		if err := d.Nack(false, true); err != nil {
			c.log.Error().Err(err).Msg("nack failed")
		}
		return
	}

	if err := d.Ack(false); err != nil {
		c.log.Error().Err(err).Msg("ack failed")
	}
}
