package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/logger"

	"github.com/rs/zerolog"
)

// Notification headers.
const (
	HeaderSignature = "X-Pago-Signature"
	HeaderEventID   = "X-Pago-Event-Id"
	HeaderEventType = "X-Pago-Event"
)

// webhookRetryIntervals is the wait before each retry after the first attempt.
var webhookRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	2 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookConfig holds the notification endpoint.
type WebhookConfig struct {
	URL string
}

// webhookService implements ports.WebhookService.
type webhookService struct {
	cfg          WebhookConfig
	signer       ports.NotificationSigner
	deliveryRepo ports.WebhookDeliveryRepository // optional
	httpClient   HTTPClient
	intervals    []time.Duration
	log          zerolog.Logger
}

// NewWebhookService creates a new webhook service.
func NewWebhookService(
	cfg WebhookConfig,
	signer ports.NotificationSigner,
	deliveryRepo ports.WebhookDeliveryRepository,
	httpClient HTTPClient,
	log zerolog.Logger,
) ports.WebhookService {
	return &webhookService{
		cfg:          cfg,
		signer:       signer,
		deliveryRepo: deliveryRepo,
		httpClient:   httpClient,
		intervals:    webhookRetryIntervals,
		log:          log,
	}
}

// Deliver posts event to the configured endpoint, retrying on failure. It
// blocks until the endpoint answers 2xx, retries are exhausted, or ctx ends.
// The returned error is non-nil only when ctx ended first.
func (s *webhookService) Deliver(ctx context.Context, event domain.IntentEvent) (*domain.WebhookDelivery, error) {
	if s.cfg.URL == "" {
		s.log.Debug().Str("reference", event.Reference).Msg("webhook: no URL configured, skipping")
		return nil, nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	delivery := &domain.WebhookDelivery{
		EventID:   event.ID,
		Reference: event.Reference,
		URL:       s.cfg.URL,
		Status:    domain.WebhookStatusFailed,
		CreatedAt: time.Now().UTC(),
	}
	log := logger.ForIntent(s.log, event.Reference).With().Str("event_id", event.ID.String()).Logger()

	for attempt := 0; attempt <= len(s.intervals); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				s.record(delivery, log)
				return delivery, ctx.Err()
			case <-time.After(s.intervals[attempt-1]):
			}
		}
		delivery.Attempts = attempt + 1

		status, err := s.post(ctx, event, body)
		if status != 0 {
			delivery.HTTPStatus = &status
		}
		if err != nil {
			msg := err.Error()
			delivery.LastError = &msg
			log.Warn().Err(err).Int("attempt", attempt+1).Msg("webhook: delivery failed")
			continue
		}
		if status >= 200 && status < 300 {
			delivery.Status = domain.WebhookStatusDelivered
			delivery.LastError = nil
			log.Info().Int("attempt", attempt+1).Int("status", status).Msg("webhook: delivered successfully")
			s.record(delivery, log)
			return delivery, nil
		}
		msg := fmt.Sprintf("non-2xx response: %d", status)
		delivery.LastError = &msg
		log.Warn().Int("attempt", attempt+1).Int("status", status).Msg("webhook: non-2xx response, retrying")
	}

	log.Error().Int("attempts", delivery.Attempts).Msg("webhook: all retry attempts exhausted")
	s.record(delivery, log)
	return delivery, nil
}

func (s *webhookService) post(ctx context.Context, event domain.IntentEvent, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEventID, event.ID.String())
	req.Header.Set(HeaderEventType, event.Type)
	req.Header.Set(HeaderSignature, s.signer.Sign(time.Now(), event.ID.String(), body))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (s *webhookService) record(delivery *domain.WebhookDelivery, log zerolog.Logger) {
	if s.deliveryRepo == nil {
		return
	}
	if err := s.deliveryRepo.Create(context.Background(), delivery); err != nil {
		log.Warn().Err(err).Msg("webhook: failed to record delivery")
	}
}
