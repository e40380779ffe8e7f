package service

import (
	"context"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	intentRepo ports.IntentRepository
	now        func() time.Time
}

// NewReportingService creates a new reporting service.
func NewReportingService(intentRepo ports.IntentRepository) ports.ReportingService {
	return &reportingService{intentRepo: intentRepo, now: time.Now}
}

// GetDashboardStats returns aggregated intent stats for the agent.
func (s *reportingService) GetDashboardStats(ctx context.Context, agentID string, period string) (*ports.IntentStats, error) {
	var since *time.Time

	now := s.now().UTC()
	switch period {
	case "day":
		t := now.AddDate(0, 0, -1)
		since = &t
	case "week":
		t := now.AddDate(0, 0, -7)
		since = &t
	case "month":
		t := now.AddDate(0, -1, 0)
		since = &t
	case "all", "":
		// No time filter
	default:
		return nil, apperror.Validation("invalid period: must be day, week, month, or all")
	}

	stats, err := s.intentRepo.Stats(ctx, agentID, since)
	if err != nil {
		return nil, storeError("intent stats", err)
	}
	return stats, nil
}

// ListIntents returns a page of the agent's intents, newest first.
func (s *reportingService) ListIntents(ctx context.Context, params ports.IntentListParams) ([]domain.PaymentIntent, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}
	intents, total, err := s.intentRepo.ListByAgent(ctx, params)
	if err != nil {
		return nil, 0, storeError("list intents", err)
	}
	return intents, total, nil
}
