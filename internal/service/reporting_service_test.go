package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/internal/core/ports/mocks"
	"pago-gateway/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestReportingService_GetDashboardStats_All(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIntentRepo := mocks.NewMockIntentRepository(ctrl)
	svc := NewReportingService(mockIntentRepo)

	expected := &ports.IntentStats{Total: 100, Created: 20, Settled: 80, SettledVolume: "1234.50"}
	mockIntentRepo.EXPECT().Stats(gomock.Any(), "agent-1", (*time.Time)(nil)).Return(expected, nil)

	result, err := svc.GetDashboardStats(context.Background(), "agent-1", "all")
	require.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestReportingService_GetDashboardStats_WithPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIntentRepo := mocks.NewMockIntentRepository(ctrl)
	svc := NewReportingService(mockIntentRepo).(*reportingService)
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	mockIntentRepo.EXPECT().Stats(gomock.Any(), "agent-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, since *time.Time) (*ports.IntentStats, error) {
			require.NotNil(t, since)
			assert.Equal(t, now.AddDate(0, 0, -7), *since)
			return &ports.IntentStats{Total: 10}, nil
		})

	result, err := svc.GetDashboardStats(context.Background(), "agent-1", "week")
	require.NoError(t, err)
	assert.Equal(t, int64(10), result.Total)
}

func TestReportingService_GetDashboardStats_InvalidPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewReportingService(mocks.NewMockIntentRepository(ctrl))

	_, err := svc.GetDashboardStats(context.Background(), "agent-1", "invalid")
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestReportingService_GetDashboardStats_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIntentRepo := mocks.NewMockIntentRepository(ctrl)
	svc := NewReportingService(mockIntentRepo)

	mockIntentRepo.EXPECT().Stats(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))

	_, err := svc.GetDashboardStats(context.Background(), "agent-1", "")
	assert.Equal(t, apperror.KindTransient, apperror.KindOf(err))
}

func TestReportingService_ListIntents_Paging(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIntentRepo := mocks.NewMockIntentRepository(ctrl)
	svc := NewReportingService(mockIntentRepo)
	settled := domain.IntentStateSettled

	mockIntentRepo.EXPECT().ListByAgent(gomock.Any(), ports.IntentListParams{
		AgentID: "agent-1", State: &settled, Page: 1, PageSize: 100,
	}).Return([]domain.PaymentIntent{{Reference: "R"}}, int64(1), nil)

	intents, total, err := svc.ListIntents(context.Background(), ports.IntentListParams{
		AgentID: "agent-1", State: &settled, Page: 0, PageSize: 1000,
	})
	require.NoError(t, err)
	assert.Len(t, intents, 1)
	assert.Equal(t, int64(1), total)
}

func TestReportingService_ListIntents_DefaultPageSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIntentRepo := mocks.NewMockIntentRepository(ctrl)
	svc := NewReportingService(mockIntentRepo)

	mockIntentRepo.EXPECT().ListByAgent(gomock.Any(), ports.IntentListParams{AgentID: "a", Page: 3, PageSize: 20}).
		Return(nil, int64(0), nil)

	_, _, err := svc.ListIntents(context.Background(), ports.IntentListParams{AgentID: "a", Page: 3})
	require.NoError(t, err)
}
