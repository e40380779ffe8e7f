package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/internal/core/ports/mocks"
	"pago-gateway/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type issuerTestDeps struct {
	svc        *IntentIssuerImpl
	intentRepo *mocks.MockIntentRepository
	keyGen     *mocks.MockKeyGenerator
	publisher  *mocks.MockEventPublisher
}

func setupIssuer(t *testing.T, splToken string) *issuerTestDeps {
	ctrl := gomock.NewController(t)
	d := &issuerTestDeps{
		intentRepo: mocks.NewMockIntentRepository(ctrl),
		keyGen:     mocks.NewMockKeyGenerator(ctrl),
		publisher:  mocks.NewMockEventPublisher(ctrl),
	}
	d.svc = NewIntentIssuer(d.intentRepo, d.keyGen, d.publisher, splToken, newTestLogger())
	return d
}

func TestIntentIssuer_Issue_Success(t *testing.T) {
	d := setupIssuer(t, "")
	ctx := context.Background()

	d.keyGen.EXPECT().NewReference().Return("REF1", nil)
	d.intentRepo.EXPECT().Create(ctx, gomock.Any()).Return(true, nil)
	d.publisher.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, ev domain.IntentEvent) error {
			assert.Equal(t, domain.EventIntentCreated, ev.Type)
			assert.Equal(t, "REF1", ev.Reference)
			return nil
		})

	intent, inserted, err := d.svc.Issue(ctx, ports.IssueParams{
		AgentID: "website",
		Origin:  domain.IntentOriginCheckout,
		Wallet:  &domain.ReceivingWallet{Address: "WALLET"},
		Amount:  domain.MustParseAmount("5.00"),
		Label:   "Shop",
		Memo:    "ord-1,5.00",
	})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "REF1", intent.Reference)
	assert.Equal(t, "WALLET", intent.Recipient)
	assert.Equal(t, domain.IntentStateCreated, intent.State)
	assert.Nil(t, intent.SPLToken)
	assert.Nil(t, intent.Message)
	assert.Equal(t, "ord-1,5.00", intent.MemoValue())
	assert.Equal(t, "solana:WALLET?amount=5.00&reference=REF1&label=Shop&memo=ord-1%2C5.00", intent.URL)
}

func TestIntentIssuer_Issue_SPLToken(t *testing.T) {
	d := setupIssuer(t, "MINT")
	ctx := context.Background()

	d.keyGen.EXPECT().NewReference().Return("REF1", nil)
	d.intentRepo.EXPECT().Create(ctx, gomock.Any()).Return(true, nil)
	d.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("broker down"))

	intent, _, err := d.svc.Issue(ctx, ports.IssueParams{
		Origin: domain.IntentOriginAgent,
		Wallet: &domain.ReceivingWallet{Address: "W"},
		Amount: domain.MustParseAmount("1"),
	})
	require.NoError(t, err, "publish failures must not fail issuance")
	require.NotNil(t, intent.SPLToken)
	assert.Equal(t, "MINT", *intent.SPLToken)
	assert.True(t, strings.Contains(intent.URL, "spl-token=MINT"))
}

func TestIntentIssuer_Issue_NotInserted(t *testing.T) {
	d := setupIssuer(t, "")
	ctx := context.Background()

	d.keyGen.EXPECT().NewReference().Return("REF1", nil)
	d.intentRepo.EXPECT().Create(ctx, gomock.Any()).Return(false, nil)

	intent, inserted, err := d.svc.Issue(ctx, ports.IssueParams{
		Wallet: &domain.ReceivingWallet{Address: "W"},
		Amount: domain.MustParseAmount("1"),
	})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Nil(t, intent)
}

func TestIntentIssuer_Issue_NoWallet(t *testing.T) {
	d := setupIssuer(t, "")

	_, _, err := d.svc.Issue(context.Background(), ports.IssueParams{Amount: domain.MustParseAmount("1")})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAY_004", appErr.Code)
}

func TestIntentIssuer_Issue_StoreError(t *testing.T) {
	d := setupIssuer(t, "")
	ctx := context.Background()

	d.keyGen.EXPECT().NewReference().Return("REF1", nil)
	d.intentRepo.EXPECT().Create(ctx, gomock.Any()).Return(false, errors.New("timeout"))

	_, _, err := d.svc.Issue(ctx, ports.IssueParams{
		Wallet: &domain.ReceivingWallet{Address: "W"},
		Amount: domain.MustParseAmount("1"),
	})
	assert.Equal(t, apperror.KindTransient, apperror.KindOf(err))
}

func TestIntentIssuer_Issue_NilPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIntentRepository(ctrl)
	keyGen := mocks.NewMockKeyGenerator(ctrl)
	svc := NewIntentIssuer(repo, keyGen, nil, "", newTestLogger())

	keyGen.EXPECT().NewReference().Return("R", nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(true, nil)

	_, inserted, err := svc.Issue(context.Background(), ports.IssueParams{
		Wallet: &domain.ReceivingWallet{Address: "W"},
		Amount: domain.MustParseAmount("1"),
	})
	require.NoError(t, err)
	assert.True(t, inserted)
}
