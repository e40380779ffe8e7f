package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"
	"pago-gateway/pkg/logger"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// defaultVerifyTimeout bounds one shared verification round, which outlives
// the caller that started it.
const defaultVerifyTimeout = 30 * time.Second

// SettlementServiceImpl implements ports.SettlementService.
type SettlementServiceImpl struct {
	intentRepo ports.IntentRepository
	ledger     ports.Ledger
	cache      ports.IntentCache
	publisher  ports.EventPublisher // optional
	group      singleflight.Group
	timeout    time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl.
func NewSettlementService(
	intentRepo ports.IntentRepository,
	ledger ports.Ledger,
	cache ports.IntentCache,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		intentRepo: intentRepo,
		ledger:     ledger,
		cache:      cache,
		publisher:  publisher,
		timeout:    defaultVerifyTimeout,
		now:        func() time.Time { return time.Now().UTC() },
		log:        log,
	}
}

// Verify checks the ledger for a transaction that settles reference and records
// it. It is safe to call repeatedly; a settled intent is returned as stored.
// Concurrent calls for one reference inside this process share a single
// ledger round trip; across processes the conditional MarkSettled decides.
// The shared round is detached from any single caller: a caller whose ctx
// ends gets a transient error while the others keep waiting for the result.
func (s *SettlementServiceImpl) Verify(ctx context.Context, reference string) (*domain.PaymentIntent, error) {
	if _, err := solana.PublicKeyFromBase58(reference); err != nil {
		return nil, apperror.ErrInvalidReference()
	}

	ch := s.group.DoChan(reference, func() (interface{}, error) {
		roundCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.verify(roundCtx, reference)
	})

	select {
	case <-ctx.Done():
		return nil, ledgerError("verify", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		intent := *res.Val.(*domain.PaymentIntent)
		return &intent, nil
	}
}

func (s *SettlementServiceImpl) verify(ctx context.Context, reference string) (*domain.PaymentIntent, error) {
	intent, err := s.intentRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, storeError("get intent", err)
	}
	if intent == nil {
		return nil, apperror.ErrNotFound("payment request")
	}
	if intent.IsSettled() {
		return intent, nil
	}

	found, err := s.ledger.FindSignature(ctx, reference)
	if err != nil {
		return nil, ledgerError("find signature", err)
	}
	if found == nil {
		return nil, apperror.ErrNotYetSettled()
	}

	log := logger.ForIntent(s.log, reference).With().Str("signature", found.Signature).Logger()

	if deref(intent.Memo) != deref(found.Memo) {
		log.Warn().
			Str("expected_memo", deref(intent.Memo)).
			Str("ledger_memo", deref(found.Memo)).
			Msg("memo mismatch, continuing with transfer validation")
	}

	verdict, err := s.ledger.ValidateTransfer(ctx, found.Signature, ports.TransferExpectation{
		Recipient: intent.Recipient,
		Amount:    intent.Amount,
		SPLToken:  intent.SPLToken,
		Reference: intent.Reference,
	})
	if err != nil {
		return nil, ledgerError("validate transfer", err)
	}
	if !verdict.Valid {
		log.Warn().Str("reason", string(verdict.Reason)).Str("detail", verdict.Detail).Msg("settlement mismatch")
		return nil, apperror.ErrSettlementMismatch(mismatchDetail(verdict))
	}

	at := s.now()
	updated, err := s.intentRepo.MarkSettled(ctx, reference, found.Signature, at)
	if err != nil {
		return nil, storeError("mark settled", err)
	}
	if !updated {
		// Another process settled it first; its signature stands.
		winner, err := s.intentRepo.GetByReference(ctx, reference)
		if err != nil {
			return nil, storeError("reload intent", err)
		}
		if winner == nil || !winner.IsSettled() {
			return nil, apperror.InternalError(fmt.Errorf("intent %s not settled after conditional update", reference))
		}
		return winner, nil
	}

	intent.State = domain.IntentStateSettled
	intent.Signature = &found.Signature
	intent.UpdatedAt = &at
	log.Info().Str("amount", intent.Amount.String()).Msg("payment intent settled")

	publish(ctx, s.publisher, s.log, domain.EventIntentSettled, intent)
	if intent.Origin == domain.IntentOriginCheckout && intent.Memo != nil {
		if err := s.cache.Delete(ctx, BuildCheckoutCacheKey(*intent.Memo)); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate checkout cache")
		}
	}
	return intent, nil
}

// ledgerError classifies a ledger failure as transient unless the adapter
// already classified it.
func ledgerError(op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.ErrLedgerUnavailable(fmt.Errorf("%s: %w", op, err))
}

func mismatchDetail(v domain.Verdict) string {
	if v.Detail == "" {
		return string(v.Reason)
	}
	return string(v.Reason) + " (" + v.Detail + ")"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
