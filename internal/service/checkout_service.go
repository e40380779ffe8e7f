package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// CheckoutConfig configures the checkout flow.
type CheckoutConfig struct {
	AgentID     string // agent that owns checkout intents
	WalletLabel string // label of lazily created checkout wallets
	Label       string
	Message     string
	CacheTTL    time.Duration
}

// CheckoutServiceImpl implements ports.CheckoutService.
type CheckoutServiceImpl struct {
	intentRepo ports.IntentRepository
	cache      ports.IntentCache
	wallets    ports.WalletService
	issuer     ports.IntentIssuer
	cfg        CheckoutConfig
	log        zerolog.Logger
}

// NewCheckoutService creates a new CheckoutServiceImpl.
func NewCheckoutService(
	intentRepo ports.IntentRepository,
	cache ports.IntentCache,
	wallets ports.WalletService,
	issuer ports.IntentIssuer,
	cfg CheckoutConfig,
	log zerolog.Logger,
) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		intentRepo: intentRepo,
		cache:      cache,
		wallets:    wallets,
		issuer:     issuer,
		cfg:        cfg,
		log:        log,
	}
}

// BuildCheckoutCacheKey returns the cache key of a checkout memo.
func BuildCheckoutCacheKey(memo string) string {
	return "checkout:" + memo
}

// Resolve returns the single intent for (order, amount), creating it on first use.
func (s *CheckoutServiceImpl) Resolve(ctx context.Context, req ports.CheckoutRequest) (*domain.PaymentIntent, error) {
	if req.OrderID == "" {
		return nil, apperror.Validation("order id is required")
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, apperror.ErrInvalidAmount()
	}
	agentID := req.AgentID
	if agentID == "" {
		agentID = s.cfg.AgentID
	}

	memo := domain.BuildCheckoutMemo(req.OrderID, amount)
	cacheKey := BuildCheckoutCacheKey(memo)

	// Layer 1: Redis
	if intent := s.fromCache(ctx, cacheKey); intent != nil {
		return intent, nil
	}

	// Layer 2: store
	existing, err := s.intentRepo.FindByMemo(ctx, memo)
	if err != nil {
		return nil, storeError("find intent by memo", err)
	}
	if existing != nil {
		s.toCache(ctx, cacheKey, existing)
		return existing, nil
	}

	wallet, err := s.wallets.Ensure(ctx, agentID, s.cfg.WalletLabel)
	if err != nil {
		return nil, err
	}

	intent, inserted, err := s.issuer.Issue(ctx, ports.IssueParams{
		AgentID: agentID,
		Origin:  domain.IntentOriginCheckout,
		Wallet:  wallet,
		Amount:  amount,
		Label:   s.cfg.Label,
		Message: s.cfg.Message,
		Memo:    memo,
	})
	if err != nil {
		return nil, err
	}

	if !inserted {
		// Lost the create race; the winner's intent is the one to pay.
		intent, err = s.intentRepo.FindByMemo(ctx, memo)
		if err != nil {
			return nil, storeError("reload intent by memo", err)
		}
		if intent == nil {
			return nil, apperror.InternalError(fmt.Errorf("checkout intent for memo %q missing after conflict", memo))
		}
		s.log.Debug().Str("memo", memo).Str("reference", intent.Reference).Msg("checkout resolved to concurrent winner")
	}

	s.toCache(ctx, cacheKey, intent)
	return intent, nil
}

func (s *CheckoutServiceImpl) fromCache(ctx context.Context, key string) *domain.PaymentIntent {
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis checkout lookup failed, falling through to store")
		return nil
	}
	if cached == nil {
		return nil
	}
	var intent domain.PaymentIntent
	if err := json.Unmarshal(cached, &intent); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding unreadable checkout cache entry")
		return nil
	}
	return &intent
}

func (s *CheckoutServiceImpl) toCache(ctx context.Context, key string, intent *domain.PaymentIntent) {
	data, err := json.Marshal(intent)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to marshal intent for cache")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cfg.CacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to cache checkout intent")
	}
}
