// Package memory holds process-local implementations of the storage ports.
// They back database.driver=memory and the end-to-end tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"

	"github.com/shopspring/decimal"
)

// IntentRepo implements ports.IntentRepository.
type IntentRepo struct {
	mu     sync.RWMutex
	byRef  map[string]*domain.PaymentIntent
	byMemo map[string]string // checkout memo -> reference
}

// NewIntentRepo creates an empty intent store.
func NewIntentRepo() *IntentRepo {
	return &IntentRepo{
		byRef:  make(map[string]*domain.PaymentIntent),
		byMemo: make(map[string]string),
	}
}

func (r *IntentRepo) Create(_ context.Context, p *domain.PaymentIntent) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byRef[p.Reference]; ok {
		return false, nil
	}
	checkout := p.Origin == domain.IntentOriginCheckout && p.Memo != nil
	if checkout {
		if _, ok := r.byMemo[*p.Memo]; ok {
			return false, nil
		}
		r.byMemo[*p.Memo] = p.Reference
	}
	c := *p
	r.byRef[p.Reference] = &c
	return true, nil
}

func (r *IntentRepo) GetByReference(_ context.Context, reference string) (*domain.PaymentIntent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyOf(reference), nil
}

func (r *IntentRepo) FindByMemo(_ context.Context, memo string) (*domain.PaymentIntent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ref, ok := r.byMemo[memo]
	if !ok {
		return nil, nil
	}
	return r.copyOf(ref), nil
}

func (r *IntentRepo) MarkSettled(_ context.Context, reference string, signature string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byRef[reference]
	if !ok || p.State != domain.IntentStateCreated {
		return false, nil
	}
	p.State = domain.IntentStateSettled
	p.Signature = &signature
	p.UpdatedAt = &at
	return true, nil
}

func (r *IntentRepo) ListByAgent(_ context.Context, params ports.IntentListParams) ([]domain.PaymentIntent, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.PaymentIntent
	for _, p := range r.byRef {
		if p.AgentID != params.AgentID {
			continue
		}
		if params.State != nil && p.State != *params.State {
			continue
		}
		if params.Origin != nil && p.Origin != *params.Origin {
			continue
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (params.Page - 1) * params.PageSize
	if start < 0 || start >= len(matched) {
		return nil, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *IntentRepo) Stats(_ context.Context, agentID string, since *time.Time) (*ports.IntentStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &ports.IntentStats{}
	volume := decimal.Zero
	for _, p := range r.byRef {
		if p.AgentID != agentID || (since != nil && p.CreatedAt.Before(*since)) {
			continue
		}
		stats.Total++
		switch p.State {
		case domain.IntentStateCreated:
			stats.Created++
		case domain.IntentStateSettled:
			stats.Settled++
			volume = volume.Add(p.Amount.Decimal())
		}
	}
	stats.SettledVolume = volume.String()
	return stats, nil
}

func (r *IntentRepo) copyOf(reference string) *domain.PaymentIntent {
	p, ok := r.byRef[reference]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

var (
	_ ports.IntentRepository   = (*IntentRepo)(nil)
	_ ports.WalletRepository   = (*WalletRepo)(nil)
	_ ports.AgentRepository    = (*AgentRepo)(nil)
	_ ports.KeyVaultRepository = (*KeyVault)(nil)
	_ ports.IntentCache        = (*IntentCache)(nil)
)
