package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pago-gateway/internal/core/domain"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	mu      sync.RWMutex
	wallets map[string]domain.ReceivingWallet
}

// NewWalletRepo creates an empty wallet store.
func NewWalletRepo() *WalletRepo {
	return &WalletRepo{wallets: make(map[string]domain.ReceivingWallet)}
}

func (r *WalletRepo) Create(_ context.Context, w *domain.ReceivingWallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wallets[w.Address]; ok {
		return fmt.Errorf("wallet %s already exists", w.Address)
	}
	r.wallets[w.Address] = *w
	return nil
}

func (r *WalletRepo) ListByAgent(_ context.Context, agentID string) ([]domain.ReceivingWallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.ReceivingWallet
	for _, w := range r.wallets {
		if w.AgentID == agentID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Address < out[j].Address
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// AgentRepo implements ports.AgentRepository over a fixed set of agents.
type AgentRepo struct {
	mu      sync.RWMutex
	agents  map[string]domain.Agent
	wallets *WalletRepo
}

// NewAgentRepo creates an agent directory whose wallets come from wallets.
func NewAgentRepo(wallets *WalletRepo, agents ...domain.Agent) *AgentRepo {
	r := &AgentRepo{agents: make(map[string]domain.Agent), wallets: wallets}
	for _, a := range agents {
		r.Add(a)
	}
	return r
}

// Add registers or replaces an agent.
func (r *AgentRepo) Add(a domain.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.Wallets = nil
	r.agents[a.ID] = a
}

func (r *AgentRepo) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	r.mu.RLock()
	a, ok := r.agents[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.withWallets(ctx, a)
}

func (r *AgentRepo) GetByUserID(ctx context.Context, userID string) (*domain.Agent, error) {
	r.mu.RLock()
	var found *domain.Agent
	for _, a := range r.agents {
		if a.UserID != "" && a.UserID == userID {
			a := a
			found = &a
			break
		}
	}
	r.mu.RUnlock()
	if found == nil {
		return nil, nil
	}
	return r.withWallets(ctx, *found)
}

func (r *AgentRepo) withWallets(ctx context.Context, a domain.Agent) (*domain.Agent, error) {
	wallets, err := r.wallets.ListByAgent(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.Wallets = wallets
	return &a, nil
}

// KeyVault implements ports.KeyVaultRepository.
type KeyVault struct {
	mu   sync.RWMutex
	keys map[string]string
}

// NewKeyVault creates an empty key vault.
func NewKeyVault() *KeyVault {
	return &KeyVault{keys: make(map[string]string)}
}

func (v *KeyVault) Put(_ context.Context, address string, sealedKey string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.keys[address]; ok {
		return fmt.Errorf("key for %s already stored", address)
	}
	v.keys[address] = sealedKey
	return nil
}

// Get returns the sealed key for address.
func (v *KeyVault) Get(address string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	k, ok := v.keys[address]
	return k, ok
}
