package postgres

import (
	"context"
	"fmt"
	"time"
)

// KeyVaultRepo implements ports.KeyVaultRepository.
type KeyVaultRepo struct {
	pool    Pool
	timeout time.Duration
}

// NewKeyVaultRepo creates a new KeyVaultRepo.
func NewKeyVaultRepo(pool Pool, timeout time.Duration) *KeyVaultRepo {
	return &KeyVaultRepo{pool: pool, timeout: timeout}
}

// Put stores a sealed wallet key. Keys are write-once.
func (r *KeyVaultRepo) Put(ctx context.Context, address string, sealedKey string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO wallet_keys (address, sealed_key, created_at) VALUES ($1, $2, NOW())`
	if _, err := r.pool.Exec(ctx, query, address, sealedKey); err != nil {
		return fmt.Errorf("insert wallet key: %w", err)
	}
	return nil
}
