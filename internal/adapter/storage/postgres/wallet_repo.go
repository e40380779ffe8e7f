package postgres

import (
	"context"
	"fmt"
	"time"

	"pago-gateway/internal/core/domain"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool    Pool
	timeout time.Duration
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool, timeout time.Duration) *WalletRepo {
	return &WalletRepo{pool: pool, timeout: timeout}
}

// Create inserts a new receiving wallet.
func (r *WalletRepo) Create(ctx context.Context, w *domain.ReceivingWallet) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO receiving_wallets (address, agent_id, label, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.pool.Exec(ctx, query, w.Address, w.AgentID, w.Label, w.CreatedAt); err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// ListByAgent returns the agent's wallets, oldest first.
func (r *WalletRepo) ListByAgent(ctx context.Context, agentID string) ([]domain.ReceivingWallet, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return listWallets(ctx, r.pool, agentID)
}

func listWallets(ctx context.Context, pool Pool, agentID string) ([]domain.ReceivingWallet, error) {
	query := `SELECT address, agent_id, label, created_at FROM receiving_wallets
		WHERE agent_id = $1 ORDER BY created_at ASC, address ASC`

	rows, err := pool.Query(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []domain.ReceivingWallet
	for rows.Next() {
		var w domain.ReceivingWallet
		if err := rows.Scan(&w.Address, &w.AgentID, &w.Label, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet rows: %w", err)
	}
	return wallets, nil
}
