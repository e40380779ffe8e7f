package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pago-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AgentRepo implements ports.AgentRepository.
type AgentRepo struct {
	pool    Pool
	timeout time.Duration
}

// NewAgentRepo creates a new AgentRepo.
func NewAgentRepo(pool Pool, timeout time.Duration) *AgentRepo {
	return &AgentRepo{pool: pool, timeout: timeout}
}

const agentQuery = `SELECT a.id, a.user_id, a.forename, a.surname, a.created_at, m.id, m.name
		FROM agents a JOIN merchants m ON m.id = a.merchant_id`

// GetByID fetches an agent with its merchant and wallets.
func (r *AgentRepo) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	return r.get(ctx, agentQuery+` WHERE a.id = $1`, id)
}

// GetByUserID fetches the agent registered for an identity provider user.
func (r *AgentRepo) GetByUserID(ctx context.Context, userID string) (*domain.Agent, error) {
	return r.get(ctx, agentQuery+` WHERE a.user_id = $1`, userID)
}

func (r *AgentRepo) get(ctx context.Context, query string, arg string) (*domain.Agent, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	a := &domain.Agent{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.UserID, &a.Forename, &a.Surname, &a.CreatedAt,
		&a.Merchant.ID, &a.Merchant.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agent: %w", err)
	}

	wallets, err := listWallets(ctx, r.pool, a.ID)
	if err != nil {
		return nil, err
	}
	a.Wallets = wallets
	return a, nil
}
