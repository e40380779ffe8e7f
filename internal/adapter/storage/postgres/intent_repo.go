package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

const intentColumns = `reference, agent_id, origin, recipient, amount, spl_token, label, message, memo,
		url, state, signature, created_at, updated_at`

// IntentRepo implements ports.IntentRepository.
type IntentRepo struct {
	pool    Pool
	timeout time.Duration
}

// NewIntentRepo creates a new IntentRepo. timeout bounds every query.
func NewIntentRepo(pool Pool, timeout time.Duration) *IntentRepo {
	return &IntentRepo{pool: pool, timeout: timeout}
}

// Create inserts an intent unless the reference or, for checkout intents, the
// memo is already taken. The partial unique index on memo arbitrates races.
func (r *IntentRepo) Create(ctx context.Context, p *domain.PaymentIntent) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO payment_intents (` + intentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		p.Reference, p.AgentID, p.Origin, p.Recipient, p.Amount.String(),
		p.SPLToken, p.Label, p.Message, p.Memo,
		p.URL, p.State, p.Signature, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert payment intent: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByReference fetches an intent by its reference.
func (r *IntentRepo) GetByReference(ctx context.Context, reference string) (*domain.PaymentIntent, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + intentColumns + ` FROM payment_intents WHERE reference = $1`
	return scanIntent(r.pool.QueryRow(ctx, query, reference))
}

// FindByMemo fetches the checkout intent for memo.
func (r *IntentRepo) FindByMemo(ctx context.Context, memo string) (*domain.PaymentIntent, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + intentColumns + ` FROM payment_intents WHERE memo = $1 AND origin = 'CHECKOUT'`
	return scanIntent(r.pool.QueryRow(ctx, query, memo))
}

// MarkSettled records signature if the intent is still CREATED.
func (r *IntentRepo) MarkSettled(ctx context.Context, reference string, signature string, at time.Time) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `UPDATE payment_intents SET state = 'SETTLED', signature = $2, updated_at = $3
		WHERE reference = $1 AND state = 'CREATED'`

	tag, err := r.pool.Exec(ctx, query, reference, signature, at)
	if err != nil {
		return false, fmt.Errorf("mark intent settled: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByAgent fetches an agent's intents with filtering and pagination.
func (r *IntentRepo) ListByAgent(ctx context.Context, params ports.IntentListParams) ([]domain.PaymentIntent, int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("agent_id = $%d", argIdx))
	args = append(args, params.AgentID)
	argIdx++

	if params.State != nil {
		conditions = append(conditions, fmt.Sprintf("state = $%d", argIdx))
		args = append(args, *params.State)
		argIdx++
	}
	if params.Origin != nil {
		conditions = append(conditions, fmt.Sprintf("origin = $%d", argIdx))
		args = append(args, *params.Origin)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM payment_intents %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payment intents: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM payment_intents %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		intentColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payment intents: %w", err)
	}
	defer rows.Close()

	var intents []domain.PaymentIntent
	for rows.Next() {
		p, err := scanIntent(rows)
		if err != nil {
			return nil, 0, err
		}
		intents = append(intents, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate payment intent rows: %w", err)
	}
	return intents, total, nil
}

// Stats aggregates an agent's intents, optionally since a point in time.
func (r *IntentRepo) Stats(ctx context.Context, agentID string, since *time.Time) (*ports.IntentStats, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	args := []any{agentID}
	condition := "agent_id = $1"
	if since != nil {
		condition += " AND created_at >= $2"
		args = append(args, *since)
	}

	query := fmt.Sprintf(`SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE state = 'CREATED') AS created,
		COUNT(*) FILTER (WHERE state = 'SETTLED') AS settled,
		COALESCE(SUM(amount::numeric) FILTER (WHERE state = 'SETTLED'), 0)::text AS settled_volume
		FROM payment_intents WHERE %s`, condition)

	stats := &ports.IntentStats{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.Total, &stats.Created, &stats.Settled, &stats.SettledVolume,
	)
	if err != nil {
		return nil, fmt.Errorf("get intent stats: %w", err)
	}
	return stats, nil
}

// scanIntent scans one row. It returns nil, nil on pgx.ErrNoRows.
func scanIntent(row pgx.Row) (*domain.PaymentIntent, error) {
	p := &domain.PaymentIntent{}
	var amount string
	err := row.Scan(
		&p.Reference, &p.AgentID, &p.Origin, &p.Recipient, &amount,
		&p.SPLToken, &p.Label, &p.Message, &p.Memo,
		&p.URL, &p.State, &p.Signature, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payment intent: %w", err)
	}
	if p.Amount, err = domain.ParseAmount(amount); err != nil {
		return nil, fmt.Errorf("payment intent %s: %w", p.Reference, err)
	}
	return p, nil
}
