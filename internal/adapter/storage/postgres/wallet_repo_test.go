package postgres

import (
	"context"
	"testing"
	"time"

	"pago-gateway/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWallet(agentID, address string) *domain.ReceivingWallet {
	return &domain.ReceivingWallet{
		Address:   address,
		AgentID:   agentID,
		Label:     "Website wallet",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func walletColumns() []string {
	return []string{"address", "agent_id", "label", "created_at"}
}

func TestWalletRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock, time.Second)
	w := newTestWallet("website", "W1")

	mock.ExpectExec("INSERT INTO receiving_wallets").
		WithArgs(w.Address, w.AgentID, w.Label, w.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), w)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_ListByAgent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock, 0)
	w1 := newTestWallet("a1", "OLD")
	w2 := newTestWallet("a1", "NEW")

	mock.ExpectQuery("SELECT .+ FROM receiving_wallets WHERE agent_id = \\$1 ORDER BY created_at ASC").
		WithArgs("a1").
		WillReturnRows(pgxmock.NewRows(walletColumns()).
			AddRow(w1.Address, w1.AgentID, w1.Label, w1.CreatedAt).
			AddRow(w2.Address, w2.AgentID, w2.Label, w2.CreatedAt))

	wallets, err := repo.ListByAgent(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	assert.Equal(t, "OLD", wallets[0].Address)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_ListByAgent_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock, 0)

	mock.ExpectQuery("SELECT .+ FROM receiving_wallets").
		WithArgs("nobody").
		WillReturnRows(pgxmock.NewRows(walletColumns()))

	wallets, err := repo.ListByAgent(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, wallets)
}
