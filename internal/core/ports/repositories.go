package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"
	"time"

	"pago-gateway/internal/core/domain"
)

// IntentRepository persists payment intents. Implementations must make Create
// an atomic create-if-absent keyed on reference and, for checkout intents, on
// memo; MarkSettled must only succeed while the intent is still CREATED.
type IntentRepository interface {
	// Create inserts intent unless its reference or checkout memo already exists.
	// Returns false when nothing was inserted.
	Create(ctx context.Context, intent *domain.PaymentIntent) (bool, error)
	GetByReference(ctx context.Context, reference string) (*domain.PaymentIntent, error)
	// FindByMemo looks up a checkout intent by its correlation key.
	FindByMemo(ctx context.Context, memo string) (*domain.PaymentIntent, error)
	// MarkSettled transitions CREATED -> SETTLED. Returns false if the intent
	// was not in CREATED.
	MarkSettled(ctx context.Context, reference string, signature string, at time.Time) (bool, error)
	ListByAgent(ctx context.Context, params IntentListParams) ([]domain.PaymentIntent, int64, error)
	Stats(ctx context.Context, agentID string, since *time.Time) (*IntentStats, error)
}

// IntentListParams holds filter + pagination for listing intents.
type IntentListParams struct {
	AgentID  string
	State    *domain.IntentState
	Origin   *domain.IntentOrigin
	Page     int
	PageSize int
}

// IntentStats holds aggregated statistics for the dashboard.
type IntentStats struct {
	Total         int64
	Created       int64
	Settled       int64
	SettledVolume string // decimal sum of settled amounts
}

// WalletRepository persists receiving wallets.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.ReceivingWallet) error
	// ListByAgent returns wallets oldest first.
	ListByAgent(ctx context.Context, agentID string) ([]domain.ReceivingWallet, error)
}

// AgentRepository resolves agents with their merchant and wallets.
type AgentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Agent, error)
}

// KeyVaultRepository stores sealed private keys for receiving wallets.
type KeyVaultRepository interface {
	Put(ctx context.Context, address string, sealedKey string) error
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// WebhookDeliveryRepository records settlement notification attempts.
type WebhookDeliveryRepository interface {
	Create(ctx context.Context, delivery *domain.WebhookDelivery) error
}
