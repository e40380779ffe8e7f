package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"pago-gateway/internal/core/domain"
)

// EncryptionService handles AES-256-GCM sealing. aad binds the ciphertext to
// its owner (e.g. a wallet address) so it cannot be moved between rows.
type EncryptionService interface {
	Seal(plaintext []byte, aad []byte) (string, error)
	Open(sealed string, aad []byte) ([]byte, error)
}

// NotificationSigner authenticates webhook bodies for the receiving merchant.
type NotificationSigner interface {
	// Sign returns the signature header value for body sent at ts.
	Sign(ts time.Time, eventID string, body []byte) string
	// Verify checks a header produced by Sign against body, as seen at now.
	Verify(header string, eventID string, body []byte, now time.Time) error
}

// IntentCache is the Redis fast path for checkout lookups.
type IntentCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil, nil on miss
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher emits intent lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.IntentEvent) error
}

// KeyGenerator produces fresh ed25519 keypairs.
type KeyGenerator interface {
	// NewReference returns only the public half of a fresh keypair.
	NewReference() (string, error)
	// NewKeypair returns a base58 address and its 64-byte secret key.
	NewKeypair() (string, []byte, error)
}

// KeyCustodian takes ownership of a receiving wallet's private key at creation.
// The caller must not retain secret after Store returns.
type KeyCustodian interface {
	Store(ctx context.Context, address string, secret []byte) error
}

// Identity is a verified end user.
type Identity struct {
	UserID    string
	Email     string
	AuthTime  time.Time
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IdentityVerifier verifies a raw bearer credential.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

// --- Service Ports (Business Logic) ---

// CheckoutRequest is an order to be paid through the checkout flow.
type CheckoutRequest struct {
	OrderID string
	Amount  string
	AgentID string // empty = configured checkout agent
}

// CheckoutService maps (order, amount) to exactly one payment intent.
type CheckoutService interface {
	Resolve(ctx context.Context, req CheckoutRequest) (*domain.PaymentIntent, error)
}

// SettlementService verifies intents against the ledger.
type SettlementService interface {
	Verify(ctx context.Context, reference string) (*domain.PaymentIntent, error)
}

// IssueParams describe a new intent.
type IssueParams struct {
	AgentID string
	Origin  domain.IntentOrigin
	Wallet  *domain.ReceivingWallet
	Amount  domain.Amount
	Label   string
	Message string
	Memo    string
}

// IntentIssuer builds and persists fresh intents.
type IntentIssuer interface {
	Issue(ctx context.Context, p IssueParams) (*domain.PaymentIntent, bool, error)
}

// RequestService creates intents on behalf of an authenticated agent.
type RequestService interface {
	CreateForAgent(ctx context.Context, agent *domain.Agent, amount string) (*domain.PaymentIntent, error)
}

// WalletService provisions receiving wallets.
type WalletService interface {
	// Ensure returns the agent's oldest wallet, creating one labelled label if none exists.
	Ensure(ctx context.Context, agentID string, label string) (*domain.ReceivingWallet, error)
}

// AgentService resolves the agent behind a verified identity.
type AgentService interface {
	// ResolveByUser loads the agent for userID, provisioning a wallet if it has none.
	ResolveByUser(ctx context.Context, userID string) (*domain.Agent, error)
}

// Session is the result of exchanging an ID token for a session.
type Session struct {
	Token    string
	MaxAge   time.Duration
	Identity *Identity
	Agent    *domain.Agent
}

// SessionService exchanges ID tokens for browser sessions.
type SessionService interface {
	Start(ctx context.Context, rawToken string) (*Session, error)
	// Authenticate resolves the agent for an existing session or bearer token.
	Authenticate(ctx context.Context, rawToken string) (*domain.Agent, error)
}

// ReportingService provides read-only views for the dashboard.
type ReportingService interface {
	GetDashboardStats(ctx context.Context, agentID string, period string) (*IntentStats, error)
	ListIntents(ctx context.Context, params IntentListParams) ([]domain.PaymentIntent, int64, error)
}

// AuditService records audited actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// WebhookService notifies the configured endpoint about settled intents.
type WebhookService interface {
	Deliver(ctx context.Context, event domain.IntentEvent) (*domain.WebhookDelivery, error)
}

// EventHandler processes intent events consumed from the broker.
type EventHandler interface {
	// Handle returns an error only when the event should be redelivered.
	Handle(ctx context.Context, event domain.IntentEvent) error
}
