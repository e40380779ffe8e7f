package ports

//go:generate mockgen -source=ledger.go -destination=mocks/mock_ledger.go -package=mocks

import (
	"context"
	"time"

	"pago-gateway/internal/core/domain"
)

// LedgerSignature is a confirmed transaction that mentions a reference.
type LedgerSignature struct {
	Signature string
	Memo      *string // memo text carried by the transaction, if any
	Slot      uint64
	BlockTime *time.Time
}

// TransferExpectation is what a transaction must contain to settle an intent.
type TransferExpectation struct {
	Recipient string
	Amount    domain.Amount
	SPLToken  *string
	Reference string
}

// Ledger queries the payment ledger. Both calls are network bound and honour
// ctx cancellation.
type Ledger interface {
	// FindSignature returns the most recent successful transaction that lists
	// reference among its accounts, or nil when there is none yet.
	FindSignature(ctx context.Context, reference string) (*LedgerSignature, error)
	// ValidateTransfer checks signature against exp. A mismatch is reported as
	// an invalid Verdict, not an error.
	ValidateTransfer(ctx context.Context, signature string, exp TransferExpectation) (domain.Verdict, error)
}
