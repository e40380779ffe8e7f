// Package solana implements ports.Ledger over the Solana JSON-RPC API.
package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
)

// RPC is the subset of *rpc.Client the ledger adapter uses.
type RPC interface {
	GetSignaturesForAddressWithOpts(ctx context.Context, account solanago.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error)
	GetTransaction(ctx context.Context, txSig solanago.Signature, opts *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error)
	GetHealth(ctx context.Context) (string, error)
}

// Config tunes ledger queries.
type Config struct {
	Commitment string
	Timeout    time.Duration
	Lookback   int
}

// Client implements ports.Ledger.
type Client struct {
	rpc        RPC
	commitment rpc.CommitmentType
	timeout    time.Duration
	lookback   int
	log        zerolog.Logger
}

// NewClient wraps an RPC client. Use rpc.New(url) for a live node.
func NewClient(r RPC, cfg Config, log zerolog.Logger) *Client {
	commitment := rpc.CommitmentType(cfg.Commitment)
	if cfg.Commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	lookback := cfg.Lookback
	if lookback <= 0 {
		lookback = 100
	}
	return &Client{
		rpc:        r,
		commitment: commitment,
		timeout:    cfg.Timeout,
		lookback:   lookback,
		log:        log,
	}
}

var _ ports.Ledger = (*Client)(nil)

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// FindSignature returns the newest successful transaction mentioning reference.
func (c *Client) FindSignature(ctx context.Context, reference string) (*ports.LedgerSignature, error) {
	account, err := solanago.PublicKeyFromBase58(reference)
	if err != nil {
		return nil, fmt.Errorf("parsing reference: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	limit := c.lookback
	sigs, err := c.rpc.GetSignaturesForAddressWithOpts(ctx, account, &rpc.GetSignaturesForAddressOpts{
		Limit:      &limit,
		Commitment: c.commitment,
	})
	if err != nil {
		return nil, fmt.Errorf("getting signatures for %s: %w", reference, err)
	}

	// Newest first.
	for _, s := range sigs {
		if s == nil || s.Err != nil {
			continue
		}
		out := &ports.LedgerSignature{
			Signature: s.Signature.String(),
			Memo:      NormalizeMemo(s.Memo),
			Slot:      s.Slot,
		}
		if s.BlockTime != nil {
			t := s.BlockTime.Time()
			out.BlockTime = &t
		}
		return out, nil
	}
	return nil, nil
}

// ValidateTransfer fetches signature and checks it with MatchTransfer.
func (c *Client) ValidateTransfer(ctx context.Context, signature string, exp ports.TransferExpectation) (domain.Verdict, error) {
	sig, err := solanago.SignatureFromBase58(signature)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("parsing signature: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	version := uint64(0)
	res, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solanago.EncodingBase64,
		Commitment:                     c.commitment,
		MaxSupportedTransactionVersion: &version,
	})
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("getting transaction %s: %w", signature, err)
	}
	if res == nil || res.Transaction == nil {
		return domain.Verdict{}, fmt.Errorf("getting transaction %s: %w", signature, rpc.ErrNotFound)
	}

	tx, err := res.Transaction.GetTransaction()
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("decoding transaction %s: %w", signature, err)
	}
	obs, err := Observe(tx, res.Meta)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("observing transaction %s: %w", signature, err)
	}

	v := MatchTransfer(obs, exp)
	if !v.Valid {
		c.log.Debug().
			Str("signature", signature).
			Str("reference", exp.Reference).
			Str("reason", string(v.Reason)).
			Msg("transfer does not match")
	}
	return v, nil
}

// errUnhealthy is returned when the node answers but is not "ok".
var errUnhealthy = errors.New("solana node unhealthy")

// Ping implements ports.HealthChecker.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	status, err := c.rpc.GetHealth(ctx)
	if err != nil {
		return fmt.Errorf("solana getHealth: %w", err)
	}
	if status != rpc.HealthOk {
		return fmt.Errorf("%w: %s", errUnhealthy, status)
	}
	return nil
}

func (c *Client) Name() string { return "solana" }
