package service

import (
	"context"
	"fmt"

	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// DiscardCustodian drops wallet keys after creation. Funds sent to such a
// wallet can only be recovered by whoever exported the key out of band.
type DiscardCustodian struct {
	log zerolog.Logger
}

// NewDiscardCustodian creates a custodian that zeroes every key it receives.
func NewDiscardCustodian(log zerolog.Logger) *DiscardCustodian {
	return &DiscardCustodian{log: log}
}

// Store zeroes secret.
func (c *DiscardCustodian) Store(_ context.Context, address string, secret []byte) error {
	wipe(secret)
	c.log.Debug().Str("address", address).Msg("wallet key discarded")
	return nil
}

// SealedCustodian encrypts wallet keys and hands them to a key vault.
type SealedCustodian struct {
	encSvc ports.EncryptionService
	vault  ports.KeyVaultRepository
}

// NewSealedCustodian creates a custodian persisting AES-GCM sealed keys.
func NewSealedCustodian(encSvc ports.EncryptionService, vault ports.KeyVaultRepository) *SealedCustodian {
	return &SealedCustodian{encSvc: encSvc, vault: vault}
}

// Store seals secret bound to address, persists it, and zeroes secret.
func (c *SealedCustodian) Store(ctx context.Context, address string, secret []byte) error {
	defer wipe(secret)

	sealed, err := c.encSvc.Seal(secret, []byte(address))
	if err != nil {
		return apperror.ErrEncryptionFailure(fmt.Errorf("seal wallet key: %w", err))
	}
	if err := c.vault.Put(ctx, address, sealed); err != nil {
		return apperror.ErrStoreUnavailable(fmt.Errorf("store wallet key: %w", err))
	}
	return nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
