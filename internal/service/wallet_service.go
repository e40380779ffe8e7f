package service

import (
	"context"
	"fmt"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// walletService implements ports.WalletService.
type walletService struct {
	walletRepo ports.WalletRepository
	keyGen     ports.KeyGenerator
	custodian  ports.KeyCustodian
	log        zerolog.Logger
}

// NewWalletService creates a new wallet service.
func NewWalletService(
	walletRepo ports.WalletRepository,
	keyGen ports.KeyGenerator,
	custodian ports.KeyCustodian,
	log zerolog.Logger,
) ports.WalletService {
	return &walletService{
		walletRepo: walletRepo,
		keyGen:     keyGen,
		custodian:  custodian,
		log:        log,
	}
}

// Ensure returns the oldest wallet of agentID, creating one if necessary.
// Two concurrent callers may both create a wallet; both then return the
// oldest one so every caller agrees on the recipient.
func (s *walletService) Ensure(ctx context.Context, agentID string, label string) (*domain.ReceivingWallet, error) {
	wallets, err := s.walletRepo.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, storeError("list wallets", err)
	}
	if len(wallets) > 0 {
		return &wallets[0], nil
	}

	address, secret, err := s.keyGen.NewKeypair()
	if err != nil {
		return nil, err
	}
	if err := s.custodian.Store(ctx, address, secret); err != nil {
		return nil, err
	}

	wallet := &domain.ReceivingWallet{
		Address:   address,
		AgentID:   agentID,
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, storeError("create wallet", err)
	}
	s.log.Info().Str("agent_id", agentID).Str("address", address).Msg("receiving wallet created")

	wallets, err = s.walletRepo.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, storeError("list wallets", err)
	}
	if len(wallets) == 0 {
		return nil, apperror.InternalError(fmt.Errorf("wallet %s vanished after create", address))
	}
	return &wallets[0], nil
}
