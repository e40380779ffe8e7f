package service

import (
	"fmt"

	"pago-gateway/pkg/apperror"

	"github.com/gagliardetto/solana-go"
)

// SolanaKeyGenerator implements ports.KeyGenerator with ed25519 keys from crypto/rand.
type SolanaKeyGenerator struct {
	newKey func() (solana.PrivateKey, error)
}

// NewSolanaKeyGenerator creates a key generator backed by solana.NewRandomPrivateKey.
func NewSolanaKeyGenerator() *SolanaKeyGenerator {
	return &SolanaKeyGenerator{newKey: solana.NewRandomPrivateKey}
}

// NewReference returns the public key of a fresh keypair. The private half is
// dropped; nobody ever signs with a reference.
func (g *SolanaKeyGenerator) NewReference() (string, error) {
	key, err := g.newKey()
	if err != nil {
		return "", apperror.ErrEntropy(fmt.Errorf("generate reference: %w", err))
	}
	return key.PublicKey().String(), nil
}

// NewKeypair returns a fresh address and its secret key.
func (g *SolanaKeyGenerator) NewKeypair() (string, []byte, error) {
	key, err := g.newKey()
	if err != nil {
		return "", nil, apperror.ErrEntropy(fmt.Errorf("generate keypair: %w", err))
	}
	return key.PublicKey().String(), []byte(key), nil
}
