package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const sealVersion = "v1"

var (
	errSealFormat = errors.New("sealed value is not v1.<key id>.<payload>")
	errSealKey    = errors.New("sealed with a different key")
)

// AESEncryptionService seals wallet keys with AES-256-GCM.
//
// Sealed values read "v1.<key id>.<base64url nonce||ciphertext||tag>". The
// key id is the first four bytes of SHA-256 over the key, so every vault row
// names the custody key that opens it.
type AESEncryptionService struct {
	aead  cipher.AEAD
	keyID string
}

// NewAESEncryptionService takes the custody key as 64 hex characters.
func NewAESEncryptionService(hexKey string) (*AESEncryptionService, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding custody key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("custody key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	sum := sha256.Sum256(key)
	return &AESEncryptionService{aead: aead, keyID: hex.EncodeToString(sum[:4])}, nil
}

// KeyID identifies the custody key in sealed values.
func (s *AESEncryptionService) KeyID() string {
	return s.keyID
}

// Seal encrypts plaintext bound to aad, normally the wallet address.
func (s *AESEncryptionService) Seal(plaintext []byte, aad []byte) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(s.aead.Seal(nonce, nonce, plaintext, aad))
	return sealVersion + "." + s.keyID + "." + payload, nil
}

// Open reverses Seal. It fails if the value, its key id or aad were altered.
func (s *AESEncryptionService) Open(sealed string, aad []byte) ([]byte, error) {
	parts := strings.SplitN(sealed, ".", 3)
	if len(parts) != 3 || parts[0] != sealVersion {
		return nil, errSealFormat
	}
	if parts[1] != s.keyID {
		return nil, fmt.Errorf("%w: %s", errSealKey, parts[1])
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	nonceSize := s.aead.NonceSize()
	if len(raw) < nonceSize+s.aead.Overhead() {
		return nil, fmt.Errorf("sealed payload too short")
	}
	plaintext, err := s.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], aad)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	return plaintext, nil
}
