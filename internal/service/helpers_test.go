package service

import (
	"io"
	"net/http"
	"testing"
	"time"

	"pago-gateway/internal/core/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// mockHTTPClient implements HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func newPubkey(t *testing.T) string {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key.PublicKey().String()
}

func strPtr(s string) *string { return &s }

func newTestIntent(t *testing.T, origin domain.IntentOrigin, memo string) *domain.PaymentIntent {
	t.Helper()
	return &domain.PaymentIntent{
		Reference: newPubkey(t),
		AgentID:   "website",
		Origin:    origin,
		Recipient: newPubkey(t),
		Amount:    domain.MustParseAmount("5.00"),
		Memo:      strPtr(memo),
		URL:       "solana:x",
		State:     domain.IntentStateCreated,
		CreatedAt: time.Now().UTC(),
	}
}
