package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	solanaLedger "pago-gateway/internal/adapter/ledger/solana"
	"pago-gateway/internal/adapter/storage/memory"
	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// observedLedger answers with canned observations and checks them with the
// real transfer predicate.
type observedLedger struct {
	mu   sync.Mutex
	txs  map[string]solanaLedger.Observation // signature -> observation
	refs map[string]ports.LedgerSignature    // reference -> newest signature
}

func newObservedLedger() *observedLedger {
	return &observedLedger{
		txs:  make(map[string]solanaLedger.Observation),
		refs: make(map[string]ports.LedgerSignature),
	}
}

// pay records a native transfer of lamports from a payer to recipient that
// carries reference.
func (l *observedLedger) pay(signature, reference, recipient, memo string, lamports uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.txs[signature] = solanaLedger.Observation{
		AccountKeys:  []string{"payer", recipient, reference},
		PreBalances:  []uint64{10_000_000_000, 0, 0},
		PostBalances: []uint64{10_000_000_000 - lamports - 5000, lamports, 0},
	}
	m := memo
	l.refs[reference] = ports.LedgerSignature{Signature: signature, Memo: &m}
}

func (l *observedLedger) FindSignature(_ context.Context, reference string) (*ports.LedgerSignature, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sig, ok := l.refs[reference]
	if !ok {
		return nil, nil
	}
	return &sig, nil
}

func (l *observedLedger) ValidateTransfer(_ context.Context, signature string, exp ports.TransferExpectation) (domain.Verdict, error) {
	l.mu.Lock()
	obs, ok := l.txs[signature]
	l.mu.Unlock()
	if !ok {
		return domain.Verdict{}, assert.AnError
	}
	return solanaLedger.MatchTransfer(obs, exp), nil
}

type gateway struct {
	intents    *memory.IntentRepo
	ledger     *observedLedger
	checkout   *CheckoutServiceImpl
	settlement *SettlementServiceImpl
}

func newGateway() *gateway {
	log := newTestLogger()
	intents := memory.NewIntentRepo()
	cache := memory.NewIntentCache()
	ledger := newObservedLedger()
	keyGen := NewSolanaKeyGenerator()

	wallets := NewWalletService(memory.NewWalletRepo(), keyGen, NewDiscardCustodian(log), log)
	issuer := NewIntentIssuer(intents, keyGen, nil, "", log)

	return &gateway{
		intents: intents,
		ledger:  ledger,
		checkout: NewCheckoutService(intents, cache, wallets, issuer, CheckoutConfig{
			AgentID:     "m1",
			WalletLabel: "Website wallet",
			Label:       "Shop",
			Message:     "Order payment",
		}, log),
		settlement: NewSettlementService(intents, ledger, cache, nil, log),
	}
}

func TestGateway_CheckoutThenSettle(t *testing.T) {
	ctx := context.Background()
	gw := newGateway()

	intent, err := gw.checkout.Resolve(ctx, ports.CheckoutRequest{OrderID: "ord-1", Amount: "5.00"})
	require.NoError(t, err)
	assert.Equal(t, "m1", intent.AgentID)
	assert.Equal(t, "ord-1,5.00", intent.MemoValue())
	assert.Equal(t, domain.IntentStateCreated, intent.State)
	assert.True(t, strings.HasPrefix(intent.URL, "solana:"+intent.Recipient+"?"))
	assert.Contains(t, intent.URL, "amount=5.00")
	assert.Contains(t, intent.URL, "reference="+intent.Reference)

	again, err := gw.checkout.Resolve(ctx, ports.CheckoutRequest{OrderID: "ord-1", Amount: "5.00"})
	require.NoError(t, err)
	assert.Equal(t, intent.Reference, again.Reference)

	other, err := gw.checkout.Resolve(ctx, ports.CheckoutRequest{OrderID: "ord-1", Amount: "5"})
	require.NoError(t, err)
	assert.NotEqual(t, intent.Reference, other.Reference)

	_, err = gw.settlement.Verify(ctx, intent.Reference)
	assert.Equal(t, apperror.KindPending, apperror.KindOf(err))

	gw.ledger.pay("sig-1", intent.Reference, intent.Recipient, "ord-1,5.00", 5_000_000_000)

	settled, err := gw.settlement.Verify(ctx, intent.Reference)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStateSettled, settled.State)
	require.NotNil(t, settled.Signature)
	assert.Equal(t, "sig-1", *settled.Signature)

	stored, err := gw.intents.GetByReference(ctx, intent.Reference)
	require.NoError(t, err)
	assert.True(t, stored.IsSettled())
	assert.Equal(t, "sig-1", *stored.Signature)

	// A later checkout for the same order still resolves to the settled intent.
	after, err := gw.checkout.Resolve(ctx, ports.CheckoutRequest{OrderID: "ord-1", Amount: "5.00"})
	require.NoError(t, err)
	assert.Equal(t, intent.Reference, after.Reference)
	assert.True(t, after.IsSettled())
}

func TestGateway_WrongAmountDoesNotSettle(t *testing.T) {
	ctx := context.Background()
	gw := newGateway()

	intent, err := gw.checkout.Resolve(ctx, ports.CheckoutRequest{OrderID: "ord-1", Amount: "5.00"})
	require.NoError(t, err)

	gw.ledger.pay("sig-short", intent.Reference, intent.Recipient, "ord-1,5.00", 4_000_000_000)

	_, err = gw.settlement.Verify(ctx, intent.Reference)
	require.Error(t, err)
	assert.Equal(t, apperror.KindMismatch, apperror.KindOf(err))

	stored, err := gw.intents.GetByReference(ctx, intent.Reference)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStateCreated, stored.State)
	assert.Nil(t, stored.Signature)
}

func TestGateway_ConcurrentCheckoutsShareOneIntent(t *testing.T) {
	ctx := context.Background()
	gw := newGateway()

	const n = 16
	refs := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			intent, err := gw.checkout.Resolve(ctx, ports.CheckoutRequest{OrderID: "ord-9", Amount: "1.25"})
			if assert.NoError(t, err) {
				refs[i] = intent.Reference
			}
		}(i)
	}
	wg.Wait()

	for _, ref := range refs {
		assert.Equal(t, refs[0], ref)
	}
	listed, total, err := gw.intents.ListByAgent(ctx, ports.IntentListParams{AgentID: "m1", Page: 1, PageSize: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, listed, 1)
}
