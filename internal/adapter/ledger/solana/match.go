package solana

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
)

// lamportPlaces is the exponent between lamports and SOL.
const lamportPlaces = 9

// TokenBalance is one SPL token account balance at a point in a transaction.
type TokenBalance struct {
	Owner  string
	Mint   string
	Amount decimal.Decimal
}

// Observation is what a confirmed transaction did, reduced to the fields a
// transfer check needs.
type Observation struct {
	Failed      bool
	AccountKeys []string
	// Lamport balances, indexed like AccountKeys.
	PreBalances  []uint64
	PostBalances []uint64
	PreTokens    []TokenBalance
	PostTokens   []TokenBalance
}

// Observe extracts an Observation from a decoded transaction and its meta.
// Account keys are the static keys followed by loaded writable then
// loaded readonly addresses, the order balances are reported in.
func Observe(tx *solanago.Transaction, meta *rpc.TransactionMeta) (Observation, error) {
	if tx == nil || meta == nil {
		return Observation{}, fmt.Errorf("transaction or meta missing")
	}

	keys := make([]string, 0, len(tx.Message.AccountKeys)+len(meta.LoadedAddresses.Writable)+len(meta.LoadedAddresses.ReadOnly))
	for _, k := range tx.Message.AccountKeys {
		keys = append(keys, k.String())
	}
	for _, k := range meta.LoadedAddresses.Writable {
		keys = append(keys, k.String())
	}
	for _, k := range meta.LoadedAddresses.ReadOnly {
		keys = append(keys, k.String())
	}

	pre, err := tokenBalances(meta.PreTokenBalances)
	if err != nil {
		return Observation{}, fmt.Errorf("pre token balances: %w", err)
	}
	post, err := tokenBalances(meta.PostTokenBalances)
	if err != nil {
		return Observation{}, fmt.Errorf("post token balances: %w", err)
	}

	return Observation{
		Failed:       meta.Err != nil,
		AccountKeys:  keys,
		PreBalances:  meta.PreBalances,
		PostBalances: meta.PostBalances,
		PreTokens:    pre,
		PostTokens:   post,
	}, nil
}

func tokenBalances(in []rpc.TokenBalance) ([]TokenBalance, error) {
	out := make([]TokenBalance, 0, len(in))
	for _, b := range in {
		if b.Owner == nil || b.UiTokenAmount == nil {
			continue
		}
		raw, err := decimal.NewFromString(b.UiTokenAmount.Amount)
		if err != nil {
			return nil, fmt.Errorf("token amount %q: %w", b.UiTokenAmount.Amount, err)
		}
		out = append(out, TokenBalance{
			Owner:  b.Owner.String(),
			Mint:   b.Mint.String(),
			Amount: raw.Shift(-int32(b.UiTokenAmount.Decimals)),
		})
	}
	return out, nil
}

// MatchTransfer reports whether obs transfers exactly exp.Amount to
// exp.Recipient, in exp.SPLToken when set and native SOL otherwise, and
// whether it lists exp.Reference among its accounts.
func MatchTransfer(obs Observation, exp ports.TransferExpectation) domain.Verdict {
	if obs.Failed {
		return domain.Invalid(domain.ReasonTransactionFailed, "transaction failed on ledger")
	}
	if indexOf(obs.AccountKeys, exp.Reference) < 0 {
		return domain.Invalid(domain.ReasonReferenceMissing, "reference "+exp.Reference+" not in transaction accounts")
	}

	var received decimal.Decimal
	if exp.SPLToken == nil {
		i := indexOf(obs.AccountKeys, exp.Recipient)
		if i < 0 || i >= len(obs.PreBalances) || i >= len(obs.PostBalances) {
			return domain.Invalid(domain.ReasonRecipientMissing, "recipient "+exp.Recipient+" not in transaction accounts")
		}
		received = lamports(obs.PostBalances[i]).Sub(lamports(obs.PreBalances[i]))
	} else {
		mint := *exp.SPLToken
		post, seen := sumTokens(obs.PostTokens, exp.Recipient, mint)
		if !seen {
			if holdsOtherMint(obs.PostTokens, exp.Recipient, mint) {
				return domain.Invalid(domain.ReasonTokenMismatch, "recipient received a token other than "+mint)
			}
			return domain.Invalid(domain.ReasonRecipientMissing, "no "+mint+" account for recipient "+exp.Recipient)
		}
		pre, _ := sumTokens(obs.PreTokens, exp.Recipient, mint)
		received = post.Sub(pre)
	}

	if !received.Equal(exp.Amount.Decimal()) {
		return domain.Invalid(domain.ReasonAmountMismatch,
			fmt.Sprintf("expected %s, received %s", exp.Amount.String(), received.String()))
	}
	return domain.Valid()
}

func lamports(n uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(n), -lamportPlaces)
}

func sumTokens(balances []TokenBalance, owner, mint string) (decimal.Decimal, bool) {
	sum := decimal.Zero
	seen := false
	for _, b := range balances {
		if b.Owner == owner && b.Mint == mint {
			sum = sum.Add(b.Amount)
			seen = true
		}
	}
	return sum, seen
}

func holdsOtherMint(balances []TokenBalance, owner, mint string) bool {
	for _, b := range balances {
		if b.Owner == owner && b.Mint != mint {
			return true
		}
	}
	return false
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}

// memoPrefix matches the "[len] " prefix RPC nodes put before each memo.
var memoPrefix = regexp.MustCompile(`^\[\d+\] `)

// NormalizeMemo strips node formatting from a signature memo. Multiple memos
// are joined by "; " on the wire and are returned joined the same way.
func NormalizeMemo(memo *string) *string {
	if memo == nil {
		return nil
	}
	parts := strings.Split(*memo, "; ")
	for i, p := range parts {
		parts[i] = memoPrefix.ReplaceAllString(p, "")
	}
	s := strings.Join(parts, "; ")
	return &s
}
