package domain

import (
	"time"
)

// IntentState is the lifecycle state of a payment intent.
// The only legal transition is CREATED -> SETTLED.
type IntentState string

const (
	IntentStateCreated IntentState = "CREATED"
	IntentStateSettled IntentState = "SETTLED"
)

// IntentOrigin records which flow produced an intent.
type IntentOrigin string

const (
	// IntentOriginCheckout intents are keyed by their memo (order id + amount).
	IntentOriginCheckout IntentOrigin = "CHECKOUT"
	// IntentOriginAgent intents are created by an authenticated agent; memo is the agent id.
	IntentOriginAgent IntentOrigin = "AGENT"
)

// PaymentIntent is a pending or settled request for payment, keyed by its reference.
type PaymentIntent struct {
	Reference string       `json:"reference"`
	AgentID   string       `json:"agent_id"`
	Origin    IntentOrigin `json:"origin"`
	Recipient string       `json:"recipient"`
	Amount    Amount       `json:"amount"`
	SPLToken  *string      `json:"spl_token,omitempty"`
	Label     *string      `json:"label,omitempty"`
	Message   *string      `json:"message,omitempty"`
	Memo      *string      `json:"memo,omitempty"`
	URL       string       `json:"url"`
	State     IntentState  `json:"state"`
	Signature *string      `json:"signature,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt *time.Time   `json:"updated_at,omitempty"`
}

// IsSettled returns true once a validated ledger transaction has been recorded.
func (p *PaymentIntent) IsSettled() bool {
	return p.State == IntentStateSettled
}

// MemoValue returns the memo or the empty string.
func (p *PaymentIntent) MemoValue() string {
	if p.Memo == nil {
		return ""
	}
	return *p.Memo
}

// BuildCheckoutMemo constructs the correlation key for a checkout: "<orderId>,<amount>".
// The amount keeps its own decimal places so "5.00" and "5" produce different keys.
func BuildCheckoutMemo(orderID string, amount Amount) string {
	return orderID + "," + amount.String()
}
