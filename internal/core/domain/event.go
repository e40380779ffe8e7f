package domain

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys for intent lifecycle events.
const (
	EventIntentCreated = "intent.created"
	EventIntentSettled = "intent.settled"
)

// IntentEvent is published whenever an intent is created or settled.
type IntentEvent struct {
	ID         uuid.UUID   `json:"id"`
	Type       string      `json:"type"`
	Reference  string      `json:"reference"`
	AgentID    string      `json:"agent_id"`
	Recipient  string      `json:"recipient"`
	Amount     string      `json:"amount"`
	SPLToken   *string     `json:"spl_token,omitempty"`
	Memo       *string     `json:"memo,omitempty"`
	State      IntentState `json:"state"`
	Signature  *string     `json:"signature,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// NewIntentEvent snapshots an intent into an event of the given type.
func NewIntentEvent(eventType string, intent *PaymentIntent) IntentEvent {
	return IntentEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Reference:  intent.Reference,
		AgentID:    intent.AgentID,
		Recipient:  intent.Recipient,
		Amount:     intent.Amount.String(),
		SPLToken:   intent.SPLToken,
		Memo:       intent.Memo,
		State:      intent.State,
		Signature:  intent.Signature,
		OccurredAt: time.Now().UTC(),
	}
}

// WebhookStatus represents the delivery state of a settlement notification.
type WebhookStatus string

const (
	WebhookStatusDelivered WebhookStatus = "DELIVERED"
	WebhookStatusFailed    WebhookStatus = "FAILED"
)

// WebhookDelivery records the outcome of notifying the configured endpoint.
type WebhookDelivery struct {
	EventID    uuid.UUID     `json:"event_id" bson:"event_id"`
	Reference  string        `json:"reference" bson:"reference"`
	URL        string        `json:"url" bson:"url"`
	HTTPStatus *int          `json:"http_status,omitempty" bson:"http_status,omitempty"`
	Attempts   int           `json:"attempts" bson:"attempts"`
	Status     WebhookStatus `json:"status" bson:"status"`
	LastError  *string       `json:"last_error,omitempty" bson:"last_error,omitempty"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
}
