package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionCheckout      AuditAction = "CHECKOUT"
	AuditActionCreateRequest AuditAction = "CREATE_REQUEST"
	AuditActionSession       AuditAction = "SESSION"
	AuditActionSettle        AuditAction = "SETTLE"
	AuditActionIssue         AuditAction = "ISSUE"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id" bson:"_id"`
	AgentID      *string     `json:"agent_id,omitempty" bson:"agent_id,omitempty"`
	Action       AuditAction `json:"action" bson:"action"`
	ResourceType string      `json:"resource_type" bson:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty" bson:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty" bson:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address" bson:"ip_address"`
	CreatedAt    time.Time   `json:"created_at" bson:"created_at"`
}
