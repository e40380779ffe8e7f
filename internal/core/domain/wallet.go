package domain

import (
	"time"
)

// ReceivingWallet is a ledger address that can receive payments for an agent.
// Wallets are created lazily and never deleted.
type ReceivingWallet struct {
	Address   string    `json:"address"`
	AgentID   string    `json:"agent_id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}
