package domain

import (
	"time"
)

// Merchant owns one or more agents.
type Merchant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Agent is an operator acting for a merchant. Agents are resolved from
// a verified identity and are read-only to the payment engine.
type Agent struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Forename  string            `json:"forename"`
	Surname   string            `json:"surname"`
	Merchant  Merchant          `json:"merchant"`
	Wallets   []ReceivingWallet `json:"wallets"`
	CreatedAt time.Time         `json:"created_at"`
}

// FullName is "<forename> <surname>".
func (a *Agent) FullName() string {
	return a.Forename + " " + a.Surname
}

// PrimaryWallet returns the first receiving wallet, or nil if the agent has none.
func (a *Agent) PrimaryWallet() *ReceivingWallet {
	if len(a.Wallets) == 0 {
		return nil
	}
	return &a.Wallets[0]
}
