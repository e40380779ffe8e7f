package dto

import (
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
)

// CreateRequestRequest is the request body for an agent-created payment request.
type CreateRequestRequest struct {
	Amount string `json:"amount" binding:"required,max=40"`
}

// IntentResponse is the public view of a payment intent.
type IntentResponse struct {
	Reference string  `json:"reference"`
	Origin    string  `json:"origin"`
	Recipient string  `json:"recipient"`
	Amount    string  `json:"amount"`
	SPLToken  *string `json:"spl_token,omitempty"`
	Label     *string `json:"label,omitempty"`
	Message   *string `json:"message,omitempty"`
	Memo      *string `json:"memo,omitempty"`
	URL       string  `json:"url"`
	State     string  `json:"state"`
	Signature *string `json:"signature,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

// NewIntentResponse converts a domain intent to its response shape.
func NewIntentResponse(p *domain.PaymentIntent) IntentResponse {
	resp := IntentResponse{
		Reference: p.Reference,
		Origin:    string(p.Origin),
		Recipient: p.Recipient,
		Amount:    p.Amount.String(),
		SPLToken:  p.SPLToken,
		Label:     p.Label,
		Message:   p.Message,
		Memo:      p.Memo,
		URL:       p.URL,
		State:     string(p.State),
		Signature: p.Signature,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.UpdatedAt != nil {
		s := p.UpdatedAt.UTC().Format(time.RFC3339)
		resp.UpdatedAt = &s
	}
	return resp
}

// IntentListResponse wraps a paginated intent list.
type IntentListResponse struct {
	Items      []IntentResponse `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// DashboardStatsResponse is the response for dashboard statistics.
type DashboardStatsResponse struct {
	Total         int64  `json:"total"`
	Created       int64  `json:"created"`
	Settled       int64  `json:"settled"`
	SettledVolume string `json:"settled_volume"`
}

// NewDashboardStatsResponse converts repository stats.
func NewDashboardStatsResponse(s *ports.IntentStats) DashboardStatsResponse {
	return DashboardStatsResponse{
		Total:         s.Total,
		Created:       s.Created,
		Settled:       s.Settled,
		SettledVolume: s.SettledVolume,
	}
}

type MerchantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type WalletResponse struct {
	Address   string `json:"address"`
	Label     string `json:"label"`
	CreatedAt string `json:"created_at"`
}

// AgentResponse is returned when a session starts.
type AgentResponse struct {
	ID       string           `json:"id"`
	Forename string           `json:"forename"`
	Surname  string           `json:"surname"`
	Merchant MerchantResponse `json:"merchant"`
	Wallets  []WalletResponse `json:"wallets"`
}

func NewAgentResponse(a *domain.Agent) AgentResponse {
	wallets := make([]WalletResponse, 0, len(a.Wallets))
	for _, w := range a.Wallets {
		wallets = append(wallets, WalletResponse{
			Address:   w.Address,
			Label:     w.Label,
			CreatedAt: w.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return AgentResponse{
		ID:       a.ID,
		Forename: a.Forename,
		Surname:  a.Surname,
		Merchant: MerchantResponse{ID: a.Merchant.ID, Name: a.Merchant.Name},
		Wallets:  wallets,
	}
}
