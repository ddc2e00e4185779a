package card

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCardInput is the payload for adding a gift card to a wallet.
type CreateCardInput struct {
	CardProductID string          `json:"card_product_id"`
	Nickname      string          `json:"nickname"`
	CodeLast4     string          `json:"code_last4"`
	FullCode      string          `json:"full_code,omitempty"`
	InitialValue  decimal.Decimal `json:"initial_value"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	Currency      string          `json:"currency,omitempty"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	PhotoURL      string          `json:"photo_url,omitempty"`
}

// UpdateBalanceInput carries a balance change. Exactly one of
// NewBalance or DeductAmount must be set.
type UpdateBalanceInput struct {
	NewBalance   *decimal.Decimal `json:"new_balance,omitempty"`
	DeductAmount *decimal.Decimal `json:"deduct_amount,omitempty"`
	ChangeType   string           `json:"change_type,omitempty"` // defaults to manual_update
	Notes        string           `json:"notes,omitempty"`
	StoreID      *string          `json:"store_id,omitempty"` // catalog slug, when spent at a known store
	StoreName    string           `json:"store_name,omitempty"`
}

// UpdateCardInput edits card metadata. A non-nil ExpiresAt triggers a
// full reminder reschedule; pointer fields are "no change" when nil.
type UpdateCardInput struct {
	Nickname  *string    `json:"nickname,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	PhotoURL  *string    `json:"photo_url,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	// ClearExpiry removes the expiry date (and its reminders).
	ClearExpiry bool `json:"clear_expiry,omitempty"`
}
