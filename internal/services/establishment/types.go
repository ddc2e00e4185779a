package establishment

import (
	"github.com/Jacobolevy/giftwallet-il/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// minQueryLength is the shortest store-search query worth running.
const minQueryLength = 2

// CardMatch is one usable card within a store match.
type CardMatch struct {
	CardID         uuid.UUID       `json:"card_id"`
	Nickname       string          `json:"nickname,omitempty"`
	ProductName    string          `json:"product_name"`
	IssuerID       string          `json:"issuer_id"`
	Balance        decimal.Decimal `json:"balance"`
	Currency       string          `json:"currency"`
	AcceptanceType string          `json:"acceptance_type"`
}

// StoreMatch aggregates a user's spendable balance at one store.
type StoreMatch struct {
	Store       models.Store    `json:"store"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Cards       []CardMatch     `json:"cards"`
}

// StoreLink describes where a single card can be spent.
type StoreLink struct {
	Store          models.Store `json:"store"`
	AcceptanceType string       `json:"acceptance_type"`
}
