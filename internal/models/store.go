package models

import "time"

// Acceptance types for a card product at a store.
const (
	AcceptancePhysical = "physical"
	AcceptanceOnline   = "online"
	AcceptanceBoth     = "both"
)

// Store is an establishment where gift cards can be spent.
type Store struct {
	ID         string `gorm:"primaryKey"` // slug, e.g. "shufersal"
	Name       string `gorm:"not null;index"`
	NameHe     string
	Category   string `gorm:"index"` // food, fashion, pharmacy...
	WebsiteURL string
	LogoURL    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CardProductStore links a card product to a store it is accepted at.
// Many-to-many reference data, owned by neither side.
type CardProductStore struct {
	ID            uint   `gorm:"primarykey"`
	CardProductID string `gorm:"not null;uniqueIndex:idx_product_store"`
	StoreID       string `gorm:"not null;uniqueIndex:idx_product_store"`
	Type          string `gorm:"default:'physical'"` // physical | online | both
	Notes         string
	CreatedAt     time.Time

	Store Store `gorm:"foreignKey:StoreID"`
}
