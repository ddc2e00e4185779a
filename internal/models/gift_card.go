package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Gift card lifecycle states. "used" is terminal.
const (
	CardStatusActive  = "active"
	CardStatusExpired = "expired"
	CardStatusUsed    = "used"
)

// GiftCard is a prepaid card owned by a user. The full code is stored
// encrypted; only the last 4 digits are kept in plaintext.
type GiftCard struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID            uint      `gorm:"not null;index"`
	CardProductID     string    `gorm:"not null;index"`
	Nickname          string
	CodeLast4         string  `gorm:"size:4;not null"`
	FullCode          *string // encrypted token, nil when no code was stored
	InitialValue      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Balance           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency          string          `gorm:"size:3;default:'ILS'"`
	ExpiresAt         *time.Time
	Status            string `gorm:"default:'active';index"`
	Notes             string
	PhotoURL          string
	LastBalanceUpdate *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	CardProduct CardProduct    `gorm:"foreignKey:CardProductID"`
	History     []BalanceEntry `gorm:"foreignKey:GiftCardID;constraint:OnDelete:CASCADE"`
	Reminders   []Reminder     `gorm:"foreignKey:GiftCardID;constraint:OnDelete:CASCADE"`
}

func (g *GiftCard) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
