package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Balance change types.
const (
	ChangeTypeManualUpdate = "manual_update"
	ChangeTypePurchase     = "purchase"
	ChangeTypeRefund       = "refund"
	ChangeTypeCorrection   = "correction"
)

// BalanceEntry is one immutable record of a balance transition.
// Exactly one entry is written per balance-affecting operation,
// including the initial 0 -> balance entry at card creation.
type BalanceEntry struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	GiftCardID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PreviousBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	NewBalance      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ChangeAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"` // signed delta
	ChangeType      string          `gorm:"not null"`
	Notes           string
	StoreID         *string
	CreatedAt       time.Time
}

func (e *BalanceEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
