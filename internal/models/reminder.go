package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reminder offsets relative to a card's expiry date.
const (
	ReminderThirtyDaysBefore = "thirty_days_before"
	ReminderSevenDaysBefore  = "seven_days_before"
)

// Reminder is a pending or delivered expiry notification for one card.
// State machine is one-way: pending -> sent.
type Reminder struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	GiftCardID   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID       uint      `gorm:"not null;index"`
	ReminderDate time.Time `gorm:"not null;index"`
	Type         string    `gorm:"not null"`
	SentFlag     bool      `gorm:"default:false;index"`
	SentAt       *time.Time
	CreatedAt    time.Time

	GiftCard GiftCard `gorm:"foreignKey:GiftCardID"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
