package repositories

import (
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/models"

	"github.com/google/uuid"
)

// ReminderFilter enumerates the recognized list options for reminders.
type ReminderFilter struct {
	Sent     *bool
	CardID   *uuid.UUID
	Upcoming bool // reminder date today or later
}

// ReminderRepository defines reminder persistence for the scheduler and
// the reminder read API.
type ReminderRepository interface {
	Create(reminder *models.Reminder) error
	// DeleteByCard removes every reminder of a card, sent or not. Used
	// before rescheduling on an expiry-date edit.
	DeleteByCard(cardID uuid.UUID) error
	// FindDue returns unsent reminders due on or before the given day,
	// with the owning card preloaded.
	FindDue(asOf time.Time) ([]models.Reminder, error)
	MarkSent(id uuid.UUID, sentAt time.Time) error
	ListByUser(userID uint, filter ReminderFilter) ([]models.Reminder, error)
	GetByIDForUser(id uuid.UUID, userID uint) (*models.Reminder, error)
}
