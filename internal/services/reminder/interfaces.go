package reminder

import (
	"context"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/models"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories"

	"github.com/google/uuid"
)

// Service manages expiry reminders for gift cards.
type Service interface {
	// Schedule creates the standard pre-expiry reminders for a card,
	// dropping any point that already lies in the past.
	Schedule(ctx context.Context, cardID uuid.UUID, userID uint, expiresAt time.Time) ([]models.Reminder, error)

	// Reschedule wipes every reminder for the card and schedules fresh
	// ones when a new expiry is given. A nil expiry just wipes.
	Reschedule(ctx context.Context, cardID uuid.UUID, userID uint, expiresAt *time.Time) ([]models.Reminder, error)

	// ProcessDue delivers all unsent reminders due on or before asOf.
	// Delivery failures leave the reminder unsent for the next pass.
	ProcessDue(ctx context.Context, asOf time.Time) (ProcessResult, error)

	ListByUser(ctx context.Context, userID uint, filter repositories.ReminderFilter) ([]models.Reminder, error)
	GetByID(ctx context.Context, userID uint, reminderID uuid.UUID) (*models.Reminder, error)

	// MarkRead acknowledges a reminder; it is treated as sent so the
	// sweep never delivers it afterwards.
	MarkRead(ctx context.Context, userID uint, reminderID uuid.UUID) (*models.Reminder, error)
}

// Notifier delivers a reminder to the card's owner. Implementations
// live in the notification package.
type Notifier interface {
	SendExpiryReminder(ctx context.Context, reminder *models.Reminder) error
}
