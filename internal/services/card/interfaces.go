package card

import (
	"context"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/models"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories"

	"github.com/google/uuid"
)

// Service defines the gift card ledger operations.
type Service interface {
	Create(ctx context.Context, userID uint, input CreateCardInput) (*models.GiftCard, error)
	GetByID(ctx context.Context, userID uint, cardID uuid.UUID) (*models.GiftCard, error)
	List(ctx context.Context, userID uint, filter repositories.CardFilter) ([]models.GiftCard, error)

	UpdateBalance(ctx context.Context, userID uint, cardID uuid.UUID, input UpdateBalanceInput) (*models.GiftCard, error)
	MarkAsUsed(ctx context.Context, userID uint, cardID uuid.UUID) (*models.GiftCard, error)
	UpdateDetails(ctx context.Context, userID uint, cardID uuid.UUID, input UpdateCardInput) (*models.GiftCard, error)
	Delete(ctx context.Context, userID uint, cardID uuid.UUID) error

	GetFullCode(ctx context.Context, userID uint, cardID uuid.UUID) (string, error)
	GetHistory(ctx context.Context, userID uint, cardID uuid.UUID) ([]models.BalanceEntry, error)

	// ExpireCards bulk-transitions active cards expired before the
	// given day. Invoked by the daily sweep.
	ExpireCards(ctx context.Context, day time.Time) (int64, error)
}

// ReminderScheduler is implemented by the reminder service. The card
// service only signals lifecycle events; scheduling rules live there.
type ReminderScheduler interface {
	Schedule(ctx context.Context, cardID uuid.UUID, userID uint, expiresAt time.Time) ([]models.Reminder, error)
	Reschedule(ctx context.Context, cardID uuid.UUID, userID uint, expiresAt *time.Time) ([]models.Reminder, error)
}

// SearchInvalidator drops cached store-search results after a card
// mutation changes the balances behind them.
type SearchInvalidator interface {
	InvalidateUserSearches(ctx context.Context, userID uint) error
}
