package repositories

import (
	"errors"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/models"

	"github.com/google/uuid"
)

var (
	ErrCardNotFound      = errors.New("card not found")
	ErrIssuerNotFound    = errors.New("issuer not found")
	ErrStoreNotFound     = errors.New("store not found")
	ErrProductNotFound   = errors.New("card product not found")
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already taken")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// CardFilter enumerates the recognized list options for a user's cards.
// Zero values mean "no constraint".
type CardFilter struct {
	Status     string // active | expired | used
	IssuerID   string
	StoreID    string // only cards spendable at this store
	Category   string // store category the card's product reaches
	MinBalance *float64
	MaxBalance *float64
	IsExpired  *bool  // expiry date strictly before today
	Search     string // matches nickname or product name
	SortBy     string // created_at | balance | expires_at (default created_at)
	Order      string // asc | desc (default desc)
}

// CardRepository defines card-scoped persistence, including the
// card-owned balance history and reminder rows. Read-check-write
// sequences run inside ExecuteInTransaction with a row lock so a user
// mutation and the daily sweep cannot race on the same card.
type CardRepository interface {
	Create(card *models.GiftCard) error
	GetByIDForUser(id uuid.UUID, userID uint) (*models.GiftCard, error)
	// GetByIDForUpdate locks the card row for the duration of the
	// surrounding transaction (SELECT ... FOR UPDATE).
	GetByIDForUpdate(id uuid.UUID, userID uint) (*models.GiftCard, error)
	Update(card *models.GiftCard) error
	Delete(id uuid.UUID) error
	ListByUser(userID uint, filter CardFilter) ([]models.GiftCard, error)

	// ListActiveWithBalance returns the user's active cards with
	// balance > 0, with product and store eligibility preloaded.
	ListActiveWithBalance(userID uint) ([]models.GiftCard, error)

	CreateBalanceEntry(entry *models.BalanceEntry) error
	ListBalanceEntries(cardID uuid.UUID) ([]models.BalanceEntry, error)

	DeleteUnsentReminders(cardID uuid.UUID) error

	// ExpireCardsBefore transitions all active cards whose expiry date
	// is strictly before the given day to expired. Idempotent.
	ExpireCardsBefore(day time.Time) (int64, error)

	ExecuteInTransaction(fn func(CardRepository) error) error
}
