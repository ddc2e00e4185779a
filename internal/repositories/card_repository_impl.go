package repositories

import (
	"fmt"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(card *models.GiftCard) error {
	if err := r.db.Create(card).Error; err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *cardRepository) GetByIDForUser(id uuid.UUID, userID uint) (*models.GiftCard, error) {
	var card models.GiftCard
	err := r.db.
		Preload("CardProduct").
		Preload("CardProduct.Issuer").
		Where("id = ? AND user_id = ?", id, userID).
		First(&card).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

func (r *cardRepository) GetByIDForUpdate(id uuid.UUID, userID uint) (*models.GiftCard, error) {
	var card models.GiftCard
	err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&card).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

func (r *cardRepository) Update(card *models.GiftCard) error {
	if err := r.db.Save(card).Error; err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return nil
}

func (r *cardRepository) Delete(id uuid.UUID) error {
	result := r.db.Select(clause.Associations).Delete(&models.GiftCard{ID: id})
	if result.Error != nil {
		return fmt.Errorf("failed to delete card: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *cardRepository) ListByUser(userID uint, filter CardFilter) ([]models.GiftCard, error) {
	query := r.db.
		Preload("CardProduct").
		Preload("CardProduct.Issuer").
		Where("gift_cards.user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("gift_cards.status = ?", filter.Status)
	}
	if filter.MinBalance != nil {
		query = query.Where("gift_cards.balance >= ?", *filter.MinBalance)
	}
	if filter.MaxBalance != nil {
		query = query.Where("gift_cards.balance <= ?", *filter.MaxBalance)
	}
	if filter.IsExpired != nil {
		today := truncateToDay(time.Now())
		if *filter.IsExpired {
			query = query.Where("gift_cards.expires_at < ?", today)
		} else {
			query = query.Where("gift_cards.expires_at IS NULL OR gift_cards.expires_at >= ?", today)
		}
	}
	if filter.IssuerID != "" || filter.Search != "" || filter.Category != "" {
		query = query.Joins("JOIN card_products ON card_products.id = gift_cards.card_product_id")
	}
	if filter.IssuerID != "" {
		query = query.Where("card_products.issuer_id = ?", filter.IssuerID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("gift_cards.nickname ILIKE ? OR card_products.name ILIKE ?", like, like)
	}
	if filter.StoreID != "" || filter.Category != "" {
		query = query.Joins("JOIN card_product_stores ON card_product_stores.card_product_id = gift_cards.card_product_id")
		if filter.StoreID != "" {
			query = query.Where("card_product_stores.store_id = ?", filter.StoreID)
		}
		if filter.Category != "" {
			query = query.
				Joins("JOIN stores ON stores.id = card_product_stores.store_id").
				Where("stores.category = ?", filter.Category)
		}
		query = query.Distinct("gift_cards.*")
	}

	query = query.Order("gift_cards." + sortColumn(filter.SortBy) + " " + sortOrder(filter.Order))

	var cards []models.GiftCard
	if err := query.Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case "balance", "expires_at", "created_at":
		return sortBy
	default:
		return "created_at"
	}
}

func sortOrder(order string) string {
	if order == "asc" {
		return "ASC"
	}
	return "DESC"
}

func (r *cardRepository) ListActiveWithBalance(userID uint) ([]models.GiftCard, error) {
	var cards []models.GiftCard
	err := r.db.
		Preload("CardProduct").
		Preload("CardProduct.Issuer").
		Preload("CardProduct.Stores").
		Preload("CardProduct.Stores.Store").
		Where("user_id = ? AND status = ? AND balance > 0", userID, models.CardStatusActive).
		Order("created_at DESC").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list spendable cards: %w", err)
	}
	return cards, nil
}

func (r *cardRepository) CreateBalanceEntry(entry *models.BalanceEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create balance entry: %w", err)
	}
	return nil
}

func (r *cardRepository) ListBalanceEntries(cardID uuid.UUID) ([]models.BalanceEntry, error) {
	var entries []models.BalanceEntry
	err := r.db.
		Where("gift_card_id = ?", cardID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list balance entries: %w", err)
	}
	return entries, nil
}

func (r *cardRepository) DeleteUnsentReminders(cardID uuid.UUID) error {
	err := r.db.
		Where("gift_card_id = ? AND sent_flag = false", cardID).
		Delete(&models.Reminder{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete unsent reminders: %w", err)
	}
	return nil
}

func (r *cardRepository) ExpireCardsBefore(day time.Time) (int64, error) {
	result := r.db.Model(&models.GiftCard{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.CardStatusActive, truncateToDay(day)).
		Update("status", models.CardStatusExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire cards: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *cardRepository) ExecuteInTransaction(fn func(CardRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&cardRepository{db: tx})
	})
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
