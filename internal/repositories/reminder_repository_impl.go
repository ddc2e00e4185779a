package repositories

import (
	"fmt"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(reminder *models.Reminder) error {
	if err := r.db.Create(reminder).Error; err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) DeleteByCard(cardID uuid.UUID) error {
	err := r.db.Where("gift_card_id = ?", cardID).Delete(&models.Reminder{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete reminders: %w", err)
	}
	return nil
}

func (r *reminderRepository) FindDue(asOf time.Time) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := r.db.
		Preload("GiftCard").
		Preload("GiftCard.CardProduct").
		Where("sent_flag = false AND reminder_date <= ?", truncateToDay(asOf)).
		Order("reminder_date ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find due reminders: %w", err)
	}
	return reminders, nil
}

func (r *reminderRepository) MarkSent(id uuid.UUID, sentAt time.Time) error {
	result := r.db.Model(&models.Reminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"sent_flag": true, "sent_at": sentAt})
	if result.Error != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReminderNotFound
	}
	return nil
}

func (r *reminderRepository) ListByUser(userID uint, filter ReminderFilter) ([]models.Reminder, error) {
	query := r.db.
		Preload("GiftCard").
		Preload("GiftCard.CardProduct").
		Preload("GiftCard.CardProduct.Issuer").
		Where("user_id = ?", userID)

	if filter.Sent != nil {
		query = query.Where("sent_flag = ?", *filter.Sent)
	}
	if filter.CardID != nil {
		query = query.Where("gift_card_id = ?", *filter.CardID)
	}
	if filter.Upcoming {
		query = query.Where("reminder_date >= ?", truncateToDay(time.Now()))
	}

	var reminders []models.Reminder
	if err := query.Order("reminder_date ASC").Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

func (r *reminderRepository) GetByIDForUser(id uuid.UUID, userID uint) (*models.Reminder, error) {
	var reminder models.Reminder
	err := r.db.
		Preload("GiftCard").
		Preload("GiftCard.CardProduct").
		Preload("GiftCard.CardProduct.Issuer").
		Where("id = ? AND user_id = ?", id, userID).
		First(&reminder).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &reminder, nil
}
