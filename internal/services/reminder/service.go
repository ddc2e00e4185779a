package reminder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/models"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories"

	"github.com/google/uuid"
)

type service struct {
	repo     repositories.ReminderRepository
	notifier Notifier
	now      func() time.Time
}

// NewService creates a new reminder service.
func NewService(repo repositories.ReminderRepository, notifier Notifier) Service {
	if repo == nil {
		panic("reminder repository is required")
	}
	if notifier == nil {
		panic("notifier is required")
	}
	return &service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) Schedule(ctx context.Context, cardID uuid.UUID, userID uint, expiresAt time.Time) ([]models.Reminder, error) {
	today := dateOnly(s.now())
	expiry := dateOnly(expiresAt)

	created := make([]models.Reminder, 0, len(scheduleOffsets))
	for _, offset := range scheduleOffsets {
		reminderDate := expiry.AddDate(0, 0, -offset.Days)
		if reminderDate.Before(today) {
			continue
		}
		r := models.Reminder{
			GiftCardID:   cardID,
			UserID:       userID,
			ReminderDate: reminderDate,
			Type:         offset.Type,
		}
		if err := s.repo.Create(&r); err != nil {
			return nil, fmt.Errorf("failed to create %s reminder: %w", offset.Type, err)
		}
		created = append(created, r)
	}
	return created, nil
}

func (s *service) Reschedule(ctx context.Context, cardID uuid.UUID, userID uint, expiresAt *time.Time) ([]models.Reminder, error) {
	if err := s.repo.DeleteByCard(cardID); err != nil {
		return nil, fmt.Errorf("failed to clear reminders: %w", err)
	}
	if expiresAt == nil {
		return nil, nil
	}
	return s.Schedule(ctx, cardID, userID, *expiresAt)
}

func (s *service) ProcessDue(ctx context.Context, asOf time.Time) (ProcessResult, error) {
	due, err := s.repo.FindDue(asOf)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("failed to find due reminders: %w", err)
	}

	var result ProcessResult
	for i := range due {
		r := &due[i]
		result.Processed++

		// Cards that were used or expired since scheduling get their
		// reminder retired without a notification.
		if r.GiftCard.Status != models.CardStatusActive {
			if err := s.markSent(r); err != nil {
				log.Printf("failed to retire reminder %s: %v", r.ID, err)
				result.Failed++
				continue
			}
			result.Skipped++
			continue
		}

		if err := s.notifier.SendExpiryReminder(ctx, r); err != nil {
			// Left unsent on purpose; the next sweep retries it.
			log.Printf("failed to deliver reminder %s for card %s: %v", r.ID, r.GiftCardID, err)
			result.Failed++
			continue
		}

		if err := s.markSent(r); err != nil {
			log.Printf("failed to mark reminder %s as sent: %v", r.ID, err)
			result.Failed++
			continue
		}
		result.Sent++
	}
	return result, nil
}

func (s *service) markSent(r *models.Reminder) error {
	return s.repo.MarkSent(r.ID, s.now())
}

func (s *service) ListByUser(ctx context.Context, userID uint, filter repositories.ReminderFilter) ([]models.Reminder, error) {
	reminders, err := s.repo.ListByUser(userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

func (s *service) GetByID(ctx context.Context, userID uint, reminderID uuid.UUID) (*models.Reminder, error) {
	r, err := s.repo.GetByIDForUser(reminderID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrReminderNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return r, nil
}

func (s *service) MarkRead(ctx context.Context, userID uint, reminderID uuid.UUID) (*models.Reminder, error) {
	r, err := s.GetByID(ctx, userID, reminderID)
	if err != nil {
		return nil, err
	}
	if !r.SentFlag {
		sentAt := s.now()
		if err := s.repo.MarkSent(r.ID, sentAt); err != nil {
			return nil, fmt.Errorf("failed to mark reminder read: %w", err)
		}
		r.SentFlag = true
		r.SentAt = &sentAt
	}
	return r, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
