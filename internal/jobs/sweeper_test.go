package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/models"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories"
	"github.com/Jacobolevy/giftwallet-il/internal/services/card"
	"github.com/Jacobolevy/giftwallet-il/internal/services/reminder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCardService records the expire call order.
type fakeCardService struct {
	calls *[]string
}

func (f *fakeCardService) Create(context.Context, uint, card.CreateCardInput) (*models.GiftCard, error) {
	return nil, nil
}
func (f *fakeCardService) GetByID(context.Context, uint, uuid.UUID) (*models.GiftCard, error) {
	return nil, nil
}
func (f *fakeCardService) List(context.Context, uint, repositories.CardFilter) ([]models.GiftCard, error) {
	return nil, nil
}
func (f *fakeCardService) UpdateBalance(context.Context, uint, uuid.UUID, card.UpdateBalanceInput) (*models.GiftCard, error) {
	return nil, nil
}
func (f *fakeCardService) MarkAsUsed(context.Context, uint, uuid.UUID) (*models.GiftCard, error) {
	return nil, nil
}
func (f *fakeCardService) UpdateDetails(context.Context, uint, uuid.UUID, card.UpdateCardInput) (*models.GiftCard, error) {
	return nil, nil
}
func (f *fakeCardService) Delete(context.Context, uint, uuid.UUID) error { return nil }
func (f *fakeCardService) GetFullCode(context.Context, uint, uuid.UUID) (string, error) {
	return "", nil
}
func (f *fakeCardService) GetHistory(context.Context, uint, uuid.UUID) ([]models.BalanceEntry, error) {
	return nil, nil
}
func (f *fakeCardService) ExpireCards(_ context.Context, day time.Time) (int64, error) {
	*f.calls = append(*f.calls, "expire")
	return 2, nil
}

type fakeReminderService struct {
	calls *[]string
}

func (f *fakeReminderService) Schedule(context.Context, uuid.UUID, uint, time.Time) ([]models.Reminder, error) {
	return nil, nil
}
func (f *fakeReminderService) Reschedule(context.Context, uuid.UUID, uint, *time.Time) ([]models.Reminder, error) {
	return nil, nil
}
func (f *fakeReminderService) ProcessDue(context.Context, time.Time) (reminder.ProcessResult, error) {
	*f.calls = append(*f.calls, "reminders")
	return reminder.ProcessResult{Processed: 1, Sent: 1}, nil
}
func (f *fakeReminderService) ListByUser(context.Context, uint, repositories.ReminderFilter) ([]models.Reminder, error) {
	return nil, nil
}
func (f *fakeReminderService) GetByID(context.Context, uint, uuid.UUID) (*models.Reminder, error) {
	return nil, nil
}
func (f *fakeReminderService) MarkRead(context.Context, uint, uuid.UUID) (*models.Reminder, error) {
	return nil, nil
}

func TestSweeper_RunDailySweep(t *testing.T) {
	var calls []string
	sweeper := NewSweeper(
		&fakeCardService{calls: &calls},
		&fakeReminderService{calls: &calls},
		time.UTC,
		6*time.Hour,
	)

	err := sweeper.RunDailySweep(context.Background(), time.Now())
	require.NoError(t, err)

	// Expiry must run before reminder delivery.
	assert.Equal(t, []string{"expire", "reminders"}, calls)
}

func TestSweeper_untilNextRun(t *testing.T) {
	sweeper := NewSweeper(nil, nil, time.UTC, 6*time.Hour)

	t.Run("before the run time, fires today", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC)
		assert.Equal(t, 2*time.Hour, sweeper.untilNextRun(now))
	})

	t.Run("after the run time, fires tomorrow", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
		assert.Equal(t, 23*time.Hour, sweeper.untilNextRun(now))
	})

	t.Run("exactly at the run time, fires tomorrow", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
		assert.Equal(t, 24*time.Hour, sweeper.untilNextRun(now))
	})
}
