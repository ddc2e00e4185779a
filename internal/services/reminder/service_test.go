package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/models"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReminderRepo is an in-memory ReminderRepository.
type fakeReminderRepo struct {
	reminders map[uuid.UUID]*models.Reminder
	cards     map[uuid.UUID]*models.GiftCard
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{
		reminders: make(map[uuid.UUID]*models.Reminder),
		cards:     make(map[uuid.UUID]*models.GiftCard),
	}
}

func (f *fakeReminderRepo) Create(r *models.Reminder) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	stored := *r
	f.reminders[r.ID] = &stored
	return nil
}

func (f *fakeReminderRepo) DeleteByCard(cardID uuid.UUID) error {
	for id, r := range f.reminders {
		if r.GiftCardID == cardID {
			delete(f.reminders, id)
		}
	}
	return nil
}

func (f *fakeReminderRepo) FindDue(asOf time.Time) ([]models.Reminder, error) {
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	var due []models.Reminder
	for _, r := range f.reminders {
		if r.SentFlag || r.ReminderDate.After(day) {
			continue
		}
		copied := *r
		if card, ok := f.cards[r.GiftCardID]; ok {
			copied.GiftCard = *card
		}
		due = append(due, copied)
	}
	return due, nil
}

func (f *fakeReminderRepo) MarkSent(id uuid.UUID, sentAt time.Time) error {
	r, ok := f.reminders[id]
	if !ok {
		return repositories.ErrReminderNotFound
	}
	r.SentFlag = true
	r.SentAt = &sentAt
	return nil
}

func (f *fakeReminderRepo) ListByUser(userID uint, filter repositories.ReminderFilter) ([]models.Reminder, error) {
	var out []models.Reminder
	for _, r := range f.reminders {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReminderRepo) GetByIDForUser(id uuid.UUID, userID uint) (*models.Reminder, error) {
	r, ok := f.reminders[id]
	if !ok || r.UserID != userID {
		return nil, repositories.ErrReminderNotFound
	}
	copied := *r
	return &copied, nil
}

type fakeNotifier struct {
	delivered []uuid.UUID
	failFor   map[uuid.UUID]error
}

func (f *fakeNotifier) SendExpiryReminder(_ context.Context, r *models.Reminder) error {
	if err := f.failFor[r.ID]; err != nil {
		return err
	}
	f.delivered = append(f.delivered, r.ID)
	return nil
}

func newTestService(now time.Time) (*service, *fakeReminderRepo, *fakeNotifier) {
	repo := newFakeReminderRepo()
	notifier := &fakeNotifier{failFor: make(map[uuid.UUID]error)}
	svc := NewService(repo, notifier).(*service)
	svc.now = func() time.Time { return now }
	return svc, repo, notifier
}

func TestService_Schedule(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cardID := uuid.New()

	t.Run("far expiry creates both reminders", func(t *testing.T) {
		svc, repo, _ := newTestService(now)

		created, err := svc.Schedule(context.Background(), cardID, 1, now.AddDate(0, 0, 60))
		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.Equal(t, models.ReminderThirtyDaysBefore, created[0].Type)
		assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), created[0].ReminderDate)
		assert.Equal(t, models.ReminderSevenDaysBefore, created[1].Type)
		assert.Equal(t, time.Date(2025, 7, 24, 0, 0, 0, 0, time.UTC), created[1].ReminderDate)
		assert.Len(t, repo.reminders, 2)
	})

	t.Run("near expiry drops the 30 day point", func(t *testing.T) {
		svc, _, _ := newTestService(now)

		created, err := svc.Schedule(context.Background(), cardID, 1, now.AddDate(0, 0, 10))
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Equal(t, models.ReminderSevenDaysBefore, created[0].Type)
	})

	t.Run("reminder landing today is kept", func(t *testing.T) {
		svc, _, _ := newTestService(now)

		created, err := svc.Schedule(context.Background(), cardID, 1, now.AddDate(0, 0, 7))
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), created[0].ReminderDate)
	})

	t.Run("imminent expiry creates nothing", func(t *testing.T) {
		svc, _, _ := newTestService(now)

		created, err := svc.Schedule(context.Background(), cardID, 1, now.AddDate(0, 0, 3))
		require.NoError(t, err)
		assert.Empty(t, created)
	})
}

func TestService_Reschedule(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cardID := uuid.New()

	t.Run("wipes everything including sent reminders", func(t *testing.T) {
		svc, repo, _ := newTestService(now)

		sentAt := now.AddDate(0, 0, -1)
		require.NoError(t, repo.Create(&models.Reminder{
			GiftCardID: cardID, UserID: 1,
			ReminderDate: now.AddDate(0, 0, -2),
			Type:         models.ReminderThirtyDaysBefore,
			SentFlag:     true, SentAt: &sentAt,
		}))

		created, err := svc.Reschedule(context.Background(), cardID, 1, nil)
		require.NoError(t, err)
		assert.Nil(t, created)
		assert.Empty(t, repo.reminders)
	})

	t.Run("new expiry schedules fresh reminders", func(t *testing.T) {
		svc, repo, _ := newTestService(now)

		require.NoError(t, repo.Create(&models.Reminder{
			GiftCardID: cardID, UserID: 1,
			ReminderDate: now.AddDate(0, 0, 5),
			Type:         models.ReminderSevenDaysBefore,
		}))

		expiry := now.AddDate(0, 0, 45)
		created, err := svc.Reschedule(context.Background(), cardID, 1, &expiry)
		require.NoError(t, err)
		assert.Len(t, created, 2)
		assert.Len(t, repo.reminders, 2)
	})
}

func TestService_ProcessDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	seedCard := func(repo *fakeReminderRepo, status string) uuid.UUID {
		cardID := uuid.New()
		repo.cards[cardID] = &models.GiftCard{ID: cardID, UserID: 1, Status: status}
		return cardID
	}
	seedDue := func(repo *fakeReminderRepo, cardID uuid.UUID) uuid.UUID {
		r := &models.Reminder{
			GiftCardID:   cardID,
			UserID:       1,
			ReminderDate: now.AddDate(0, 0, -1),
			Type:         models.ReminderSevenDaysBefore,
		}
		if err := repo.Create(r); err != nil {
			panic(err)
		}
		return r.ID
	}

	t.Run("delivers and marks active card reminders", func(t *testing.T) {
		svc, repo, notifier := newTestService(now)
		cardID := seedCard(repo, models.CardStatusActive)
		reminderID := seedDue(repo, cardID)

		result, err := svc.ProcessDue(context.Background(), now)
		require.NoError(t, err)
		assert.Equal(t, ProcessResult{Processed: 1, Sent: 1}, result)
		assert.Equal(t, []uuid.UUID{reminderID}, notifier.delivered)
		assert.True(t, repo.reminders[reminderID].SentFlag)
	})

	t.Run("retires reminders of non-active cards without notifying", func(t *testing.T) {
		svc, repo, notifier := newTestService(now)
		usedCard := seedCard(repo, models.CardStatusUsed)
		expiredCard := seedCard(repo, models.CardStatusExpired)
		first := seedDue(repo, usedCard)
		second := seedDue(repo, expiredCard)

		result, err := svc.ProcessDue(context.Background(), now)
		require.NoError(t, err)
		assert.Equal(t, ProcessResult{Processed: 2, Skipped: 2}, result)
		assert.Empty(t, notifier.delivered)
		assert.True(t, repo.reminders[first].SentFlag)
		assert.True(t, repo.reminders[second].SentFlag)
	})

	t.Run("delivery failure leaves the reminder unsent", func(t *testing.T) {
		svc, repo, notifier := newTestService(now)
		cardID := seedCard(repo, models.CardStatusActive)
		reminderID := seedDue(repo, cardID)
		notifier.failFor[reminderID] = errors.New("smtp down")

		result, err := svc.ProcessDue(context.Background(), now)
		require.NoError(t, err)
		assert.Equal(t, ProcessResult{Processed: 1, Failed: 1}, result)
		assert.False(t, repo.reminders[reminderID].SentFlag)

		// Next pass retries and succeeds.
		delete(notifier.failFor, reminderID)
		result, err = svc.ProcessDue(context.Background(), now.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, ProcessResult{Processed: 1, Sent: 1}, result)
		assert.True(t, repo.reminders[reminderID].SentFlag)
	})

	t.Run("future reminders stay untouched", func(t *testing.T) {
		svc, repo, notifier := newTestService(now)
		cardID := seedCard(repo, models.CardStatusActive)
		require.NoError(t, repo.Create(&models.Reminder{
			GiftCardID:   cardID,
			UserID:       1,
			ReminderDate: now.AddDate(0, 0, 10),
			Type:         models.ReminderSevenDaysBefore,
		}))

		result, err := svc.ProcessDue(context.Background(), now)
		require.NoError(t, err)
		assert.Equal(t, ProcessResult{}, result)
		assert.Empty(t, notifier.delivered)
	})
}

func TestService_MarkRead(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cardID := uuid.New()

	t.Run("marks an unsent reminder as sent", func(t *testing.T) {
		svc, repo, _ := newTestService(now)
		r := &models.Reminder{
			GiftCardID: cardID, UserID: 1,
			ReminderDate: now.AddDate(0, 0, 5),
			Type:         models.ReminderSevenDaysBefore,
		}
		require.NoError(t, repo.Create(r))

		read, err := svc.MarkRead(context.Background(), 1, r.ID)
		require.NoError(t, err)
		assert.True(t, read.SentFlag)
		require.NotNil(t, read.SentAt)
		assert.Equal(t, now, *read.SentAt)
		assert.True(t, repo.reminders[r.ID].SentFlag)
	})

	t.Run("already sent is a no-op", func(t *testing.T) {
		svc, repo, _ := newTestService(now)
		sentAt := now.AddDate(0, 0, -3)
		r := &models.Reminder{
			GiftCardID: cardID, UserID: 1,
			ReminderDate: now.AddDate(0, 0, -4),
			Type:         models.ReminderThirtyDaysBefore,
			SentFlag:     true, SentAt: &sentAt,
		}
		require.NoError(t, repo.Create(r))

		read, err := svc.MarkRead(context.Background(), 1, r.ID)
		require.NoError(t, err)
		require.NotNil(t, read.SentAt)
		assert.Equal(t, sentAt, *read.SentAt)
	})

	t.Run("other user's reminder is not found", func(t *testing.T) {
		svc, repo, _ := newTestService(now)
		r := &models.Reminder{
			GiftCardID: cardID, UserID: 2,
			ReminderDate: now.AddDate(0, 0, 5),
			Type:         models.ReminderSevenDaysBefore,
		}
		require.NoError(t, repo.Create(r))

		_, err := svc.MarkRead(context.Background(), 1, r.ID)
		assert.ErrorIs(t, err, ErrReminderNotFound)
	})
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sentAt := now.AddDate(0, 0, -10)

	reminders := []models.Reminder{
		// pending: one within a week, one due today, one far out
		{ReminderDate: now.AddDate(0, 0, 3)},
		{ReminderDate: now},
		{ReminderDate: now.AddDate(0, 0, 20)},
		// already sent
		{ReminderDate: now.AddDate(0, 0, -12), SentFlag: true, SentAt: &sentAt},
	}

	summary := Summarize(reminders, now)
	assert.Equal(t, Summary{Total: 4, Pending: 3, Sent: 1, Upcoming7Days: 2}, summary)
}
