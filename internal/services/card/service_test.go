package card

import (
	"context"
	"testing"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/models"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCardRepo is an in-memory CardRepository.
type fakeCardRepo struct {
	cards           map[uuid.UUID]*models.GiftCard
	entries         []models.BalanceEntry
	remindersWiped  []uuid.UUID
	expireCallCount int
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: make(map[uuid.UUID]*models.GiftCard)}
}

func (f *fakeCardRepo) Create(card *models.GiftCard) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	stored := *card
	f.cards[card.ID] = &stored
	return nil
}

func (f *fakeCardRepo) GetByIDForUser(id uuid.UUID, userID uint) (*models.GiftCard, error) {
	card, ok := f.cards[id]
	if !ok || card.UserID != userID {
		return nil, repositories.ErrCardNotFound
	}
	copied := *card
	return &copied, nil
}

func (f *fakeCardRepo) GetByIDForUpdate(id uuid.UUID, userID uint) (*models.GiftCard, error) {
	return f.GetByIDForUser(id, userID)
}

func (f *fakeCardRepo) Update(card *models.GiftCard) error {
	if _, ok := f.cards[card.ID]; !ok {
		return repositories.ErrCardNotFound
	}
	stored := *card
	f.cards[card.ID] = &stored
	return nil
}

func (f *fakeCardRepo) Delete(id uuid.UUID) error {
	delete(f.cards, id)
	return nil
}

func (f *fakeCardRepo) ListByUser(userID uint, filter repositories.CardFilter) ([]models.GiftCard, error) {
	var out []models.GiftCard
	for _, c := range f.cards {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCardRepo) ListActiveWithBalance(userID uint) ([]models.GiftCard, error) {
	var out []models.GiftCard
	for _, c := range f.cards {
		if c.UserID == userID && c.Status == models.CardStatusActive && c.Balance.GreaterThan(decimal.Zero) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCardRepo) CreateBalanceEntry(entry *models.BalanceEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeCardRepo) ListBalanceEntries(cardID uuid.UUID) ([]models.BalanceEntry, error) {
	var out []models.BalanceEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].GiftCardID == cardID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func (f *fakeCardRepo) DeleteUnsentReminders(cardID uuid.UUID) error {
	f.remindersWiped = append(f.remindersWiped, cardID)
	return nil
}

func (f *fakeCardRepo) ExpireCardsBefore(day time.Time) (int64, error) {
	f.expireCallCount++
	var n int64
	for _, c := range f.cards {
		if c.Status == models.CardStatusActive && c.ExpiresAt != nil && c.ExpiresAt.Before(day) {
			c.Status = models.CardStatusExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeCardRepo) ExecuteInTransaction(fn func(repositories.CardRepository) error) error {
	return fn(f)
}

// fakeCatalog only knows products; the card service needs nothing else.
type fakeCatalog struct {
	products map[string]*models.CardProduct
}

func (f *fakeCatalog) ListIssuers() ([]models.Issuer, error)      { return nil, nil }
func (f *fakeCatalog) GetIssuer(string) (*models.Issuer, error)   { return nil, repositories.ErrIssuerNotFound }
func (f *fakeCatalog) ListProductsByIssuer(string) ([]models.CardProduct, error) {
	return nil, nil
}
func (f *fakeCatalog) GetProduct(id string) (*models.CardProduct, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrProductNotFound
	}
	return p, nil
}
func (f *fakeCatalog) GetStore(string) (*models.Store, error) { return nil, repositories.ErrStoreNotFound }
func (f *fakeCatalog) SearchStores(string) ([]models.Store, error) { return nil, nil }
func (f *fakeCatalog) ListStoreLinksForProduct(string) ([]models.CardProductStore, error) {
	return nil, nil
}
func (f *fakeCatalog) UpsertIssuer(*models.Issuer) error             { return nil }
func (f *fakeCatalog) UpsertStore(*models.Store) error               { return nil }
func (f *fakeCatalog) UpsertProduct(*models.CardProduct) error       { return nil }
func (f *fakeCatalog) UpsertProductStore(*models.CardProductStore) error { return nil }

type fakeScheduler struct {
	scheduled    []uuid.UUID
	rescheduled  []uuid.UUID
	lastExpiry   *time.Time
}

func (f *fakeScheduler) Schedule(_ context.Context, cardID uuid.UUID, _ uint, expiresAt time.Time) ([]models.Reminder, error) {
	f.scheduled = append(f.scheduled, cardID)
	f.lastExpiry = &expiresAt
	return nil, nil
}

func (f *fakeScheduler) Reschedule(_ context.Context, cardID uuid.UUID, _ uint, expiresAt *time.Time) ([]models.Reminder, error) {
	f.rescheduled = append(f.rescheduled, cardID)
	f.lastExpiry = expiresAt
	return nil, nil
}

// fakeEncryptor reverses nothing; it just tags the value.
type fakeEncryptor struct{}

func (fakeEncryptor) Encrypt(plaintext string) (string, error) { return "enc:" + plaintext, nil }
func (fakeEncryptor) Decrypt(token string) (string, error) {
	if len(token) < 4 || token[:4] != "enc:" {
		return "", assert.AnError
	}
	return token[4:], nil
}

func newTestService() (Service, *fakeCardRepo, *fakeScheduler) {
	repo := newFakeCardRepo()
	catalog := &fakeCatalog{products: map[string]*models.CardProduct{
		"buyme-food": {ID: "buyme-food", IssuerID: "buyme", Name: "Buyme Food"},
	}}
	scheduler := &fakeScheduler{}
	svc := NewService(repo, catalog, fakeEncryptor{}, scheduler, nil)
	return svc, repo, scheduler
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("writes card and initial history entry", func(t *testing.T) {
		svc, repo, scheduler := newTestService()
		expiry := time.Now().AddDate(1, 0, 0)

		created, err := svc.Create(ctx, 1, CreateCardInput{
			CardProductID: "buyme-food",
			CodeLast4:     "1234",
			FullCode:      "1234 5678 9012 1234",
			InitialValue:  d("200"),
			CurrentValue:  d("150"),
			ExpiresAt:     &expiry,
		})
		require.NoError(t, err)
		assert.Equal(t, models.CardStatusActive, created.Status)
		assert.True(t, created.Balance.Equal(d("150")))
		assert.Equal(t, "enc:1234567890121234", *repo.cards[created.ID].FullCode)

		require.Len(t, repo.entries, 1)
		entry := repo.entries[0]
		assert.True(t, entry.PreviousBalance.IsZero())
		assert.True(t, entry.NewBalance.Equal(d("150")))
		assert.True(t, entry.ChangeAmount.Equal(d("150")))
		assert.Equal(t, models.ChangeTypeManualUpdate, entry.ChangeType)
		assert.Equal(t, "Initial balance", entry.Notes)

		assert.Equal(t, []uuid.UUID{created.ID}, scheduler.scheduled)
	})

	t.Run("rejects negative values", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Create(ctx, 1, CreateCardInput{
			CardProductID: "buyme-food",
			InitialValue:  d("-10"),
			CurrentValue:  d("-10"),
		})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("rejects current above initial", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Create(ctx, 1, CreateCardInput{
			CardProductID: "buyme-food",
			InitialValue:  d("100"),
			CurrentValue:  d("150"),
		})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Create(ctx, 1, CreateCardInput{
			CardProductID: "nope",
			InitialValue:  d("100"),
			CurrentValue:  d("100"),
		})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("no reminders without expiry", func(t *testing.T) {
		svc, _, scheduler := newTestService()
		_, err := svc.Create(ctx, 1, CreateCardInput{
			CardProductID: "buyme-food",
			InitialValue:  d("100"),
			CurrentValue:  d("100"),
		})
		require.NoError(t, err)
		assert.Empty(t, scheduler.scheduled)
	})
}

func TestService_UpdateBalance(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, svc Service) *models.GiftCard {
		t.Helper()
		created, err := svc.Create(ctx, 1, CreateCardInput{
			CardProductID: "buyme-food",
			InitialValue:  d("100"),
			CurrentValue:  d("100"),
		})
		require.NoError(t, err)
		return created
	}

	t.Run("set new balance records the delta", func(t *testing.T) {
		svc, repo, _ := newTestService()
		card := seed(t, svc)

		nb := d("60")
		updated, err := svc.UpdateBalance(ctx, 1, card.ID, UpdateBalanceInput{
			NewBalance: &nb,
			ChangeType: models.ChangeTypePurchase,
			StoreName:  "Shufersal",
			Notes:      "groceries",
		})
		require.NoError(t, err)
		assert.True(t, updated.Balance.Equal(d("60")))
		assert.Equal(t, models.CardStatusActive, updated.Status)
		assert.NotNil(t, updated.LastBalanceUpdate)

		entry := repo.entries[len(repo.entries)-1]
		assert.True(t, entry.PreviousBalance.Equal(d("100")))
		assert.True(t, entry.ChangeAmount.Equal(d("-40")))
		assert.Equal(t, "Store: Shufersal. groceries", entry.Notes)
	})

	t.Run("deduct amount", func(t *testing.T) {
		svc, _, _ := newTestService()
		card := seed(t, svc)

		amt := d("30")
		updated, err := svc.UpdateBalance(ctx, 1, card.ID, UpdateBalanceInput{DeductAmount: &amt})
		require.NoError(t, err)
		assert.True(t, updated.Balance.Equal(d("70")))
	})

	t.Run("deduct beyond balance fails", func(t *testing.T) {
		svc, _, _ := newTestService()
		card := seed(t, svc)

		amt := d("150")
		_, err := svc.UpdateBalance(ctx, 1, card.ID, UpdateBalanceInput{DeductAmount: &amt})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("requires exactly one of new balance or deduct", func(t *testing.T) {
		svc, _, _ := newTestService()
		card := seed(t, svc)

		_, err := svc.UpdateBalance(ctx, 1, card.ID, UpdateBalanceInput{})
		assert.ErrorIs(t, err, ErrInvalidValue)

		nb, amt := d("50"), d("10")
		_, err = svc.UpdateBalance(ctx, 1, card.ID, UpdateBalanceInput{NewBalance: &nb, DeductAmount: &amt})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("zero balance retires card and wipes unsent reminders", func(t *testing.T) {
		svc, repo, _ := newTestService()
		card := seed(t, svc)

		nb := d("0")
		updated, err := svc.UpdateBalance(ctx, 1, card.ID, UpdateBalanceInput{NewBalance: &nb})
		require.NoError(t, err)
		assert.Equal(t, models.CardStatusUsed, updated.Status)
		assert.Contains(t, repo.remindersWiped, card.ID)
	})

	t.Run("unknown card", func(t *testing.T) {
		svc, _, _ := newTestService()
		nb := d("10")
		_, err := svc.UpdateBalance(ctx, 1, uuid.New(), UpdateBalanceInput{NewBalance: &nb})
		assert.ErrorIs(t, err, ErrCardNotFound)
	})
}

func TestService_MarkAsUsed(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()

	created, err := svc.Create(ctx, 1, CreateCardInput{
		CardProductID: "buyme-food",
		InitialValue:  d("80"),
		CurrentValue:  d("80"),
	})
	require.NoError(t, err)

	updated, err := svc.MarkAsUsed(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CardStatusUsed, updated.Status)
	assert.True(t, updated.Balance.IsZero())

	entry := repo.entries[len(repo.entries)-1]
	assert.True(t, entry.ChangeAmount.Equal(d("-80")))
	assert.Equal(t, models.ChangeTypePurchase, entry.ChangeType)
	assert.Equal(t, "Marked as used", entry.Notes)
	assert.Contains(t, repo.remindersWiped, created.ID)
}

func TestService_UpdateDetails(t *testing.T) {
	ctx := context.Background()

	t.Run("metadata edit leaves reminders alone", func(t *testing.T) {
		svc, _, scheduler := newTestService()
		created, err := svc.Create(ctx, 1, CreateCardInput{
			CardProductID: "buyme-food",
			InitialValue:  d("50"),
			CurrentValue:  d("50"),
		})
		require.NoError(t, err)

		nickname := "Birthday card"
		updated, err := svc.UpdateDetails(ctx, 1, created.ID, UpdateCardInput{Nickname: &nickname})
		require.NoError(t, err)
		assert.Equal(t, "Birthday card", updated.Nickname)
		assert.Empty(t, scheduler.rescheduled)
	})

	t.Run("expiry edit reschedules", func(t *testing.T) {
		svc, _, scheduler := newTestService()
		created, err := svc.Create(ctx, 1, CreateCardInput{
			CardProductID: "buyme-food",
			InitialValue:  d("50"),
			CurrentValue:  d("50"),
		})
		require.NoError(t, err)

		expiry := time.Now().AddDate(0, 6, 0)
		updated, err := svc.UpdateDetails(ctx, 1, created.ID, UpdateCardInput{ExpiresAt: &expiry})
		require.NoError(t, err)
		assert.Equal(t, models.CardStatusActive, updated.Status)
		assert.Equal(t, []uuid.UUID{created.ID}, scheduler.rescheduled)
		require.NotNil(t, scheduler.lastExpiry)
		assert.True(t, scheduler.lastExpiry.Equal(expiry))
	})

	t.Run("past expiry expires the card and clears reminders", func(t *testing.T) {
		svc, _, scheduler := newTestService()
		created, err := svc.Create(ctx, 1, CreateCardInput{
			CardProductID: "buyme-food",
			InitialValue:  d("50"),
			CurrentValue:  d("50"),
		})
		require.NoError(t, err)

		expiry := time.Now().AddDate(0, 0, -3)
		updated, err := svc.UpdateDetails(ctx, 1, created.ID, UpdateCardInput{ExpiresAt: &expiry})
		require.NoError(t, err)
		assert.Equal(t, models.CardStatusExpired, updated.Status)
		assert.Equal(t, []uuid.UUID{created.ID}, scheduler.rescheduled)
		assert.Nil(t, scheduler.lastExpiry)
	})

	t.Run("clearing expiry wipes reminders", func(t *testing.T) {
		svc, _, scheduler := newTestService()
		expiry := time.Now().AddDate(1, 0, 0)
		created, err := svc.Create(ctx, 1, CreateCardInput{
			CardProductID: "buyme-food",
			InitialValue:  d("50"),
			CurrentValue:  d("50"),
			ExpiresAt:     &expiry,
		})
		require.NoError(t, err)

		updated, err := svc.UpdateDetails(ctx, 1, created.ID, UpdateCardInput{ClearExpiry: true})
		require.NoError(t, err)
		assert.Nil(t, updated.ExpiresAt)
		assert.Equal(t, []uuid.UUID{created.ID}, scheduler.rescheduled)
		assert.Nil(t, scheduler.lastExpiry)
	})
}

func TestService_ExpireCards(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()

	past := time.Now().AddDate(0, 0, -10)
	future := time.Now().AddDate(1, 0, 0)

	seed := func(status string, expiresAt *time.Time) uuid.UUID {
		card := &models.GiftCard{
			UserID:        1,
			CardProductID: "buyme-food",
			InitialValue:  d("50"),
			Balance:       d("50"),
			Status:        status,
			ExpiresAt:     expiresAt,
		}
		require.NoError(t, repo.Create(card))
		return card.ID
	}

	overdue := seed(models.CardStatusActive, &past)
	current := seed(models.CardStatusActive, &future)
	used := seed(models.CardStatusUsed, &past)
	alreadyExpired := seed(models.CardStatusExpired, &past)

	changed, err := svc.ExpireCards(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)
	assert.Equal(t, models.CardStatusExpired, repo.cards[overdue].Status)
	assert.Equal(t, models.CardStatusActive, repo.cards[current].Status)
	// Used is terminal; an overdue expiry date never reopens it.
	assert.Equal(t, models.CardStatusUsed, repo.cards[used].Status)
	assert.Equal(t, models.CardStatusExpired, repo.cards[alreadyExpired].Status)

	// A second pass has nothing left to transition.
	changed, err = svc.ExpireCards(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.Equal(t, models.CardStatusUsed, repo.cards[used].Status)
	assert.Equal(t, 2, repo.expireCallCount)
}

func TestService_GetFullCode(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	withCode, err := svc.Create(ctx, 1, CreateCardInput{
		CardProductID: "buyme-food",
		FullCode:      "9999 0000",
		InitialValue:  d("50"),
		CurrentValue:  d("50"),
	})
	require.NoError(t, err)

	code, err := svc.GetFullCode(ctx, 1, withCode.ID)
	require.NoError(t, err)
	assert.Equal(t, "99990000", code)

	withoutCode, err := svc.Create(ctx, 1, CreateCardInput{
		CardProductID: "buyme-food",
		InitialValue:  d("50"),
		CurrentValue:  d("50"),
	})
	require.NoError(t, err)

	_, err = svc.GetFullCode(ctx, 1, withoutCode.ID)
	assert.ErrorIs(t, err, ErrCodeNotAvailable)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()

	created, err := svc.Create(ctx, 1, CreateCardInput{
		CardProductID: "buyme-food",
		InitialValue:  d("50"),
		CurrentValue:  d("50"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, created.ID))
	assert.Empty(t, repo.cards)

	assert.ErrorIs(t, svc.Delete(ctx, 2, created.ID), ErrCardNotFound)
}
