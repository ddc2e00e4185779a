package card

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/crypto"
	"github.com/Jacobolevy/giftwallet-il/internal/models"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type service struct {
	repo      repositories.CardRepository
	catalog   repositories.CatalogRepository
	encryptor crypto.Encryptor
	scheduler ReminderScheduler
	searches  SearchInvalidator
}

// NewService creates a new card service.
func NewService(
	repo repositories.CardRepository,
	catalog repositories.CatalogRepository,
	encryptor crypto.Encryptor,
	scheduler ReminderScheduler,
	searches SearchInvalidator,
) Service {
	if repo == nil {
		panic("card repository is required")
	}
	if catalog == nil {
		panic("catalog repository is required")
	}
	if encryptor == nil {
		panic("encryptor is required")
	}
	if scheduler == nil {
		panic("reminder scheduler is required")
	}
	if searches == nil {
		searches = noopInvalidator{}
	}

	return &service{
		repo:      repo,
		catalog:   catalog,
		encryptor: encryptor,
		scheduler: scheduler,
		searches:  searches,
	}
}

func (s *service) Create(ctx context.Context, userID uint, input CreateCardInput) (*models.GiftCard, error) {
	if input.InitialValue.IsNegative() || input.CurrentValue.IsNegative() {
		return nil, fmt.Errorf("%w: values cannot be negative", ErrInvalidValue)
	}
	if input.CurrentValue.GreaterThan(input.InitialValue) {
		return nil, fmt.Errorf("%w: current value cannot exceed initial value", ErrInvalidValue)
	}

	if _, err := s.catalog.GetProduct(input.CardProductID); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to validate card product: %w", err)
	}

	var encryptedCode *string
	if input.FullCode != "" {
		token, err := s.encryptor.Encrypt(stripSpaces(input.FullCode))
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt card code: %w", err)
		}
		encryptedCode = &token
	}

	currency := input.Currency
	if currency == "" {
		currency = "ILS"
	}

	giftCard := &models.GiftCard{
		UserID:        userID,
		CardProductID: input.CardProductID,
		Nickname:      input.Nickname,
		CodeLast4:     input.CodeLast4,
		FullCode:      encryptedCode,
		InitialValue:  input.InitialValue,
		Balance:       input.CurrentValue,
		Currency:      currency,
		ExpiresAt:     input.ExpiresAt,
		Status:        ResolveStatus(input.ExpiresAt, input.CurrentValue, ""),
		Notes:         input.Notes,
		PhotoURL:      input.PhotoURL,
	}

	err := s.repo.ExecuteInTransaction(func(tx repositories.CardRepository) error {
		if err := tx.Create(giftCard); err != nil {
			return err
		}
		return tx.CreateBalanceEntry(&models.BalanceEntry{
			GiftCardID:      giftCard.ID,
			PreviousBalance: decimal.Zero,
			NewBalance:      input.CurrentValue,
			ChangeAmount:    input.CurrentValue,
			ChangeType:      models.ChangeTypeManualUpdate,
			Notes:           "Initial balance",
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	if giftCard.Status == models.CardStatusActive && giftCard.ExpiresAt != nil {
		if _, err := s.scheduler.Schedule(ctx, giftCard.ID, userID, *giftCard.ExpiresAt); err != nil {
			log.Printf("failed to schedule reminders for card %s: %v", giftCard.ID, err)
		}
	}

	s.invalidateSearches(ctx, userID)

	return s.repo.GetByIDForUser(giftCard.ID, userID)
}

func (s *service) GetByID(ctx context.Context, userID uint, cardID uuid.UUID) (*models.GiftCard, error) {
	giftCard, err := s.repo.GetByIDForUser(cardID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return giftCard, nil
}

func (s *service) List(ctx context.Context, userID uint, filter repositories.CardFilter) ([]models.GiftCard, error) {
	cards, err := s.repo.ListByUser(userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

func (s *service) UpdateBalance(ctx context.Context, userID uint, cardID uuid.UUID, input UpdateBalanceInput) (*models.GiftCard, error) {
	if (input.NewBalance == nil) == (input.DeductAmount == nil) {
		return nil, fmt.Errorf("%w: exactly one of new_balance or deduct_amount is required", ErrInvalidValue)
	}

	changeType := input.ChangeType
	if changeType == "" {
		changeType = models.ChangeTypeManualUpdate
	}
	if !validChangeType(changeType) {
		return nil, fmt.Errorf("%w: unknown change type %q", ErrInvalidInput, changeType)
	}

	var updated *models.GiftCard
	err := s.repo.ExecuteInTransaction(func(tx repositories.CardRepository) error {
		giftCard, err := tx.GetByIDForUpdate(cardID, userID)
		if err != nil {
			return err
		}

		previous := giftCard.Balance
		var newBalance decimal.Decimal
		if input.NewBalance != nil {
			newBalance = *input.NewBalance
		} else {
			if input.DeductAmount.LessThanOrEqual(decimal.Zero) {
				return fmt.Errorf("%w: deduct amount must be positive", ErrInvalidValue)
			}
			newBalance = previous.Sub(*input.DeductAmount)
		}
		if newBalance.IsNegative() {
			return fmt.Errorf("%w: balance cannot go negative", ErrInvalidValue)
		}

		now := time.Now()
		giftCard.Balance = newBalance
		giftCard.LastBalanceUpdate = &now
		if newBalance.IsZero() {
			giftCard.Status = models.CardStatusUsed
		} else {
			giftCard.Status = ResolveStatus(giftCard.ExpiresAt, newBalance, giftCard.Status)
		}

		if err := tx.Update(giftCard); err != nil {
			return err
		}

		entry := &models.BalanceEntry{
			GiftCardID:      giftCard.ID,
			PreviousBalance: previous,
			NewBalance:      newBalance,
			ChangeAmount:    newBalance.Sub(previous),
			ChangeType:      changeType,
			Notes:           composeNotes(input.StoreName, input.Notes),
			StoreID:         input.StoreID,
		}
		if err := tx.CreateBalanceEntry(entry); err != nil {
			return err
		}

		// A drained card must not fire expiry reminders.
		if newBalance.IsZero() {
			if err := tx.DeleteUnsentReminders(giftCard.ID); err != nil {
				return err
			}
		}

		updated = giftCard
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	s.invalidateSearches(ctx, userID)
	return updated, nil
}

func (s *service) MarkAsUsed(ctx context.Context, userID uint, cardID uuid.UUID) (*models.GiftCard, error) {
	var updated *models.GiftCard
	err := s.repo.ExecuteInTransaction(func(tx repositories.CardRepository) error {
		giftCard, err := tx.GetByIDForUpdate(cardID, userID)
		if err != nil {
			return err
		}

		previous := giftCard.Balance
		now := time.Now()
		giftCard.Balance = decimal.Zero
		giftCard.Status = models.CardStatusUsed
		giftCard.LastBalanceUpdate = &now

		if err := tx.Update(giftCard); err != nil {
			return err
		}

		entry := &models.BalanceEntry{
			GiftCardID:      giftCard.ID,
			PreviousBalance: previous,
			NewBalance:      decimal.Zero,
			ChangeAmount:    previous.Neg(),
			ChangeType:      models.ChangeTypePurchase,
			Notes:           "Marked as used",
		}
		if err := tx.CreateBalanceEntry(entry); err != nil {
			return err
		}

		if err := tx.DeleteUnsentReminders(giftCard.ID); err != nil {
			return err
		}

		updated = giftCard
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	s.invalidateSearches(ctx, userID)
	return updated, nil
}

func (s *service) UpdateDetails(ctx context.Context, userID uint, cardID uuid.UUID, input UpdateCardInput) (*models.GiftCard, error) {
	giftCard, err := s.repo.GetByIDForUser(cardID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	if input.Nickname != nil {
		giftCard.Nickname = *input.Nickname
	}
	if input.Notes != nil {
		giftCard.Notes = *input.Notes
	}
	if input.PhotoURL != nil {
		giftCard.PhotoURL = *input.PhotoURL
	}

	expiryChanged := input.ExpiresAt != nil || input.ClearExpiry
	if input.ClearExpiry {
		giftCard.ExpiresAt = nil
	} else if input.ExpiresAt != nil {
		giftCard.ExpiresAt = input.ExpiresAt
	}
	if expiryChanged {
		giftCard.Status = ResolveStatus(giftCard.ExpiresAt, giftCard.Balance, giftCard.Status)
	}

	if err := s.repo.Update(giftCard); err != nil {
		return nil, err
	}

	if expiryChanged {
		// Existing reminders are stale either way; reschedule only
		// when the card can still fire them.
		expiry := giftCard.ExpiresAt
		if giftCard.Status != models.CardStatusActive {
			expiry = nil
		}
		if _, err := s.scheduler.Reschedule(ctx, giftCard.ID, userID, expiry); err != nil {
			log.Printf("failed to reschedule reminders for card %s: %v", giftCard.ID, err)
		}
	}

	return giftCard, nil
}

func (s *service) Delete(ctx context.Context, userID uint, cardID uuid.UUID) error {
	if _, err := s.repo.GetByIDForUser(cardID, userID); err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return ErrCardNotFound
		}
		return err
	}

	if err := s.repo.Delete(cardID); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	s.invalidateSearches(ctx, userID)
	return nil
}

func (s *service) GetFullCode(ctx context.Context, userID uint, cardID uuid.UUID) (string, error) {
	giftCard, err := s.repo.GetByIDForUser(cardID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return "", ErrCardNotFound
		}
		return "", err
	}

	if giftCard.FullCode == nil || *giftCard.FullCode == "" {
		return "", ErrCodeNotAvailable
	}

	code, err := s.encryptor.Decrypt(*giftCard.FullCode)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCodeNotAvailable, err)
	}
	return code, nil
}

func (s *service) GetHistory(ctx context.Context, userID uint, cardID uuid.UUID) ([]models.BalanceEntry, error) {
	if _, err := s.repo.GetByIDForUser(cardID, userID); err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return s.repo.ListBalanceEntries(cardID)
}

func (s *service) ExpireCards(ctx context.Context, day time.Time) (int64, error) {
	count, err := s.repo.ExpireCardsBefore(day)
	if err != nil {
		return 0, fmt.Errorf("failed to run expiry sweep: %w", err)
	}
	return count, nil
}

func (s *service) invalidateSearches(ctx context.Context, userID uint) {
	if err := s.searches.InvalidateUserSearches(ctx, userID); err != nil {
		log.Printf("failed to invalidate search cache for user %d: %v", userID, err)
	}
}

func composeNotes(storeName, notes string) string {
	if storeName == "" {
		return notes
	}
	return strings.TrimSpace(fmt.Sprintf("Store: %s. %s", storeName, notes))
}

func validChangeType(changeType string) bool {
	switch changeType {
	case models.ChangeTypeManualUpdate, models.ChangeTypePurchase, models.ChangeTypeRefund, models.ChangeTypeCorrection:
		return true
	}
	return false
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateUserSearches(ctx context.Context, userID uint) error { return nil }
