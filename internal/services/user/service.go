package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/models"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories"
	"github.com/Jacobolevy/giftwallet-il/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
)

// UpdateProfileInput edits user settings; nil pointers mean no change.
type UpdateProfileInput struct {
	Name                      *string `json:"name,omitempty"`
	Phone                     *string `json:"phone,omitempty"`
	LanguagePreference        *string `json:"language_preference,omitempty"`
	EmailNotificationsEnabled *bool   `json:"email_notifications_enabled,omitempty"`
	PushNotificationsEnabled  *bool   `json:"push_notifications_enabled,omitempty"`
}

// ExportPayload is the full account data dump a user can download.
type ExportPayload struct {
	ExportedAt time.Time         `json:"exported_at"`
	User       *models.User      `json:"user"`
	GiftCards  []models.GiftCard `json:"gift_cards"`
	Reminders  []models.Reminder `json:"reminders"`
}

type Service interface {
	GetProfile(id uint) (*models.User, error)
	UpdateProfile(id uint, input UpdateProfileInput) (*models.User, error)
	// DeleteAccount removes the user and, via cascade, every card,
	// balance entry and reminder they own. Password is re-checked.
	DeleteAccount(id uint, password string) error
	Export(id uint) (*ExportPayload, error)
}

type service struct {
	repo repositories.UserRepository
}

func NewService(repo repositories.UserRepository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) GetProfile(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *service) UpdateProfile(id uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.LanguagePreference != nil {
		if !validation.IsSupportedLanguage(*input.LanguagePreference) {
			return nil, fmt.Errorf("unsupported language %q", *input.LanguagePreference)
		}
		user.LanguagePreference = *input.LanguagePreference
	}
	if input.EmailNotificationsEnabled != nil {
		user.EmailNotificationsEnabled = *input.EmailNotificationsEnabled
	}
	if input.PushNotificationsEnabled != nil {
		user.PushNotificationsEnabled = *input.PushNotificationsEnabled
	}

	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *service) DeleteAccount(id uint, password string) error {
	user, err := s.GetProfile(id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidPassword
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func (s *service) Export(id uint) (*ExportPayload, error) {
	user, err := s.repo.GetForExport(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to export user data: %w", err)
	}

	return &ExportPayload{
		ExportedAt: time.Now(),
		User:       user,
		GiftCards:  user.GiftCards,
		Reminders:  user.Reminders,
	}, nil
}
