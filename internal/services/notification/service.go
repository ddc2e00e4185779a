package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/models"
	"github.com/Jacobolevy/giftwallet-il/internal/repositories"
)

// Service delivers expiry reminders. Delivery is currently log-based;
// the email/push transports plug in behind the same method.
type Service struct {
	users repositories.UserRepository
}

// NewService creates a new notification service.
func NewService(users repositories.UserRepository) *Service {
	return &Service{users: users}
}

// SendExpiryReminder notifies the card owner that their card is about
// to expire, honoring the user's notification preferences. A disabled
// channel is not an error; the reminder counts as delivered.
func (s *Service) SendExpiryReminder(ctx context.Context, reminder *models.Reminder) error {
	user, err := s.users.GetByID(reminder.UserID)
	if err != nil {
		return fmt.Errorf("failed to load reminder recipient: %w", err)
	}

	if !user.EmailNotificationsEnabled && !user.PushNotificationsEnabled {
		log.Printf("reminder %s: user %d has notifications disabled, skipping delivery", reminder.ID, user.ID)
		return nil
	}

	card := reminder.GiftCard
	name := card.Nickname
	if name == "" {
		name = card.CardProduct.Name
	}

	message := expiryMessage(name, card.ExpiresAt, user.LanguagePreference)
	if user.EmailNotificationsEnabled {
		log.Printf("email to %s: %s", user.Email, message)
	}
	if user.PushNotificationsEnabled {
		log.Printf("push to user %d: %s", user.ID, message)
	}
	return nil
}

func expiryMessage(cardName string, expiresAt *time.Time, language string) string {
	date := ""
	if expiresAt != nil {
		date = expiresAt.Format("2006-01-02")
	}

	switch language {
	case "he":
		return fmt.Sprintf("כרטיס המתנה %q שלך יפוג בתאריך %s", cardName, date)
	case "es":
		return fmt.Sprintf("Tu tarjeta de regalo %q vence el %s", cardName, date)
	default:
		return fmt.Sprintf("Your gift card %q expires on %s", cardName, date)
	}
}
