package repositories

import (
	"github.com/Jacobolevy/giftwallet-il/internal/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(id uint) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(email string) (*models.User, error)

	// Update updates an existing user's information
	Update(user *models.User) error

	// Delete removes a user and, via cascade, their cards and reminders
	Delete(id uint) error

	// GetForExport loads a user with cards, balance history and
	// reminders for the data export endpoint
	GetForExport(id uint) (*models.User, error)

	// IncrementTokenVersion increments the user's token version
	IncrementTokenVersion(userID uint) error
}
