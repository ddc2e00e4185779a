package card

import (
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/models"

	"github.com/shopspring/decimal"
)

// ResolveStatus derives a card's lifecycle status from its expiry date
// and balance. "used" is terminal and never auto-reverts; a card
// expiring today is still active.
func ResolveStatus(expiresAt *time.Time, balance decimal.Decimal, explicit string) string {
	return resolveStatusAt(expiresAt, balance, explicit, time.Now())
}

func resolveStatusAt(expiresAt *time.Time, balance decimal.Decimal, explicit string, now time.Time) string {
	if explicit == models.CardStatusUsed {
		return models.CardStatusUsed
	}
	if expiresAt != nil && dateOnly(*expiresAt).Before(dateOnly(now)) {
		return models.CardStatusExpired
	}
	return models.CardStatusActive
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
