package reminder

import (
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/models"
)

// scheduleOffsets lists the reminder points relative to expiry, in
// days. Order matters only for deterministic creation order.
var scheduleOffsets = []struct {
	Type string
	Days int
}{
	{models.ReminderThirtyDaysBefore, 30},
	{models.ReminderSevenDaysBefore, 7},
}

// ProcessResult summarizes one due-reminder processing pass.
type ProcessResult struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Summary gives counts over a reminder listing.
type Summary struct {
	Total         int `json:"total"`
	Pending       int `json:"pending"`
	Sent          int `json:"sent"`
	Upcoming7Days int `json:"upcoming_7_days"`
}

// Summarize counts sent/pending reminders and those falling due within
// the next seven days, relative to now.
func Summarize(reminders []models.Reminder, now time.Time) Summary {
	today := dateOnly(now)
	s := Summary{Total: len(reminders)}
	for i := range reminders {
		r := &reminders[i]
		if r.SentFlag {
			s.Sent++
			continue
		}
		s.Pending++
		days := int(dateOnly(r.ReminderDate).Sub(today).Hours() / 24)
		if days >= 0 && days <= 7 {
			s.Upcoming7Days++
		}
	}
	return s
}
