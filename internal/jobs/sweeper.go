// Package jobs runs the background maintenance work: the daily sweep
// that expires overdue cards and delivers due reminders.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/Jacobolevy/giftwallet-il/internal/services/card"
	"github.com/Jacobolevy/giftwallet-il/internal/services/reminder"
)

// Sweeper owns the daily maintenance pass. Expiry runs before reminder
// delivery so reminders never fire for cards that just expired.
type Sweeper struct {
	cards     card.Service
	reminders reminder.Service
	location  *time.Location
	runAt     time.Duration // offset into the day, local time
}

// NewSweeper creates a sweeper that fires once a day at runAt
// (e.g. 6*time.Hour for 06:00) in the given location.
func NewSweeper(cards card.Service, reminders reminder.Service, location *time.Location, runAt time.Duration) *Sweeper {
	if location == nil {
		location = time.UTC
	}
	return &Sweeper{
		cards:     cards,
		reminders: reminders,
		location:  location,
		runAt:     runAt,
	}
}

// RunDailySweep executes one maintenance pass for the given moment.
func (s *Sweeper) RunDailySweep(ctx context.Context, now time.Time) error {
	now = now.In(s.location)

	expired, err := s.cards.ExpireCards(ctx, now)
	if err != nil {
		return err
	}
	if expired > 0 {
		log.Printf("daily sweep: expired %d cards", expired)
	}

	result, err := s.reminders.ProcessDue(ctx, now)
	if err != nil {
		return err
	}
	if result.Processed > 0 {
		log.Printf("daily sweep: reminders processed=%d sent=%d skipped=%d failed=%d",
			result.Processed, result.Sent, result.Skipped, result.Failed)
	}
	return nil
}

// Start launches the sweep loop. It runs once immediately to catch up
// after downtime, then at the configured time every day until the
// context is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		if err := s.RunDailySweep(ctx, time.Now()); err != nil {
			log.Printf("daily sweep failed: %v", err)
		}

		for {
			timer := time.NewTimer(s.untilNextRun(time.Now()))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case now := <-timer.C:
				if err := s.RunDailySweep(ctx, now); err != nil {
					log.Printf("daily sweep failed: %v", err)
				}
			}
		}
	}()
}

// NextRun reports when the next scheduled sweep fires.
func (s *Sweeper) NextRun(now time.Time) time.Time {
	now = now.In(s.location)
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location).Add(s.runAt)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Sweeper) untilNextRun(now time.Time) time.Duration {
	return s.NextRun(now).Sub(now.In(s.location))
}
