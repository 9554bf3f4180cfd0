package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"room-booking/notification"

	"github.com/google/uuid"
)

type Notifier interface {
	Notify(ctx context.Context, msg notification.Message)
}

type store interface {
	GetDue(ctx context.Context, now time.Time) ([]Due, error)
	MarkSent(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
}

// Sweeper dispatches due reminders. It is run once per external trigger and
// holds no state between runs.
type Sweeper struct {
	store    store
	notifier Notifier
	loc      *time.Location
}

func NewSweeper(a *Accessor, notifier Notifier, loc *time.Location) *Sweeper {
	return newSweeper(a, notifier, loc)
}

func newSweeper(s store, notifier Notifier, loc *time.Location) *Sweeper {
	if loc == nil {
		loc = time.UTC
	}
	return &Sweeper{store: s, notifier: notifier, loc: loc}
}

type SweepResult struct {
	Due     int `json:"due"`
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
}

// Sweep claims every due reminder and notifies its owner. A reminder is
// claimed before it is delivered, so a failed delivery is never retried.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	due, err := s.store.GetDue(ctx, now)
	if err != nil {
		return SweepResult{}, fmt.Errorf("get due reminders: %w", err)
	}

	result := SweepResult{Due: len(due)}
	for _, d := range due {
		claimed, err := s.store.MarkSent(ctx, d.ID, now)
		if err != nil {
			log.Printf("reminder %s: mark sent: %v", d.ID, err)
			result.Skipped++
			continue
		}
		if !claimed {
			result.Skipped++
			continue
		}

		s.notifier.Notify(ctx, notification.Message{
			UserID:        d.UserID,
			ReservationID: d.ReservationID,
			Type:          notification.TypeReservationReminder,
			Text:          s.text(d),
		})
		result.Sent++
	}
	return result, nil
}

func (s *Sweeper) text(d Due) string {
	return fmt.Sprintf("Reminder: your reservation %q in %s starts in %s, at %s.",
		d.Title, d.RoomName, d.Type.Label(), d.StartTime.In(s.loc).Format("2006-01-02 15:04 MST"))
}
