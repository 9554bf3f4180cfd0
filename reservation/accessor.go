package reservation

import (
	"context"
	"database/sql"
	"time"

	"room-booking/database"
	"room-booking/notification"
	"room-booking/reminder"

	"github.com/google/uuid"
)

type ReminderScheduler interface {
	Schedule(ctx context.Context, q database.Querier, reservationID uuid.UUID, start, now time.Time) ([]reminder.Reminder, error)
	CancelPending(ctx context.Context, q database.Querier, reservationID uuid.UUID) error
}

type Notifier interface {
	Notify(ctx context.Context, msg notification.Message)
}

// Accessor owns the reservation lifecycle. Every state change runs in one
// database transaction; notifications go out after commit.
type Accessor struct {
	db        *sql.DB
	reminders ReminderScheduler
	notifier  Notifier
	loc       *time.Location
}

func NewAccessor(db *sql.DB, reminders ReminderScheduler, notifier Notifier, loc *time.Location) *Accessor {
	if loc == nil {
		loc = time.UTC
	}
	return &Accessor{
		db:        db,
		reminders: reminders,
		notifier:  notifier,
		loc:       loc,
	}
}
