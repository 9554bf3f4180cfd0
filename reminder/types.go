package reminder

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	Type24h Type = "24h"
	Type1h  Type = "1h"
	Type15m Type = "15m"
)

// Types lists every reminder type, furthest from the start first.
var Types = []Type{Type24h, Type1h, Type15m}

// Offset is how long before the reservation start the reminder fires.
func (t Type) Offset() time.Duration {
	switch t {
	case Type24h:
		return 24 * time.Hour
	case Type1h:
		return time.Hour
	case Type15m:
		return 15 * time.Minute
	default:
		return 0
	}
}

func (t Type) Label() string {
	switch t {
	case Type24h:
		return "24 hours"
	case Type1h:
		return "1 hour"
	case Type15m:
		return "15 minutes"
	default:
		return string(t)
	}
}

func (t Type) Valid() bool {
	return t.Offset() > 0
}

type Reminder struct {
	ID            uuid.UUID  `json:"id"`
	ReservationID uuid.UUID  `json:"reservation_id"`
	Type          Type       `json:"reminder_type"`
	RemindAt      time.Time  `json:"remind_at"`
	IsSent        bool       `json:"is_sent"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Plan returns the reminders for a reservation starting at start, keeping
// only those whose fire time is still after now.
func Plan(reservationID uuid.UUID, start, now time.Time) []Reminder {
	var out []Reminder
	for _, t := range Types {
		at := start.Add(-t.Offset())
		if !at.After(now) {
			continue
		}
		out = append(out, Reminder{
			ID:            uuid.New(),
			ReservationID: reservationID,
			Type:          t,
			RemindAt:      at,
			CreatedAt:     now,
		})
	}
	return out
}

// Filter narrows GetReminders. Nil/empty fields mean no restriction.
type Filter struct {
	UserID *uuid.UUID
	Type   Type
	Sent   *bool
}

// Due is an unsent reminder joined with what is needed to word it.
type Due struct {
	Reminder
	UserID    uuid.UUID
	Title     string
	RoomName  string
	StartTime time.Time
}
