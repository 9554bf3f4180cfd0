package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeReservationConfirmed Type = "reservation_confirmed"
	TypeReservationCancelled Type = "reservation_cancelled"
	TypeReservationReminder  Type = "reservation_reminder"
	TypeReservationUpdated   Type = "reservation_updated"
)

// Subject is the e-mail subject line for the notification type.
func (t Type) Subject() string {
	switch t {
	case TypeReservationConfirmed:
		return "Reservation confirmed"
	case TypeReservationCancelled:
		return "Reservation cancelled"
	case TypeReservationReminder:
		return "Reservation reminder"
	case TypeReservationUpdated:
		return "Reservation updated"
	default:
		return "Room booking notification"
	}
}

type Notification struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	ReservationID uuid.UUID `json:"reservation_id"`
	Type          Type      `json:"notification_type"`
	Message       string    `json:"message"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

// Message is what lifecycle and reminder code hand to a Notifier.
type Message struct {
	UserID        uuid.UUID
	ReservationID uuid.UUID
	Type          Type
	Text          string
}
