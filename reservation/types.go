package reservation

import (
	"errors"
	"strings"
	"time"

	"room-booking/room"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal statuses have no way out.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidationError is a user-facing failure tied to one input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	ErrTitleRequired   = &ValidationError{Field: "title", Message: "title is required"}
	ErrRoomRequired    = &ValidationError{Field: "room_id", Message: "room is required"}
	ErrUserRequired    = &ValidationError{Field: "user_id", Message: "user is required"}
	ErrTimeRequired    = &ValidationError{Field: "start_time", Message: "start and end time are required"}
	ErrInvalidInterval = &ValidationError{Field: "end_time", Message: "end time must be after start time"}
	ErrStartInPast     = &ValidationError{Field: "start_time", Message: "cannot create reservation in the past"}
	ErrInvalidStatus   = &ValidationError{Field: "status", Message: "status must be pending or confirmed"}
	ErrRoomInactive    = &ValidationError{Field: "room_id", Message: "room is not accepting reservations"}

	// Conflicts with other confirmed reservations.
	ErrRoomUnavailable = &ValidationError{Field: "room_id", Message: "room is not available for the selected time period"}
	ErrUserConflict    = &ValidationError{Field: "start_time", Message: "you already have a reservation during this time period"}
)

var (
	ErrNotFound          = errors.New("reservation not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrAlreadyCancelled  = errors.New("reservation is already cancelled")
	ErrInvalidTransition = errors.New("reservation status does not allow this change")
)

// IsConflict reports whether err is a room or user scheduling conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrRoomUnavailable) || errors.Is(err, ErrUserConflict)
}

type Reservation struct {
	ID             uuid.UUID `json:"id"`
	RoomID         uuid.UUID `json:"room_id"`
	RoomName       string    `json:"room_name,omitempty"`
	UserID         uuid.UUID `json:"user_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         Status    `json:"status"`
	CreatedByAdmin bool      `json:"created_by_admin"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (r *Reservation) Interval() room.Interval {
	return room.Interval{Start: r.StartTime, End: r.EndTime}
}

// Validate checks everything that can be decided without the store.
func (r *Reservation) Validate(now time.Time) error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrTitleRequired
	}
	if r.RoomID == uuid.Nil {
		return ErrRoomRequired
	}
	if r.UserID == uuid.Nil {
		return ErrUserRequired
	}
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return ErrTimeRequired
	}
	if !r.StartTime.Before(r.EndTime) {
		return ErrInvalidInterval
	}
	if r.StartTime.Before(now) {
		return ErrStartInPast
	}
	return nil
}

func (r *Reservation) IsPast(now time.Time) bool {
	return r.EndTime.Before(now)
}

func (r *Reservation) IsCurrent(now time.Time) bool {
	return !now.Before(r.StartTime) && !now.After(r.EndTime)
}

// Changes are the fields an owner may edit on an existing reservation.
type Changes struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
}

// Filter narrows GetReservations. Zero values mean no restriction.
type Filter struct {
	UserID      *uuid.UUID
	RoomID      *uuid.UUID
	Status      Status
	StartsAfter time.Time
	Limit       int
}
