package room

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxCapacity = 100

var (
	ErrNotFound      = errors.New("room not found")
	ErrDuplicateName = errors.New("a room with this name already exists")
)

// AmenitiesColumn stores a room's amenity list as a JSON array.
type AmenitiesColumn []string

// Value implements driver.Valuer for INSERT/UPDATE.
func (a AmenitiesColumn) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

// Scan implements sql.Scanner for SELECT.
func (a *AmenitiesColumn) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(a))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(a))
	default:
		return fmt.Errorf("not a []byte: %T", value)
	}
}

type Room struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Amenities   []string  `json:"amenities"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *Room) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.Capacity < 1 {
		return errors.New("capacity must be at least 1")
	}
	if r.Capacity > MaxCapacity {
		return fmt.Errorf("capacity cannot exceed %d", MaxCapacity)
	}
	return nil
}

// Filter narrows GetRooms. Zero values mean no restriction.
type Filter struct {
	ActiveOnly  bool
	MinCapacity int
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

func (i Interval) Validate() error {
	if i.Start.IsZero() {
		return errors.New("start time is required")
	}
	if i.End.IsZero() {
		return errors.New("end time is required")
	}
	if !i.Start.Before(i.End) {
		return errors.New("end time must be after start time")
	}
	return nil
}
