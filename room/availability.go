package room

import (
	"context"
	"fmt"

	"room-booking/database"

	"github.com/google/uuid"
)

const overlapQuery = `SELECT EXISTS (SELECT 1 FROM reservations WHERE room_id = $1 AND status = 'confirmed' AND start_time < $2 AND end_time > $3 AND id <> $4)`

// IsAvailable reports whether no confirmed reservation for the room, other
// than exclude, overlaps in. Pass uuid.Nil to exclude nothing.
func IsAvailable(ctx context.Context, q database.Querier, roomID uuid.UUID, in Interval, exclude uuid.UUID) (bool, error) {
	var taken bool
	if err := q.QueryRowContext(ctx, overlapQuery, roomID, in.End, in.Start, exclude).Scan(&taken); err != nil {
		return false, fmt.Errorf("check room overlap: %w", err)
	}
	return !taken, nil
}

// IsAvailable is the pool-backed variant used for advisory checks outside a
// booking transaction.
func (a *Accessor) IsAvailable(ctx context.Context, roomID uuid.UUID, in Interval, exclude uuid.UUID) (bool, error) {
	if err := in.Validate(); err != nil {
		return false, fmt.Errorf("validate: %w", err)
	}
	return IsAvailable(ctx, a.db, roomID, in, exclude)
}

// AvailableRooms filters rooms down to those free for the whole interval.
func (a *Accessor) AvailableRooms(ctx context.Context, rooms []Room, in Interval) ([]Room, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	available := make([]Room, 0, len(rooms))
	for _, r := range rooms {
		ok, err := IsAvailable(ctx, a.db, r.ID, in, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if ok {
			available = append(available, r)
		}
	}
	return available, nil
}
