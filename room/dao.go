package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"room-booking/database"

	"github.com/google/uuid"
)

const nameConstraint = "rooms_name_key"

const selectRoom = `SELECT id, name, capacity, location, description, amenities, is_active, created_at, updated_at FROM rooms`

type scanner interface {
	Scan(dest ...any) error
}

func scanRoom(s scanner) (Room, error) {
	var r Room
	var amenities AmenitiesColumn
	if err := s.Scan(&r.ID, &r.Name, &r.Capacity, &r.Location, &r.Description, &amenities, &r.IsActive, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return Room{}, err
	}
	r.Amenities = []string(amenities)
	return r, nil
}

func (a *Accessor) CreateRoom(ctx context.Context, room Room, now time.Time) (*Room, error) {
	if err := room.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	room.ID = uuid.New()
	room.Name = strings.TrimSpace(room.Name)
	room.CreatedAt = now
	room.UpdatedAt = now

	query := `INSERT INTO rooms (id, name, capacity, location, description, amenities, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := a.db.ExecContext(ctx, query, room.ID, room.Name, room.Capacity, room.Location, room.Description, AmenitiesColumn(room.Amenities), room.IsActive, now, now)
	if err != nil {
		if database.IsUniqueViolation(err, nameConstraint) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("exec context: %w", err)
	}

	return &room, nil
}

func (a *Accessor) UpdateRoom(ctx context.Context, room Room, now time.Time) (*Room, error) {
	if err := room.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	// created_at is immutable.
	query := `UPDATE rooms SET name = $1, capacity = $2, location = $3, description = $4, amenities = $5, is_active = $6, updated_at = $7 WHERE id = $8`
	res, err := a.db.ExecContext(ctx, query, strings.TrimSpace(room.Name), room.Capacity, room.Location, room.Description, AmenitiesColumn(room.Amenities), room.IsActive, now, room.ID)
	if err != nil {
		if database.IsUniqueViolation(err, nameConstraint) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("exec context: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	updated, err := a.GetRoom(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// GetRoom returns nil, nil when no room has the given id.
func (a *Accessor) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	r, err := scanRoom(a.db.QueryRowContext(ctx, selectRoom+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	return &r, nil
}

func (a *Accessor) GetRooms(ctx context.Context, filter Filter) ([]Room, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ActiveOnly {
		conds = append(conds, "is_active = TRUE")
	}
	if filter.MinCapacity > 0 {
		args = append(args, filter.MinCapacity)
		conds = append(conds, fmt.Sprintf("capacity >= $%d", len(args)))
	}

	query := selectRoom
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name"

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

func (a *Accessor) CountActiveRooms(ctx context.Context) (int, error) {
	var count int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms WHERE is_active = TRUE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan: %w", err)
	}
	return count, nil
}

// LockRoom takes a row lock on the room for the rest of q's transaction and
// returns it. Reservations for one room are serialized on this lock.
func LockRoom(ctx context.Context, q database.Querier, id uuid.UUID) (*Room, error) {
	r, err := scanRoom(q.QueryRowContext(ctx, selectRoom+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock room: %w", err)
	}
	return &r, nil
}
