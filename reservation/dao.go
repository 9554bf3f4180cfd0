package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"room-booking/database"
	"room-booking/room"

	"github.com/google/uuid"
)

const selectReservation = `SELECT r.id, r.room_id, r.user_id, r.title, r.description, r.start_time, r.end_time, r.status, r.created_by_admin, r.created_at, r.updated_at, ro.name FROM reservations r JOIN rooms ro ON ro.id = r.room_id`

const userOverlapQuery = `SELECT EXISTS (SELECT 1 FROM reservations WHERE user_id = $1 AND status = 'confirmed' AND start_time < $2 AND end_time > $3 AND id <> $4)`

type scanner interface {
	Scan(dest ...any) error
}

func scanReservation(s scanner) (Reservation, error) {
	var r Reservation
	err := s.Scan(&r.ID, &r.RoomID, &r.UserID, &r.Title, &r.Description, &r.StartTime, &r.EndTime, &r.Status, &r.CreatedByAdmin, &r.CreatedAt, &r.UpdatedAt, &r.RoomName)
	return r, err
}

// GetReservation returns nil, nil when no reservation has the given id.
func (a *Accessor) GetReservation(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	r, err := scanReservation(a.db.QueryRowContext(ctx, selectReservation+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	return &r, nil
}

func (a *Accessor) GetReservations(ctx context.Context, filter Filter) ([]Reservation, error) {
	var (
		conds []string
		args  []any
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("r.user_id = $%d", len(args)))
	}
	if filter.RoomID != nil {
		args = append(args, *filter.RoomID)
		conds = append(conds, fmt.Sprintf("r.room_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if !filter.StartsAfter.IsZero() {
		args = append(args, filter.StartsAfter)
		conds = append(conds, fmt.Sprintf("r.start_time >= $%d", len(args)))
	}

	query := selectReservation
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	// Upcoming listings read soonest first, history reads newest first.
	if filter.StartsAfter.IsZero() {
		query += " ORDER BY r.start_time DESC"
	} else {
		query += " ORDER BY r.start_time ASC"
	}
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountReservations counts reservations with the status, or all of them for "".
func (a *Accessor) CountReservations(ctx context.Context, status Status) (int, error) {
	query := `SELECT COUNT(*) FROM reservations`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}

	var count int
	if err := a.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan: %w", err)
	}
	return count, nil
}

func lockReservation(ctx context.Context, q database.Querier, id uuid.UUID) (*Reservation, error) {
	r, err := scanReservation(q.QueryRowContext(ctx, selectReservation+` WHERE r.id = $1 FOR UPDATE OF r`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock reservation: %w", err)
	}
	return &r, nil
}

func lockUser(ctx context.Context, q database.Querier, id uuid.UUID) error {
	var found uuid.UUID
	if err := q.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lock user: %w", err)
	}
	return nil
}

func userHasConflict(ctx context.Context, q database.Querier, userID uuid.UUID, in room.Interval, exclude uuid.UUID) (bool, error) {
	var taken bool
	if err := q.QueryRowContext(ctx, userOverlapQuery, userID, in.End, in.Start, exclude).Scan(&taken); err != nil {
		return false, fmt.Errorf("check user overlap: %w", err)
	}
	return taken, nil
}

func insertReservation(ctx context.Context, q database.Querier, r Reservation) error {
	query := `INSERT INTO reservations (id, room_id, user_id, title, description, start_time, end_time, status, created_by_admin, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := q.ExecContext(ctx, query, r.ID, r.RoomID, r.UserID, r.Title, r.Description, r.StartTime, r.EndTime, r.Status, r.CreatedByAdmin, r.CreatedAt, r.UpdatedAt); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func updateReservation(ctx context.Context, q database.Querier, r Reservation) error {
	query := `UPDATE reservations SET title = $1, description = $2, start_time = $3, end_time = $4, updated_at = $5 WHERE id = $6`
	if _, err := q.ExecContext(ctx, query, r.Title, r.Description, r.StartTime, r.EndTime, r.UpdatedAt, r.ID); err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return nil
}

func setStatus(ctx context.Context, q database.Querier, id uuid.UUID, status Status, now time.Time) error {
	query := `UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := q.ExecContext(ctx, query, status, now, id); err != nil {
		return fmt.Errorf("set status %s: %w", status, err)
	}
	return nil
}
