package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"room-booking/database"

	"github.com/google/uuid"
)

// Schedule persists the reminders planned for a reservation through q,
// normally the transaction that confirms it. A row already held for the same
// type, sent or not, is re-armed at the new time.
func (a *Accessor) Schedule(ctx context.Context, q database.Querier, reservationID uuid.UUID, start, now time.Time) ([]Reminder, error) {
	planned := Plan(reservationID, start, now)

	query := `INSERT INTO reminders (id, reservation_id, reminder_type, remind_at, is_sent, created_at) VALUES ($1, $2, $3, $4, FALSE, $5) ` +
		`ON CONFLICT (reservation_id, reminder_type) DO UPDATE SET remind_at = EXCLUDED.remind_at, is_sent = FALSE, sent_at = NULL`
	for _, r := range planned {
		if _, err := q.ExecContext(ctx, query, r.ID, r.ReservationID, r.Type, r.RemindAt, r.CreatedAt); err != nil {
			return nil, fmt.Errorf("insert %s reminder: %w", r.Type, err)
		}
	}
	return planned, nil
}

// CancelPending drops every unsent reminder of the reservation.
func (a *Accessor) CancelPending(ctx context.Context, q database.Querier, reservationID uuid.UUID) error {
	query := `DELETE FROM reminders WHERE reservation_id = $1 AND is_sent = FALSE`
	if _, err := q.ExecContext(ctx, query, reservationID); err != nil {
		return fmt.Errorf("delete pending reminders: %w", err)
	}
	return nil
}

func (a *Accessor) GetReminders(ctx context.Context, filter Filter) ([]Reminder, error) {
	var (
		conds []string
		args  []any
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("r.user_id = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("rm.reminder_type = $%d", len(args)))
	}
	if filter.Sent != nil {
		args = append(args, *filter.Sent)
		conds = append(conds, fmt.Sprintf("rm.is_sent = $%d", len(args)))
	}

	query := `SELECT rm.id, rm.reservation_id, rm.reminder_type, rm.remind_at, rm.is_sent, rm.sent_at, rm.created_at FROM reminders rm JOIN reservations r ON r.id = rm.reservation_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY rm.remind_at DESC"

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var reminders []Reminder
	for rows.Next() {
		var r Reminder
		if err := rows.Scan(&r.ID, &r.ReservationID, &r.Type, &r.RemindAt, &r.IsSent, &r.SentAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// GetDue returns unsent reminders whose time has come and whose reservation
// is still confirmed.
func (a *Accessor) GetDue(ctx context.Context, now time.Time) ([]Due, error) {
	query := `SELECT rm.id, rm.reservation_id, rm.reminder_type, rm.remind_at, r.user_id, r.title, r.start_time, ro.name FROM reminders rm JOIN reservations r ON r.id = rm.reservation_id JOIN rooms ro ON ro.id = r.room_id WHERE rm.is_sent = FALSE AND rm.remind_at <= $1 AND r.status = 'confirmed' ORDER BY rm.remind_at`
	rows, err := a.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var due []Due
	for rows.Next() {
		var d Due
		if err := rows.Scan(&d.ID, &d.ReservationID, &d.Type, &d.RemindAt, &d.UserID, &d.Title, &d.StartTime, &d.RoomName); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

// MarkSent claims the reminder. It reports false when another sweep got
// there first.
func (a *Accessor) MarkSent(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	query := `UPDATE reminders SET is_sent = TRUE, sent_at = $1 WHERE id = $2 AND is_sent = FALSE`
	res, err := a.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return false, fmt.Errorf("exec context: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}
