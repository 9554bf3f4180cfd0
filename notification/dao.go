package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

func (a *Accessor) CreateNotification(ctx context.Context, n Notification) (*Notification, error) {
	n.ID = uuid.New()

	query := `INSERT INTO notifications (id, user_id, reservation_id, notification_type, message, is_read, created_at) VALUES ($1, $2, $3, $4, $5, FALSE, $6)`
	if _, err := a.db.ExecContext(ctx, query, n.ID, n.UserID, n.ReservationID, n.Type, n.Message, n.CreatedAt); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}
	n.IsRead = false
	return &n, nil
}

// GetNotifications returns the user's notifications, newest first.
func (a *Accessor) GetNotifications(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	query := `SELECT id, user_id, reservation_id, notification_type, message, is_read, created_at FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := a.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.ReservationID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags the listed notifications of the user as read.
func (a *Accessor) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	list := make(pq.StringArray, len(ids))
	for i, id := range ids {
		list[i] = id.String()
	}

	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE AND id = ANY($2::uuid[])`
	res, err := a.db.ExecContext(ctx, query, userID, list)
	if err != nil {
		return 0, fmt.Errorf("exec context: %w", err)
	}
	return res.RowsAffected()
}
