package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"room-booking/notification"
	"room-booking/room"

	"github.com/google/uuid"
)

func (a *Accessor) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// checkSlot locks the room and the user, then verifies neither has a
// confirmed reservation overlapping r. r itself is excluded so edits do not
// conflict with their own previous interval.
func (a *Accessor) checkSlot(ctx context.Context, tx *sql.Tx, r Reservation) (*room.Room, error) {
	rm, err := room.LockRoom(ctx, tx, r.RoomID)
	if err != nil {
		return nil, err
	}
	if !rm.IsActive {
		return nil, ErrRoomInactive
	}
	if err := lockUser(ctx, tx, r.UserID); err != nil {
		return nil, err
	}

	free, err := room.IsAvailable(ctx, tx, r.RoomID, r.Interval(), r.ID)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrRoomUnavailable
	}

	busy, err := userHasConflict(ctx, tx, r.UserID, r.Interval(), r.ID)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, ErrUserConflict
	}
	return rm, nil
}

// CreateReservation books r. An empty status means confirmed; a pending
// reservation is recorded but blocks nothing until it is confirmed.
func (a *Accessor) CreateReservation(ctx context.Context, r Reservation, now time.Time) (*Reservation, error) {
	if r.Status == "" {
		r.Status = StatusConfirmed
	}
	if r.Status != StatusPending && r.Status != StatusConfirmed {
		return nil, ErrInvalidStatus
	}
	if err := r.Validate(now); err != nil {
		return nil, err
	}

	r.ID = uuid.New()
	r.Title = strings.TrimSpace(r.Title)
	r.CreatedAt = now
	r.UpdatedAt = now

	err := a.inTx(ctx, func(tx *sql.Tx) error {
		rm, err := a.checkSlot(ctx, tx, r)
		if err != nil {
			return err
		}
		r.RoomName = rm.Name

		if err := insertReservation(ctx, tx, r); err != nil {
			return err
		}
		if r.Status == StatusConfirmed {
			if _, err := a.reminders.Schedule(ctx, tx, r.ID, r.StartTime, now); err != nil {
				return fmt.Errorf("schedule reminders: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.Status == StatusConfirmed {
		a.notify(ctx, r, notification.TypeReservationConfirmed, a.confirmedText(r))
	}
	return &r, nil
}

// UpdateReservation edits title, description and interval. Moving a
// confirmed reservation replaces its unsent reminders.
func (a *Accessor) UpdateReservation(ctx context.Context, id uuid.UUID, changes Changes, now time.Time) (*Reservation, error) {
	var updated Reservation
	err := a.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := lockReservation(ctx, tx, id)
		if err != nil {
			return err
		}
		if cur.Status.Terminal() {
			if cur.Status == StatusCancelled {
				return ErrAlreadyCancelled
			}
			return ErrInvalidTransition
		}

		updated = *cur
		updated.Title = strings.TrimSpace(changes.Title)
		updated.Description = changes.Description
		updated.StartTime = changes.StartTime
		updated.EndTime = changes.EndTime
		updated.UpdatedAt = now
		if err := updated.Validate(now); err != nil {
			return err
		}

		if _, err := a.checkSlot(ctx, tx, updated); err != nil {
			return err
		}
		if err := updateReservation(ctx, tx, updated); err != nil {
			return err
		}

		if updated.Status == StatusConfirmed && !cur.StartTime.Equal(updated.StartTime) {
			if err := a.reminders.CancelPending(ctx, tx, id); err != nil {
				return err
			}
			if _, err := a.reminders.Schedule(ctx, tx, id, updated.StartTime, now); err != nil {
				return fmt.Errorf("schedule reminders: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.notify(ctx, updated, notification.TypeReservationUpdated,
		fmt.Sprintf("Your reservation for %s has been updated.", updated.RoomName))
	return &updated, nil
}

// ConfirmReservation moves a pending reservation to confirmed and schedules
// its reminders. Confirming twice is a no-op.
func (a *Accessor) ConfirmReservation(ctx context.Context, id uuid.UUID, now time.Time) (*Reservation, error) {
	var (
		res     Reservation
		already bool
	)
	err := a.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := lockReservation(ctx, tx, id)
		if err != nil {
			return err
		}
		res = *cur
		if cur.Status == StatusConfirmed {
			already = true
			return nil
		}
		if !cur.Status.CanTransitionTo(StatusConfirmed) {
			return ErrInvalidTransition
		}
		if cur.StartTime.Before(now) {
			return ErrStartInPast
		}

		if _, err := a.checkSlot(ctx, tx, res); err != nil {
			return err
		}
		if err := setStatus(ctx, tx, id, StatusConfirmed, now); err != nil {
			return err
		}
		if _, err := a.reminders.Schedule(ctx, tx, id, res.StartTime, now); err != nil {
			return fmt.Errorf("schedule reminders: %w", err)
		}
		res.Status = StatusConfirmed
		res.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !already {
		a.notify(ctx, res, notification.TypeReservationConfirmed, a.confirmedText(res))
	}
	return &res, nil
}

// CancelReservation cancels on behalf of the owner.
func (a *Accessor) CancelReservation(ctx context.Context, id uuid.UUID, now time.Time) (*Reservation, error) {
	return a.cancel(ctx, id, now, false)
}

// AdminCancelReservation cancels on behalf of an administrator.
func (a *Accessor) AdminCancelReservation(ctx context.Context, id uuid.UUID, now time.Time) (*Reservation, error) {
	return a.cancel(ctx, id, now, true)
}

func (a *Accessor) cancel(ctx context.Context, id uuid.UUID, now time.Time, byAdmin bool) (*Reservation, error) {
	var res Reservation
	err := a.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := lockReservation(ctx, tx, id)
		if err != nil {
			return err
		}
		if cur.Status == StatusCancelled {
			return ErrAlreadyCancelled
		}
		if !cur.Status.CanTransitionTo(StatusCancelled) {
			return ErrInvalidTransition
		}

		if err := setStatus(ctx, tx, id, StatusCancelled, now); err != nil {
			return err
		}
		if err := a.reminders.CancelPending(ctx, tx, id); err != nil {
			return err
		}
		res = *cur
		res.Status = StatusCancelled
		res.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Your reservation for %s has been cancelled.", res.RoomName)
	if byAdmin {
		text = fmt.Sprintf("Your reservation for %s has been cancelled by an administrator.", res.RoomName)
	}
	a.notify(ctx, res, notification.TypeReservationCancelled, text)
	return &res, nil
}

// CompletePast marks confirmed reservations that have ended as completed.
func (a *Accessor) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE reservations SET status = 'completed', updated_at = $1 WHERE status = 'confirmed' AND end_time <= $1`
	res, err := a.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("exec context: %w", err)
	}
	return res.RowsAffected()
}

func (a *Accessor) confirmedText(r Reservation) string {
	if r.CreatedByAdmin {
		return fmt.Sprintf("A reservation for %s has been created for you by an administrator.", r.RoomName)
	}
	return fmt.Sprintf("Your reservation for %s has been confirmed for %s.",
		r.RoomName, r.StartTime.In(a.loc).Format("2006-01-02 15:04"))
}

func (a *Accessor) notify(ctx context.Context, r Reservation, typ notification.Type, text string) {
	a.notifier.Notify(ctx, notification.Message{
		UserID:        r.UserID,
		ReservationID: r.ID,
		Type:          typ,
		Text:          text,
	})
}
