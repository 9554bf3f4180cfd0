package reminder

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"room-booking/notification"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	testifymock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, msg notification.Message) {
	m.Called(ctx, msg)
}

func TestPlan(t *testing.T) {
	now := time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)
	id := uuid.New()

	tests := []struct {
		name  string
		start time.Time
		want  []Type
	}{
		{name: "more than a day out", start: now.Add(48 * time.Hour), want: []Type{Type24h, Type1h, Type15m}},
		{name: "exactly a day out", start: now.Add(24 * time.Hour), want: []Type{Type1h, Type15m}},
		{name: "a few hours out", start: now.Add(3 * time.Hour), want: []Type{Type1h, Type15m}},
		{name: "half an hour out", start: now.Add(30 * time.Minute), want: []Type{Type15m}},
		{name: "ten minutes out", start: now.Add(10 * time.Minute), want: nil},
		{name: "already started", start: now.Add(-time.Minute), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planned := Plan(id, tt.start, now)
			var got []Type
			for _, r := range planned {
				got = append(got, r.Type)
				assert.Equal(t, id, r.ReservationID)
				assert.Equal(t, tt.start.Add(-r.Type.Offset()), r.RemindAt)
				assert.True(t, r.RemindAt.After(now))
				assert.False(t, r.IsSent)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestType(t *testing.T) {
	assert.Equal(t, 24*time.Hour, Type24h.Offset())
	assert.Equal(t, time.Hour, Type1h.Offset())
	assert.Equal(t, 15*time.Minute, Type15m.Offset())
	assert.Equal(t, "1 hour", Type1h.Label())
	assert.True(t, Type15m.Valid())
	assert.False(t, Type("2h").Valid())
}

func TestAccessor(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := NewAccessor(db)
	now := time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)
	reservationID := uuid.New()

	t.Run("schedule inserts each planned reminder", func(t *testing.T) {
		start := now.Add(72 * time.Hour)
		insertQuery := regexp.QuoteMeta(`INSERT INTO reminders (id, reservation_id, reminder_type, remind_at, is_sent, created_at) VALUES ($1, $2, $3, $4, FALSE, $5) ON CONFLICT (reservation_id, reminder_type) DO UPDATE SET remind_at = EXCLUDED.remind_at, is_sent = FALSE, sent_at = NULL`)
		for _, typ := range Types {
			dbMock.ExpectExec(insertQuery).
				WithArgs(sqlmock.AnyArg(), reservationID, string(typ), start.Add(-typ.Offset()), now).
				WillReturnResult(sqlmock.NewResult(1, 1))
		}

		got, err := a.Schedule(t.Context(), db, reservationID, start, now)
		require.NoError(t, err)
		assert.Len(t, got, 3)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("schedule too close to start inserts nothing", func(t *testing.T) {
		got, err := a.Schedule(t.Context(), db, reservationID, now.Add(5*time.Minute), now)
		require.NoError(t, err)
		assert.Empty(t, got)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("cancel pending", func(t *testing.T) {
		dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reminders WHERE reservation_id = $1 AND is_sent = FALSE`)).
			WithArgs(reservationID).
			WillReturnResult(sqlmock.NewResult(0, 2))

		require.NoError(t, a.CancelPending(t.Context(), db, reservationID))
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("mark sent", func(t *testing.T) {
		id := uuid.New()
		markQuery := regexp.QuoteMeta(`UPDATE reminders SET is_sent = TRUE, sent_at = $1 WHERE id = $2 AND is_sent = FALSE`)
		dbMock.ExpectExec(markQuery).WithArgs(now, id).WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectExec(markQuery).WithArgs(now, id).WillReturnResult(sqlmock.NewResult(0, 0))

		claimed, err := a.MarkSent(t.Context(), id, now)
		require.NoError(t, err)
		assert.True(t, claimed)

		claimed, err = a.MarkSent(t.Context(), id, now)
		require.NoError(t, err)
		assert.False(t, claimed)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("admin listing filters", func(t *testing.T) {
		sent := false
		listQuery := `SELECT rm.id, rm.reservation_id, rm.reminder_type, rm.remind_at, rm.is_sent, rm.sent_at, rm.created_at FROM reminders rm JOIN reservations r ON r.id = rm.reservation_id WHERE rm.reminder_type = $1 AND rm.is_sent = $2 ORDER BY rm.remind_at DESC`
		rows := sqlmock.NewRows([]string{"id", "reservation_id", "reminder_type", "remind_at", "is_sent", "sent_at", "created_at"}).
			AddRow(uuid.NewString(), reservationID.String(), "1h", now, false, nil, now)
		dbMock.ExpectQuery(regexp.QuoteMeta(listQuery)).WithArgs("1h", false).WillReturnRows(rows)

		got, err := a.GetReminders(t.Context(), Filter{Type: Type1h, Sent: &sent})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, Type1h, got[0].Type)
		assert.Nil(t, got[0].SentAt)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestSweep(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()
	reservationID := uuid.New()
	start := now.Add(time.Hour)

	dueQuery := regexp.QuoteMeta(`SELECT rm.id, rm.reservation_id, rm.reminder_type, rm.remind_at, r.user_id, r.title, r.start_time, ro.name FROM reminders rm JOIN reservations r ON r.id = rm.reservation_id JOIN rooms ro ON ro.id = r.room_id WHERE rm.is_sent = FALSE AND rm.remind_at <= $1 AND r.status = 'confirmed' ORDER BY rm.remind_at`)
	markQuery := regexp.QuoteMeta(`UPDATE reminders SET is_sent = TRUE, sent_at = $1 WHERE id = $2 AND is_sent = FALSE`)
	dueColumns := []string{"id", "reservation_id", "reminder_type", "remind_at", "user_id", "title", "start_time", "name"}

	t.Run("sends claimed reminders once", func(t *testing.T) {
		notifier := new(MockNotifier)
		s := NewSweeper(NewAccessor(db), notifier, time.UTC)

		first, second := uuid.New(), uuid.New()
		dbMock.ExpectQuery(dueQuery).WithArgs(now).WillReturnRows(sqlmock.NewRows(dueColumns).
			AddRow(first.String(), reservationID.String(), "24h", now.Add(-23*time.Hour), userID.String(), "Standup", start, "Board Room").
			AddRow(second.String(), reservationID.String(), "1h", now, userID.String(), "Standup", start, "Board Room"))
		dbMock.ExpectExec(markQuery).WithArgs(now, first).WillReturnResult(sqlmock.NewResult(0, 1))
		// a concurrent sweep already claimed the second one
		dbMock.ExpectExec(markQuery).WithArgs(now, second).WillReturnResult(sqlmock.NewResult(0, 0))

		notifier.On("Notify", testifymock.Anything, testifymock.MatchedBy(func(msg notification.Message) bool {
			return msg.UserID == userID &&
				msg.ReservationID == reservationID &&
				msg.Type == notification.TypeReservationReminder &&
				msg.Text == `Reminder: your reservation "Standup" in Board Room starts in 24 hours, at 2030-01-10 10:00 UTC.`
		})).Return().Once()

		result, err := s.Sweep(t.Context(), now)
		require.NoError(t, err)
		assert.Equal(t, SweepResult{Due: 2, Sent: 1, Skipped: 1}, result)

		notifier.AssertExpectations(t)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("nothing due", func(t *testing.T) {
		notifier := new(MockNotifier)
		s := NewSweeper(NewAccessor(db), notifier, nil)

		dbMock.ExpectQuery(dueQuery).WithArgs(now).WillReturnRows(sqlmock.NewRows(dueColumns))

		result, err := s.Sweep(t.Context(), now)
		require.NoError(t, err)
		assert.Equal(t, SweepResult{}, result)
		notifier.AssertNotCalled(t, "Notify", testifymock.Anything, testifymock.Anything)
	})

	t.Run("store failure aborts", func(t *testing.T) {
		s := NewSweeper(NewAccessor(db), new(MockNotifier), time.UTC)
		dbMock.ExpectQuery(dueQuery).WillReturnError(sql.ErrConnDone)

		_, err := s.Sweep(t.Context(), now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "get due reminders")
	})

	t.Run("mark failure skips without notifying", func(t *testing.T) {
		notifier := new(MockNotifier)
		s := NewSweeper(NewAccessor(db), notifier, time.UTC)

		id := uuid.New()
		dbMock.ExpectQuery(dueQuery).WithArgs(now).WillReturnRows(sqlmock.NewRows(dueColumns).
			AddRow(id.String(), reservationID.String(), "15m", now, userID.String(), "Standup", start, "Board Room"))
		dbMock.ExpectExec(markQuery).WithArgs(now, id).WillReturnError(sql.ErrConnDone)

		result, err := s.Sweep(t.Context(), now)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		notifier.AssertNotCalled(t, "Notify", testifymock.Anything, testifymock.Anything)
	})
}
