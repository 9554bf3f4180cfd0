package api

import (
	"net/http"
	"strconv"

	"room-booking/reminder"
)

type reminderResponse struct {
	ID            string `json:"id"`
	ReservationID string `json:"reservation_id"`
	Type          string `json:"reminder_type"`
	RemindAt      int64  `json:"remind_at"`
	IsSent        bool   `json:"is_sent"`
	SentAt        *int64 `json:"sent_at"`
}

type getRemindersResponse struct {
	Reminders []reminderResponse `json:"reminders"`
}

func toReminderResponses(list []reminder.Reminder) []reminderResponse {
	out := make([]reminderResponse, len(list))
	for i, rm := range list {
		out[i] = reminderResponse{
			ID:            rm.ID.String(),
			ReservationID: rm.ReservationID.String(),
			Type:          string(rm.Type),
			RemindAt:      rm.RemindAt.Unix(),
			IsSent:        rm.IsSent,
		}
		if rm.SentAt != nil {
			sent := rm.SentAt.Unix()
			out[i].SentAt = &sent
		}
	}
	return out
}

func (a *API) getReminders(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r)
	list, err := reminder.NewAccessor(a.db).GetReminders(r.Context(), reminder.Filter{UserID: &caller.ID})
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.Response(w, http.StatusOK, getRemindersResponse{Reminders: toReminderResponses(list)})
}

// getAdminReminders lists every reminder, optionally filtered by type and
// sent flag.
func (a *API) getAdminReminders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter reminder.Filter
	if raw := q.Get("type"); raw != "" {
		filter.Type = reminder.Type(raw)
		if !filter.Type.Valid() {
			a.Response(w, http.StatusBadRequest, "invalid reminder type")
			return
		}
	}
	if raw := q.Get("sent"); raw != "" {
		sent, err := strconv.ParseBool(raw)
		if err != nil {
			a.Response(w, http.StatusBadRequest, "invalid sent flag")
			return
		}
		filter.Sent = &sent
	}

	list, err := reminder.NewAccessor(a.db).GetReminders(r.Context(), filter)
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.Response(w, http.StatusOK, getRemindersResponse{Reminders: toReminderResponses(list)})
}
