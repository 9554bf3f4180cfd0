package api

import (
	"net/http"

	"room-booking/notification"

	"github.com/google/uuid"
)

type notificationResponse struct {
	ID            string `json:"id"`
	ReservationID string `json:"reservation_id"`
	Type          string `json:"notification_type"`
	Message       string `json:"message"`
	IsRead        bool   `json:"is_read"`
	CreatedAt     int64  `json:"created_at"`
}

type getNotificationsResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
}

// getNotifications lists the caller's notifications, newest first, and marks
// the listed ones read. Each entry keeps the read flag it had before the call.
func (a *API) getNotifications(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r)
	notificationAccessor := notification.NewAccessor(a.db)

	list, err := notificationAccessor.GetNotifications(r.Context(), caller.ID)
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}

	var unread []uuid.UUID
	for _, n := range list {
		if !n.IsRead {
			unread = append(unread, n.ID)
		}
	}
	if _, err := notificationAccessor.MarkRead(r.Context(), caller.ID, unread); err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]notificationResponse, len(list))
	for i, n := range list {
		out[i] = notificationResponse{
			ID:            n.ID.String(),
			ReservationID: n.ReservationID.String(),
			Type:          string(n.Type),
			Message:       n.Message,
			IsRead:        n.IsRead,
			CreatedAt:     n.CreatedAt.Unix(),
		}
	}
	a.Response(w, http.StatusOK, getNotificationsResponse{Notifications: out, Unread: len(unread)})
}
