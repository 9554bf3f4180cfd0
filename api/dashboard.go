package api

import (
	"net/http"

	"room-booking/reservation"
	"room-booking/room"
	"room-booking/user"
)

type dashboardResponse struct {
	TotalUsers           int                   `json:"total_users"`
	ActiveRooms          int                   `json:"active_rooms"`
	TotalReservations    int                   `json:"total_reservations"`
	ConfirmedBookings    int                   `json:"confirmed_reservations"`
	PendingBookings      int                   `json:"pending_reservations"`
	UpcomingReservations []reservationResponse `json:"upcoming_reservations"`
}

func (a *API) getDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		resp dashboardResponse
		err  error
	)

	if resp.TotalUsers, err = user.NewAccessor(a.db).CountUsers(ctx); err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp.ActiveRooms, err = room.NewAccessor(a.db).CountActiveRooms(ctx); err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}

	reservations := a.reservations()
	if resp.TotalReservations, err = reservations.CountReservations(ctx, ""); err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp.ConfirmedBookings, err = reservations.CountReservations(ctx, reservation.StatusConfirmed); err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp.PendingBookings, err = reservations.CountReservations(ctx, reservation.StatusPending); err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}

	upcoming, err := reservations.GetReservations(ctx, reservation.Filter{
		Status:      reservation.StatusConfirmed,
		StartsAfter: a.now(),
		Limit:       10,
	})
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp.UpcomingReservations = toReservationResponses(upcoming)

	a.Response(w, http.StatusOK, resp)
}
