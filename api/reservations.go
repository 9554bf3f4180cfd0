package api

import (
	"encoding/json"
	"net/http"

	"room-booking/reservation"
	"room-booking/user"

	"github.com/google/uuid"
)

// reservationResponse is the API DTO with int64 epoch timestamps
type reservationResponse struct {
	ID             string `json:"id"`
	RoomID         string `json:"room_id"`
	RoomName       string `json:"room_name"`
	UserID         string `json:"user_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	StartTime      int64  `json:"start_time"`
	EndTime        int64  `json:"end_time"`
	Status         string `json:"status"`
	CreatedByAdmin bool   `json:"created_by_admin"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
}

func toReservationResponse(res reservation.Reservation) reservationResponse {
	return reservationResponse{
		ID:             res.ID.String(),
		RoomID:         res.RoomID.String(),
		RoomName:       res.RoomName,
		UserID:         res.UserID.String(),
		Title:          res.Title,
		Description:    res.Description,
		StartTime:      res.StartTime.Unix(),
		EndTime:        res.EndTime.Unix(),
		Status:         string(res.Status),
		CreatedByAdmin: res.CreatedByAdmin,
		CreatedAt:      res.CreatedAt.Unix(),
		UpdatedAt:      res.UpdatedAt.Unix(),
	}
}

func toReservationResponses(list []reservation.Reservation) []reservationResponse {
	out := make([]reservationResponse, len(list))
	for i, res := range list {
		out[i] = toReservationResponse(res)
	}
	return out
}

type getReservationsResponse struct {
	Reservations []reservationResponse `json:"reservations"`
}

// createReservationRequest accepts int64 epoch timestamps
type createReservationRequest struct {
	RoomID      string `json:"room_id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   int64  `json:"start_time"`
	EndTime     int64  `json:"end_time"`
	Status      string `json:"status"`
}

func (req createReservationRequest) toReservation() (reservation.Reservation, error) {
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return reservation.Reservation{}, &reservation.ValidationError{Field: "room_id", Message: "invalid room ID"}
	}
	return reservation.Reservation{
		RoomID:      roomID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   epoch(req.StartTime),
		EndTime:     epoch(req.EndTime),
		Status:      reservation.Status(req.Status),
	}, nil
}

func (a *API) createReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload, err := req.toReservation()
	if err != nil {
		a.Error(w, err)
		return
	}
	payload.UserID = currentUser(r).ID

	created, err := a.reservations().CreateReservation(r.Context(), payload, a.now())
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusCreated, toReservationResponse(*created))
}

func (a *API) getReservations(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r)
	filter := reservation.Filter{UserID: &caller.ID}
	if raw := r.URL.Query().Get("status"); raw != "" {
		filter.Status = reservation.Status(raw)
		if !filter.Status.Valid() {
			a.Response(w, http.StatusBadRequest, "invalid status")
			return
		}
	}

	list, err := a.reservations().GetReservations(r.Context(), filter)
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.Response(w, http.StatusOK, getReservationsResponse{Reservations: toReservationResponses(list)})
}

// ownedReservation loads the reservation named in the path. Other users'
// reservations are reported as missing; admins may read any.
func (a *API) ownedReservation(w http.ResponseWriter, r *http.Request, allowAdmin bool) (*reservation.Reservation, bool) {
	id, err := pathID(r)
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid reservation ID")
		return nil, false
	}

	res, err := a.reservations().GetReservation(r.Context(), id)
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if res == nil || !canAccess(currentUser(r), res, allowAdmin) {
		a.Response(w, http.StatusNotFound, "reservation not found")
		return nil, false
	}
	return res, true
}

func canAccess(u *user.User, res *reservation.Reservation, allowAdmin bool) bool {
	if u == nil {
		return false
	}
	return res.UserID == u.ID || (allowAdmin && u.IsAdmin)
}

func (a *API) getReservation(w http.ResponseWriter, r *http.Request) {
	res, ok := a.ownedReservation(w, r, true)
	if !ok {
		return
	}

	response := map[string]any{
		"reservation": toReservationResponse(*res),
		"is_past":     res.IsPast(a.now()),
		"is_current":  res.IsCurrent(a.now()),
	}
	a.Response(w, http.StatusOK, response)
}

type updateReservationRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   int64  `json:"start_time"`
	EndTime     int64  `json:"end_time"`
}

func (a *API) updateReservation(w http.ResponseWriter, r *http.Request) {
	res, ok := a.ownedReservation(w, r, false)
	if !ok {
		return
	}

	var req updateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := a.reservations().UpdateReservation(r.Context(), res.ID, reservation.Changes{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   epoch(req.StartTime),
		EndTime:     epoch(req.EndTime),
	}, a.now())
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusOK, toReservationResponse(*updated))
}

func (a *API) confirmReservation(w http.ResponseWriter, r *http.Request) {
	res, ok := a.ownedReservation(w, r, false)
	if !ok {
		return
	}

	confirmed, err := a.reservations().ConfirmReservation(r.Context(), res.ID, a.now())
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusOK, toReservationResponse(*confirmed))
}

func (a *API) cancelReservation(w http.ResponseWriter, r *http.Request) {
	res, ok := a.ownedReservation(w, r, false)
	if !ok {
		return
	}

	cancelled, err := a.reservations().CancelReservation(r.Context(), res.ID, a.now())
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusOK, toReservationResponse(*cancelled))
}

func (a *API) getAdminReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter reservation.Filter
	if raw := q.Get("status"); raw != "" {
		filter.Status = reservation.Status(raw)
		if !filter.Status.Valid() {
			a.Response(w, http.StatusBadRequest, "invalid status")
			return
		}
	}
	var err error
	if filter.UserID, err = queryUUID(q, "user_id"); err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.RoomID, err = queryUUID(q, "room_id"); err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := a.reservations().GetReservations(r.Context(), filter)
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.Response(w, http.StatusOK, getReservationsResponse{Reservations: toReservationResponses(list)})
}

// adminCreateReservation books a room on behalf of user_id.
func (a *API) adminCreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload, err := req.toReservation()
	if err != nil {
		a.Error(w, err)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		a.Error(w, &reservation.ValidationError{Field: "user_id", Message: "invalid user ID"})
		return
	}
	payload.UserID = userID
	payload.CreatedByAdmin = true

	created, err := a.reservations().CreateReservation(r.Context(), payload, a.now())
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusCreated, toReservationResponse(*created))
}

func (a *API) adminCancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid reservation ID")
		return
	}

	cancelled, err := a.reservations().AdminCancelReservation(r.Context(), id, a.now())
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusOK, toReservationResponse(*cancelled))
}
