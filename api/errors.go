package api

import (
	"errors"
	"log"
	"net/http"

	"room-booking/reservation"
	"room-booking/room"
	"room-booking/user"
)

// fieldError is the payload for errors tied to one request field.
type fieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Error maps domain errors onto HTTP statuses.
func (a *API) Error(w http.ResponseWriter, err error) {
	var verr *reservation.ValidationError
	switch {
	case reservation.IsConflict(err):
		errors.As(err, &verr)
		a.Response(w, http.StatusConflict, verr)
	case errors.As(err, &verr):
		a.Response(w, http.StatusBadRequest, verr)
	case errors.Is(err, room.ErrDuplicateName):
		a.Response(w, http.StatusBadRequest, fieldError{Field: "name", Error: err.Error()})
	case errors.Is(err, user.ErrDuplicateEmail):
		a.Response(w, http.StatusBadRequest, fieldError{Field: "email", Error: err.Error()})
	case errors.Is(err, reservation.ErrUserNotFound):
		a.Response(w, http.StatusBadRequest, fieldError{Field: "user_id", Error: err.Error()})
	case errors.Is(err, room.ErrNotFound):
		a.Response(w, http.StatusBadRequest, fieldError{Field: "room_id", Error: err.Error()})
	case errors.Is(err, reservation.ErrNotFound):
		a.Response(w, http.StatusNotFound, err.Error())
	case errors.Is(err, reservation.ErrAlreadyCancelled), errors.Is(err, reservation.ErrInvalidTransition):
		a.Response(w, http.StatusConflict, err.Error())
	default:
		log.Printf("api: %v", err)
		a.Response(w, http.StatusInternalServerError, err.Error())
	}
}
