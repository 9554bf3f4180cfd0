package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"room-booking/reservation"
	"room-booking/room"

	"github.com/google/uuid"
)

type roomResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Capacity    int      `json:"capacity"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
	IsActive    bool     `json:"is_active"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
}

func toRoomResponse(rm room.Room) roomResponse {
	amenities := rm.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return roomResponse{
		ID:          rm.ID.String(),
		Name:        rm.Name,
		Capacity:    rm.Capacity,
		Location:    rm.Location,
		Description: rm.Description,
		Amenities:   amenities,
		IsActive:    rm.IsActive,
		CreatedAt:   rm.CreatedAt.Unix(),
		UpdatedAt:   rm.UpdatedAt.Unix(),
	}
}

func toRoomResponses(rooms []room.Room) []roomResponse {
	out := make([]roomResponse, len(rooms))
	for i, rm := range rooms {
		out[i] = toRoomResponse(rm)
	}
	return out
}

type getRoomsResponse struct {
	Rooms []roomResponse `json:"rooms"`
}

// getRooms lists active rooms. With start_time and end_time it keeps only
// rooms free for that whole interval.
func (a *API) getRooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter room.Filter
	filter.ActiveOnly = true
	if raw := q.Get("capacity"); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil || capacity < 0 {
			a.Response(w, http.StatusBadRequest, "invalid capacity")
			return
		}
		filter.MinCapacity = capacity
	}
	in, hasInterval, err := queryInterval(q)
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	roomAccessor := room.NewAccessor(a.db)
	rooms, err := roomAccessor.GetRooms(r.Context(), filter)
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	if hasInterval {
		rooms, err = roomAccessor.AvailableRooms(r.Context(), rooms, in)
		if err != nil {
			a.Response(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	a.Response(w, http.StatusOK, getRoomsResponse{Rooms: toRoomResponses(rooms)})
}

func (a *API) getRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid room ID")
		return
	}

	rm, err := room.NewAccessor(a.db).GetRoom(r.Context(), id)
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rm == nil || (!rm.IsActive && !currentUser(r).IsAdmin) {
		a.Response(w, http.StatusNotFound, "room not found")
		return
	}

	// Next confirmed bookings, so callers can see when the room is busy.
	upcoming, err := a.reservations().GetReservations(r.Context(), reservation.Filter{
		RoomID:      &rm.ID,
		Status:      reservation.StatusConfirmed,
		StartsAfter: a.now(),
		Limit:       10,
	})
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := map[string]any{
		"room":                  toRoomResponse(*rm),
		"upcoming_reservations": toReservationResponses(upcoming),
	}
	a.Response(w, http.StatusOK, response)
}

func (a *API) getRoomAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid room ID")
		return
	}
	in, ok, err := queryInterval(r.URL.Query())
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}
	if !ok {
		a.Response(w, http.StatusBadRequest, "start_time and end_time are required")
		return
	}

	roomAccessor := room.NewAccessor(a.db)
	rm, err := roomAccessor.GetRoom(r.Context(), id)
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rm == nil {
		a.Response(w, http.StatusNotFound, "room not found")
		return
	}

	available, err := roomAccessor.IsAvailable(r.Context(), rm.ID, in, uuid.Nil)
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := map[string]any{
		"room_id":    rm.ID.String(),
		"start_time": in.Start.Unix(),
		"end_time":   in.End.Unix(),
		"available":  available && rm.IsActive,
	}
	a.Response(w, http.StatusOK, response)
}

func (a *API) getAdminRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := room.NewAccessor(a.db).GetRooms(r.Context(), room.Filter{})
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.Response(w, http.StatusOK, getRoomsResponse{Rooms: toRoomResponses(rooms)})
}

type roomRequest struct {
	Name        string   `json:"name"`
	Capacity    int      `json:"capacity"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
	IsActive    *bool    `json:"is_active"`
}

func (req roomRequest) apply(rm *room.Room) {
	rm.Name = req.Name
	rm.Capacity = req.Capacity
	rm.Location = req.Location
	rm.Description = req.Description
	rm.Amenities = req.Amenities
	if req.IsActive != nil {
		rm.IsActive = *req.IsActive
	}
}

func (a *API) createRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload := room.Room{IsActive: true}
	req.apply(&payload)
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Sprintf("validate: %v", err))
		return
	}

	created, err := room.NewAccessor(a.db).CreateRoom(r.Context(), payload, a.now())
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusCreated, toRoomResponse(*created))
}

func (a *API) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid room ID")
		return
	}

	roomAccessor := room.NewAccessor(a.db)
	existing, err := roomAccessor.GetRoom(r.Context(), id)
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil {
		a.Response(w, http.StatusNotFound, "room not found")
		return
	}

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload := *existing
	req.apply(&payload)
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Sprintf("validate: %v", err))
		return
	}

	updated, err := roomAccessor.UpdateRoom(r.Context(), payload, a.now())
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			a.Response(w, http.StatusNotFound, "room not found")
			return
		}
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusOK, toRoomResponse(*updated))
}
