package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"room-booking/user"
)

type createUserRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// createUser registers a regular user. The very first user becomes the
// administrator so a fresh install can be bootstrapped.
func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload := user.User{Name: req.Name, Email: req.Email}
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Sprintf("validate: %v", err))
		return
	}

	created, err := user.NewAccessor(a.db).RegisterUser(r.Context(), payload)
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusCreated, created)
}

func (a *API) adminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload := user.User{Name: req.Name, Email: req.Email, IsAdmin: req.IsAdmin}
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Sprintf("validate: %v", err))
		return
	}

	created, err := user.NewAccessor(a.db).CreateUser(r.Context(), payload)
	if err != nil {
		a.Error(w, err)
		return
	}
	a.Response(w, http.StatusCreated, created)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	u, err := user.NewAccessor(a.db).GetUser(r.Context(), id)
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	if caller := currentUser(r); u == nil || (u.ID != caller.ID && !caller.IsAdmin) {
		a.Response(w, http.StatusNotFound, "user not found")
		return
	}

	a.Response(w, http.StatusOK, u)
}

type getUsersResponse struct {
	Users []user.User `json:"users"`
}

func (a *API) getUsers(w http.ResponseWriter, r *http.Request) {
	userAccessor := user.NewAccessor(a.db)
	users, err := userAccessor.GetUsers(r.Context())
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	response := getUsersResponse{
		Users: users,
	}
	a.Response(w, http.StatusOK, response)
}
