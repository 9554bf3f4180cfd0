package api

import (
	"context"
	"net/http"

	"room-booking/user"

	"github.com/google/uuid"
)

// UserHeader carries the caller's user id.
const UserHeader = "X-User-ID"

type contextKey int

const userKey contextKey = iota

func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserHeader)
		if raw == "" {
			a.Response(w, http.StatusUnauthorized, UserHeader+" header is required")
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			a.Response(w, http.StatusUnauthorized, "invalid user ID")
			return
		}

		u, err := user.NewAccessor(a.db).GetUser(r.Context(), id)
		if err != nil {
			a.Response(w, http.StatusInternalServerError, err.Error())
			return
		}
		if u == nil {
			a.Response(w, http.StatusUnauthorized, "unknown user")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

// requireAdmin must run after authenticate.
func (a *API) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		if u == nil || !u.IsAdmin {
			a.Response(w, http.StatusForbidden, "administrator access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) *user.User {
	u, _ := r.Context().Value(userKey).(*user.User)
	return u
}
