package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"room-booking/mailer"
	"room-booking/notification"
	"room-booking/reminder"
	"room-booking/reservation"
	"room-booking/user"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type API struct {
	router *mux.Router
	db     *sql.DB
	mailer mailer.Mailer
	loc    *time.Location
	now    func() time.Time
}

func NewAPI(db *sql.DB, m mailer.Mailer, loc *time.Location) *API {
	r := mux.NewRouter()
	r = r.PathPrefix("/api").Subrouter()
	if loc == nil {
		loc = time.UTC
	}
	return &API{
		router: r,
		db:     db,
		mailer: m,
		loc:    loc,
		now:    time.Now,
	}
}

func (a *API) Router() *mux.Router {
	return a.router
}

func (a *API) Handler() http.Handler {
	// Use Gorilla's built-in logging and recovery handlers
	recovery := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))
	return handlers.LoggingHandler(os.Stdout, recovery(a.router))
}

type Response struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

func (a *API) Response(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{
		Status:   status,
		Response: data,
	})
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (a *API) RegisterRoutes() {
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)
	a.router.HandleFunc("/users", a.createUser).Methods(http.MethodPost)

	admin := a.router.PathPrefix("/admin").Subrouter()
	admin.Use(a.authenticate, a.requireAdmin)
	admin.HandleFunc("/dashboard", a.getDashboard).Methods(http.MethodGet)
	admin.HandleFunc("/users", a.adminCreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/rooms", a.getAdminRooms).Methods(http.MethodGet)
	admin.HandleFunc("/rooms", a.createRoom).Methods(http.MethodPost)
	admin.HandleFunc("/rooms/{id}", a.updateRoom).Methods(http.MethodPut)
	admin.HandleFunc("/reservations", a.getAdminReservations).Methods(http.MethodGet)
	admin.HandleFunc("/reservations", a.adminCreateReservation).Methods(http.MethodPost)
	admin.HandleFunc("/reservations/{id}/cancel", a.adminCancelReservation).Methods(http.MethodPost)
	admin.HandleFunc("/reminders", a.getAdminReminders).Methods(http.MethodGet)

	authed := a.router.NewRoute().Subrouter()
	authed.Use(a.authenticate)
	authed.Handle("/users", a.requireAdmin(http.HandlerFunc(a.getUsers))).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id}", a.getUser).Methods(http.MethodGet)
	authed.HandleFunc("/rooms", a.getRooms).Methods(http.MethodGet)
	authed.HandleFunc("/rooms/{id}", a.getRoom).Methods(http.MethodGet)
	authed.HandleFunc("/rooms/{id}/availability", a.getRoomAvailability).Methods(http.MethodGet)
	authed.HandleFunc("/reservations", a.createReservation).Methods(http.MethodPost)
	authed.HandleFunc("/reservations", a.getReservations).Methods(http.MethodGet)
	authed.HandleFunc("/reservations/{id}", a.getReservation).Methods(http.MethodGet)
	authed.HandleFunc("/reservations/{id}", a.updateReservation).Methods(http.MethodPut)
	authed.HandleFunc("/reservations/{id}/confirm", a.confirmReservation).Methods(http.MethodPost)
	authed.HandleFunc("/reservations/{id}/cancel", a.cancelReservation).Methods(http.MethodPost)
	authed.HandleFunc("/notifications", a.getNotifications).Methods(http.MethodGet)
	authed.HandleFunc("/reminders", a.getReminders).Methods(http.MethodGet)
}

func (a *API) notifier() *notification.Notifier {
	return notification.NewNotifier(notification.NewAccessor(a.db), user.NewAccessor(a.db), a.mailer)
}

func (a *API) reservations() *reservation.Accessor {
	return reservation.NewAccessor(a.db, reminder.NewAccessor(a.db), a.notifier(), a.loc)
}
