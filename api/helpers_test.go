package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"room-booking/api"
	"room-booking/mailer"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	selectUserQuery = regexp.QuoteMeta(`SELECT id, name, email, is_admin FROM users WHERE id = $1`)
	userColumns     = []string{"id", "name", "email", "is_admin"}
	roomColumns     = []string{"id", "name", "capacity", "location", "description", "amenities", "is_active", "created_at", "updated_at"}
	resColumns      = []string{"id", "room_id", "user_id", "title", "description", "start_time", "end_time", "status", "created_by_admin", "created_at", "updated_at", "name"}
)

func setupAPI(t *testing.T) (*api.API, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := api.NewAPI(db, mailer.NewLogMailer(log.New(io.Discard, "", 0)), time.UTC)
	a.RegisterRoutes()
	return a, dbMock
}

// expectCaller mocks the user lookup done by the authentication middleware.
func expectCaller(dbMock sqlmock.Sqlmock, id uuid.UUID, admin bool) {
	dbMock.ExpectQuery(selectUserQuery).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(id.String(), "Ada", "ada@example.com", admin))
}

func doRequest(t *testing.T, a *api.API, method, target string, caller uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != uuid.Nil {
		req.Header.Set(api.UserHeader, caller.String())
	}
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var res api.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	require.Equal(t, rec.Code, res.Status)
	obj, ok := res.Response.(map[string]any)
	require.True(t, ok, "response is %T", res.Response)
	return obj
}
