package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"room-booking/room"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func pathID(r *http.Request) (uuid.UUID, error) {
	id := mux.Vars(r)["id"]
	if id == "" {
		return uuid.Nil, errors.New("ID is required")
	}
	return uuid.Parse(id)
}

func epoch(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// queryInterval reads start_time and end_time epoch seconds from q. It
// reports false when neither is present.
func queryInterval(q url.Values) (room.Interval, bool, error) {
	rawStart, rawEnd := q.Get("start_time"), q.Get("end_time")
	if rawStart == "" && rawEnd == "" {
		return room.Interval{}, false, nil
	}

	start, err := strconv.ParseInt(rawStart, 10, 64)
	if err != nil {
		return room.Interval{}, true, fmt.Errorf("invalid start_time %q", rawStart)
	}
	end, err := strconv.ParseInt(rawEnd, 10, 64)
	if err != nil {
		return room.Interval{}, true, fmt.Errorf("invalid end_time %q", rawEnd)
	}

	in := room.Interval{Start: epoch(start), End: epoch(end)}
	if err := in.Validate(); err != nil {
		return room.Interval{}, true, err
	}
	return in, true, nil
}

func queryUUID(q url.Values, key string) (*uuid.UUID, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &id, nil
}
