package adminapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/annamworks/caterbook/internal/booking"
	"github.com/annamworks/caterbook/internal/webserver"
	"github.com/annamworks/caterbook/pkg/common"
)

// registerEventRoutes registers event API routes
func registerEventRoutes() {
	webserver.ApiGET("/events", ListEvents)
	webserver.ApiGET("/events/stats/dashboard", GetDashboardStats)
	webserver.ApiPOST("/events/search", SearchEvents)
	webserver.ApiGET("/events/:id", GetEvent)
	webserver.ApiPOST("/events", CreateEvent)
	webserver.ApiPUT("/events/:id", UpdateEvent)
	webserver.ApiDELETE("/events/:id", DeleteEvent)
}

func parseEventID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// dateRangeParams reads the optional date_from/date_to query params.
func dateRangeParams(c echo.Context) (from, to *time.Time, err error) {
	if v := strings.TrimSpace(c.QueryParam("date_from")); v != "" {
		day, perr := common.ParseDay(v)
		if perr != nil {
			return nil, nil, fmt.Errorf("invalid date_from: %s", v)
		}
		from = &day
	}
	if v := strings.TrimSpace(c.QueryParam("date_to")); v != "" {
		day, perr := common.ParseDay(v)
		if perr != nil {
			return nil, nil, fmt.Errorf("invalid date_to: %s", v)
		}
		to = &day
	}
	return from, to, nil
}

// ListEvents returns non-cancelled events, optionally filtered by an
// inclusive date range and event type, ordered by date then time.
func ListEvents(c echo.Context) error {
	from, to, err := dateRangeParams(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	events, err := GetAppContext(c).Booking().List(booking.ListFilter{
		From:      from,
		To:        to,
		EventType: strings.TrimSpace(c.QueryParam("event_type")),
	})
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, events, "Events fetched successfully")
}

// GetEvent returns one event by id, cancelled included.
func GetEvent(c echo.Context) error {
	id, err := parseEventID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid event ID")
	}
	event, err := GetAppContext(c).Booking().Get(id)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, event, "Event fetched successfully")
}

// CreateEvent books a new event after validation and the
// double-booking check.
func CreateEvent(c echo.Context) error {
	var payload booking.CreateInput
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse request parameters")
	}
	event, err := GetAppContext(c).Booking().Create(payload)
	if err != nil {
		return failFromService(c, err)
	}
	return created(c, event, "Event created successfully")
}

// UpdateEvent applies a partial update; the double-booking check
// re-runs only when date or time changed.
func UpdateEvent(c echo.Context) error {
	id, err := parseEventID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid event ID")
	}
	var payload booking.UpdateInput
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse request parameters")
	}
	event, err := GetAppContext(c).Booking().Update(id, payload)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, event, "Event updated successfully")
}

// DeleteEvent soft-deletes: the event is marked cancelled, never
// removed.
func DeleteEvent(c echo.Context) error {
	id, err := parseEventID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid event ID")
	}
	event, err := GetAppContext(c).Booking().Cancel(id)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, map[string]interface{}{
		"id":           strconv.FormatInt(event.ID, 10),
		"is_cancelled": true,
	}, "Event cancelled successfully")
}

// GetDashboardStats aggregates active events over the optional range.
func GetDashboardStats(c echo.Context) error {
	from, to, err := dateRangeParams(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	stat, err := GetAppContext(c).Booking().Dashboard(from, to, time.Now())
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, stat, "Dashboard stats fetched successfully")
}

type searchPayload struct {
	Query string `json:"query"`
}

// SearchEvents runs a free-text search over active events.
func SearchEvents(c echo.Context) error {
	var payload searchPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse request parameters")
	}
	events, err := GetAppContext(c).Booking().Search(payload.Query)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, events, fmt.Sprintf("Found %d matching events", len(events)))
}
