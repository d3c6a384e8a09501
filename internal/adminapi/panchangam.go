package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/annamworks/caterbook/internal/webserver"
	"github.com/annamworks/caterbook/pkg/common"
)

// registerPanchangamRoutes registers the read-only calendar routes.
func registerPanchangamRoutes() {
	webserver.ApiGET("/panchangam/range", GetPanchangamRange)
	webserver.ApiGET("/panchangam/auspicious-days", GetAuspiciousDays)
	webserver.ApiGET("/panchangam/date/:date", GetPanchangamForDate)
	webserver.ApiGET("/panchangam/suggestions/:eventDate/:eventType", GetPanchangamSuggestions)
	webserver.ApiPOST("/panchangam/refresh", RefreshPanchangam)
}

// requiredRangeParams reads the mandatory date_from/date_to params.
func requiredRangeParams(c echo.Context) (start, end time.Time, errMsg string) {
	fromStr := strings.TrimSpace(c.QueryParam("date_from"))
	toStr := strings.TrimSpace(c.QueryParam("date_to"))
	if fromStr == "" || toStr == "" {
		return start, end, "date_from and date_to query parameters are required"
	}
	start, err := common.ParseDay(fromStr)
	if err != nil {
		return start, end, "invalid date_from: " + fromStr
	}
	end, err = common.ParseDay(toStr)
	if err != nil {
		return start, end, "invalid date_to: " + toStr
	}
	return start, end, ""
}

// GetPanchangamRange returns stored calendar days for the range, raw
// source payloads stripped.
func GetPanchangamRange(c echo.Context) error {
	start, end, errMsg := requiredRangeParams(c)
	if errMsg != "" {
		return fail(c, http.StatusBadRequest, errMsg)
	}
	days, err := GetAppContext(c).Panchangam().Range(start, end)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, days, "Panchangam data fetched successfully")
}

// GetPanchangamForDate returns the stored day or 404.
func GetPanchangamForDate(c echo.Context) error {
	date, err := common.ParseDay(c.Param("date"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid date")
	}
	day, err := GetAppContext(c).Panchangam().ByDate(date)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, day, "Panchangam data fetched successfully")
}

// GetAuspiciousDays returns marriage-auspicious days in the range.
func GetAuspiciousDays(c echo.Context) error {
	start, end, errMsg := requiredRangeParams(c)
	if errMsg != "" {
		return fail(c, http.StatusBadRequest, errMsg)
	}
	days, err := GetAppContext(c).Panchangam().AuspiciousDays(start, end)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, days, "Auspicious days fetched successfully")
}

// GetPanchangamSuggestions builds the advisory payload for a proposed
// event date and type. A date with no stored data answers with an
// empty payload, not an error.
func GetPanchangamSuggestions(c echo.Context) error {
	date, err := common.ParseDay(c.Param("eventDate"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid event date")
	}
	suggestions, err := GetAppContext(c).Panchangam().Suggest(date, c.Param("eventType"))
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, suggestions, "Panchangam suggestions fetched")
}

// RefreshPanchangam triggers the ingestion pipeline on demand,
// outside the daily schedule.
func RefreshPanchangam(c echo.Context) error {
	count, err := GetAppContext(c).Panchangam().FetchAndStore()
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, map[string]interface{}{"days": count}, "Panchangam data refreshed")
}
