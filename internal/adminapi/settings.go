package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/annamworks/caterbook/internal/domain"
	"github.com/annamworks/caterbook/internal/webserver"
	"github.com/annamworks/caterbook/pkg/common"
)

// registerSettingsRoutes registers settings API routes
func registerSettingsRoutes() {
	webserver.ApiGET("/settings", GetSettings)
	webserver.ApiPUT("/settings", UpdateSettings)
	webserver.ApiPOST("/settings/test-email", SendTestEmail)
}

// settingsPayload is a partial settings update.
type settingsPayload struct {
	Email                   *string `json:"email" validate:"omitempty,email"`
	ReminderDays            *[]int  `json:"reminder_days"`
	NotificationsEnabled    *bool   `json:"notifications_enabled"`
	PanchangamFetchEnabled  *bool   `json:"panchangam_fetch_enabled"`
	PanchangamDataDaysAhead *int    `json:"panchangam_data_days_ahead" validate:"omitempty,min=1,max=730"`
}

// GetSettings returns the settings row, creating defaults on first call.
func GetSettings(c echo.Context) error {
	settings, err := GetAppContext(c).GetSettings()
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, settings, "Settings fetched successfully")
}

// UpdateSettings applies supplied fields in place.
func UpdateSettings(c echo.Context) error {
	var payload settingsPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse request parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid email format")
	}

	appCtx := GetAppContext(c)
	settings, err := appCtx.GetSettings()
	if err != nil {
		return failFromService(c, err)
	}

	if payload.Email != nil {
		settings.Email = *payload.Email
	}
	if payload.ReminderDays != nil {
		settings.ReminderDays = *payload.ReminderDays
	}
	if payload.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *payload.NotificationsEnabled
	}
	if payload.PanchangamFetchEnabled != nil {
		settings.PanchangamFetchEnabled = *payload.PanchangamFetchEnabled
	}
	if payload.PanchangamDataDaysAhead != nil {
		settings.PanchangamDataDaysAhead = *payload.PanchangamDataDaysAhead
	}

	if err := appCtx.DB().Save(settings).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to update settings")
	}
	return ok(c, settings, "Settings updated successfully")
}

type testEmailPayload struct {
	Email string `json:"email" validate:"required,email"`
}

// SendTestEmail verifies the mail configuration: the stored
// notification email is temporarily swapped to the target address, a
// mock reminder is sent, then the original address is restored.
func SendTestEmail(c echo.Context) error {
	var payload testEmailPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse request parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "A valid email address is required")
	}

	appCtx := GetAppContext(c)
	settings, err := appCtx.GetSettings()
	if err != nil {
		return failFromService(c, err)
	}

	originalEmail := settings.Email
	settings.Email = payload.Email
	if err := appCtx.DB().Save(settings).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to prepare test email")
	}

	mockEvent := &domain.Event{
		EventType:     "Others",
		EventDate:     common.Today(),
		EventTime:     "18:00",
		ClientName:    "Test Client",
		PhoneNumber:   "9876543210",
		Location:      "Test Location",
		TotalAmount:   50000,
		AdvancePaid:   25000,
		BalanceAmount: 25000,
		Notes:         "This is a test event",
	}
	sent, sendErr := appCtx.Reminder().SendEventReminder(mockEvent, 1)

	settings.Email = originalEmail
	if err := appCtx.DB().Save(settings).Error; err != nil {
		zap.L().Error("failed to restore notification email", zap.Error(err))
	}

	if sendErr != nil || !sent {
		if sendErr != nil {
			zap.L().Error("test email failed", zap.Error(sendErr))
		}
		return fail(c, http.StatusInternalServerError, "Failed to send test email")
	}
	return ok(c, map[string]interface{}{"sent": true}, "Test email sent successfully")
}
