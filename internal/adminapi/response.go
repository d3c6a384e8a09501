package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/annamworks/caterbook/internal/app"
	"github.com/annamworks/caterbook/internal/booking"
	"github.com/annamworks/caterbook/internal/panchangam"
	"github.com/annamworks/caterbook/internal/webserver"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func ok(c echo.Context, data interface{}, message string) error {
	return c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func created(c echo.Context, data interface{}, message string) error {
	return c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Response{Success: false, Message: message})
}

// GetAppContext extracts the application aggregate injected by the
// web server middleware.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

func GetDB(c echo.Context) *gorm.DB {
	return GetAppContext(c).DB()
}

// failFromService maps service errors onto the status taxonomy:
// validation 400, conflict 409, not found 404, everything else 500.
func failFromService(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrValidation):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrConflict):
		return fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrNotFound):
		return fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, panchangam.ErrNoData):
		return fail(c, http.StatusNotFound, err.Error())
	default:
		return fail(c, http.StatusInternalServerError, err.Error())
	}
}

// InitRouter registers all resource routes on the web server.
func InitRouter() {
	registerEventRoutes()
	registerPanchangamRoutes()
	registerSettingsRoutes()
}
