package webserver

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"go.uber.org/zap"

	"github.com/annamworks/caterbook/internal/app"
)

// AppContextKey is the echo context key under which the application
// aggregate is injected for handlers.
const AppContextKey = "caterbook_app"

var (
	appCtx app.AppContext
	server *echo.Echo
	api    *echo.Group
)

type payloadValidator struct {
	validate *validator.Validate
}

func (v *payloadValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Init builds the echo engine: validator, CORS, recovery, request
// logging, app injection and the health endpoint.
func Init(ctx app.AppContext) {
	appCtx = ctx
	server = echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.Validator = &payloadValidator{validate: validator.New()}
	server.HTTPErrorHandler = errorHandler

	server.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: false,
	}))
	server.Use(middleware.Recover())
	server.Use(requestLogger)
	server.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appCtx)
			return next(c)
		}
	})

	api = server.Group("/api")
	api.GET("/health", healthCheck)
}

// Instance returns the echo engine (used in tests).
func Instance() *echo.Echo {
	return server
}

func ApiGET(path string, h echo.HandlerFunc) {
	api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	api.DELETE(path, h)
}

// Start blocks serving HTTP on the configured listen address.
func Start() error {
	listen := appCtx.Config().System.Listen
	zap.L().Info("web server starting", zap.String("listen", listen))
	return server.Start(listen)
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		zap.L().Debug("http request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("latency", time.Since(start)))
		return err
	}
}

// errorHandler renders uncaught errors in the response envelope. In
// production mode internals are not leaked on 500s.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := err.Error()
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}
	if status == http.StatusInternalServerError {
		zap.L().Error("unhandled request error",
			zap.String("path", c.Request().URL.Path), zap.Error(err))
		if appCtx != nil && appCtx.Config().System.Mode == "production" {
			message = "Internal server error"
		}
	}

	_ = c.JSON(status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// healthCheck reports process status, uptime and host readings.
func healthCheck(c echo.Context) error {
	payload := map[string]interface{}{
		"status":         "ok",
		"timestamp":      time.Now().Format(time.RFC3339),
		"uptime_seconds": int64(appCtx.Uptime().Seconds()),
	}

	if cpuUse, err := cpu.Percent(0, false); err == nil && len(cpuUse) > 0 {
		payload["cpu_percent"] = cpuUse[0]
	}
	if memInfo, err := mem.VirtualMemory(); err == nil {
		payload["mem_used_mb"] = memInfo.Used / 1024 / 1024
	}

	return c.JSON(http.StatusOK, payload)
}
