package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/annamworks/caterbook/config"
	"github.com/annamworks/caterbook/internal/booking"
	"github.com/annamworks/caterbook/internal/domain"
	"github.com/annamworks/caterbook/internal/panchangam"
	"github.com/annamworks/caterbook/internal/reminder"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides the global settings row, creating it with
// defaults on first access.
type SettingsProvider interface {
	GetSettings() (*domain.Settings, error)
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ServiceProvider provides the domain services.
type ServiceProvider interface {
	Booking() *booking.Service
	Panchangam() *panchangam.Service
	Reminder() *reminder.Service
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	ServiceProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
	Uptime() time.Duration
}
