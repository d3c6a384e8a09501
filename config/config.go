package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig holds process-level settings.
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Listen   string `yaml:"listen" json:"listen"`
	Mode     string `yaml:"mode" json:"mode"` // production | development
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"` // postgres | sqlite
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// EmailConfig configures the SMTP transport for reminder mail.
// When Enabled is false the application logs rendered messages
// instead of dispatching them.
type EmailConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	FromName string `yaml:"from_name" json:"from_name"`
}

// JobsConfig configures the daily scheduled jobs and ingestion defaults.
type JobsConfig struct {
	PanchangamFetchHour   int `yaml:"panchangam_fetch_hour" json:"panchangam_fetch_hour"`
	PanchangamFetchMinute int `yaml:"panchangam_fetch_minute" json:"panchangam_fetch_minute"`
	ReminderHour          int `yaml:"reminder_hour" json:"reminder_hour"`
	ReminderMinute        int `yaml:"reminder_minute" json:"reminder_minute"`
	PanchangamDaysAhead   int `yaml:"panchangam_days_ahead" json:"panchangam_days_ahead"`
	AdminEmail            string `yaml:"admin_email" json:"admin_email"`
}

type AppConfig struct {
	System   SysConfig   `yaml:"system" json:"system"`
	Logger   LogConfig   `yaml:"logger" json:"logger"`
	Database DBConfig    `yaml:"database" json:"database"`
	Email    EmailConfig `yaml:"email" json:"email"`
	Jobs     JobsConfig  `yaml:"jobs" json:"jobs"`
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "caterbook",
			Location: "Asia/Kolkata",
			Workdir:  "/var/caterbook",
			Listen:   "0.0.0.0:5000",
			Mode:     "development",
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "/var/caterbook/caterbook.log",
		},
		Database: DBConfig{
			Type:     "postgres",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "caterbook",
			User:     "postgres",
			Passwd:   "",
			MaxConn:  50,
			IdleConn: 10,
		},
		Email: EmailConfig{
			Enabled:  false,
			Host:     "smtp.gmail.com",
			Port:     587,
			FromName: "Caterbook",
		},
		Jobs: JobsConfig{
			PanchangamFetchHour:   2,
			PanchangamFetchMinute: 0,
			ReminderHour:          8,
			ReminderMinute:        0,
			PanchangamDaysAhead:   365,
			AdminEmail:            "admin@catering.com",
		},
	}
}

// LoadConfig reads the yaml configuration file and applies environment
// overrides. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig()
	if cfile != "" {
		if data, err := os.ReadFile(filepath.Clean(cfile)); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}
	applyEnvOverrides(cfg)
	return cfg
}

func applyEnvOverrides(cfg *AppConfig) {
	setEnvString(&cfg.System.Location, "CATERBOOK_SYSTEM_LOCATION")
	setEnvString(&cfg.System.Workdir, "CATERBOOK_SYSTEM_WORKDIR")
	setEnvString(&cfg.System.Listen, "CATERBOOK_WEB_LISTEN")
	setEnvString(&cfg.System.Mode, "CATERBOOK_SYSTEM_MODE")

	setEnvString(&cfg.Database.Type, "CATERBOOK_DB_TYPE")
	setEnvString(&cfg.Database.Host, "CATERBOOK_DB_HOST")
	setEnvInt(&cfg.Database.Port, "CATERBOOK_DB_PORT")
	setEnvString(&cfg.Database.Name, "CATERBOOK_DB_NAME")
	setEnvString(&cfg.Database.User, "CATERBOOK_DB_USER")
	setEnvString(&cfg.Database.Passwd, "CATERBOOK_DB_PWD")
	setEnvBool(&cfg.Database.Debug, "CATERBOOK_DB_DEBUG")

	setEnvBool(&cfg.Email.Enabled, "CATERBOOK_SMTP_ENABLED")
	setEnvString(&cfg.Email.Host, "CATERBOOK_SMTP_HOST")
	setEnvInt(&cfg.Email.Port, "CATERBOOK_SMTP_PORT")
	setEnvString(&cfg.Email.User, "CATERBOOK_SMTP_USER")
	setEnvString(&cfg.Email.Passwd, "CATERBOOK_SMTP_PWD")
	setEnvString(&cfg.Email.FromName, "CATERBOOK_SMTP_FROM_NAME")

	setEnvInt(&cfg.Jobs.PanchangamFetchHour, "CATERBOOK_PANCHANGAM_FETCH_HOUR")
	setEnvInt(&cfg.Jobs.PanchangamFetchMinute, "CATERBOOK_PANCHANGAM_FETCH_MINUTE")
	setEnvInt(&cfg.Jobs.ReminderHour, "CATERBOOK_REMINDER_HOUR")
	setEnvInt(&cfg.Jobs.ReminderMinute, "CATERBOOK_REMINDER_MINUTE")
	setEnvInt(&cfg.Jobs.PanchangamDaysAhead, "CATERBOOK_PANCHANGAM_DAYS_AHEAD")
	setEnvString(&cfg.Jobs.AdminEmail, "CATERBOOK_ADMIN_EMAIL")
}

func setEnvString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setEnvInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = cast.ToInt(v)
	}
}

func setEnvBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = cast.ToBool(v)
	}
}
