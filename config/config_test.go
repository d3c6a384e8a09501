package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Equal(t, "caterbook", cfg.System.Appid)
	assert.Equal(t, "Asia/Kolkata", cfg.System.Location)
	assert.Equal(t, 365, cfg.Jobs.PanchangamDaysAhead)
	assert.Equal(t, 2, cfg.Jobs.PanchangamFetchHour)
	assert.Equal(t, 8, cfg.Jobs.ReminderHour)
	assert.False(t, cfg.Email.Enabled)
}

func TestLoadConfigFile(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "caterbook.yml")
	content := `
system:
  listen: "127.0.0.1:9000"
  mode: production
database:
  type: sqlite
jobs:
  reminder_hour: 7
  admin_email: owner@example.com
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o600))

	cfg := LoadConfig(cfile)
	assert.Equal(t, "127.0.0.1:9000", cfg.System.Listen)
	assert.Equal(t, "production", cfg.System.Mode)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 7, cfg.Jobs.ReminderHour)
	assert.Equal(t, "owner@example.com", cfg.Jobs.AdminEmail)
	// untouched sections keep their defaults
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("CATERBOOK_DB_TYPE", "sqlite")
	t.Setenv("CATERBOOK_REMINDER_HOUR", "6")
	t.Setenv("CATERBOOK_SMTP_ENABLED", "true")

	cfg := LoadConfig("")
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 6, cfg.Jobs.ReminderHour)
	assert.True(t, cfg.Email.Enabled)
}
