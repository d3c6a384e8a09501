package domain

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrSettingsExists is returned when a second settings row is inserted.
var ErrSettingsExists = errors.New("settings record already exists")

// Settings is the single global configuration row. It is created
// lazily with defaults on first access and updated in place after.
type Settings struct {
	ID int64 `json:"id,string"`

	Email string `json:"email"`

	// ReminderDays holds day offsets before an event at which a
	// reminder is sent, e.g. [1,3].
	ReminderDays []int `gorm:"serializer:json" json:"reminder_days"`

	NotificationsEnabled   bool `json:"notifications_enabled"`
	PanchangamFetchEnabled bool `json:"panchangam_fetch_enabled"`

	PanchangamDataDaysAhead int `json:"panchangam_data_days_ahead"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Settings) TableName() string {
	return "cater_settings"
}

// BeforeCreate enforces the singleton invariant at the write boundary.
func (s *Settings) BeforeCreate(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&Settings{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSettingsExists
	}
	return nil
}
