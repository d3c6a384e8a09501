package domain

import (
	"time"
)

// Auspicious window tags. A "General" window applies to every event type.
const (
	WindowTypeMarriage   = "Marriage"
	WindowTypeReception  = "Reception"
	WindowTypeEngagement = "Engagement"
	WindowTypeGeneral    = "General"
)

// TimeRange is an HH:MM interval within a day.
type TimeRange struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AuspiciousTime is a muhurtham window tagged by applicable event type.
type AuspiciousTime struct {
	Type      string `json:"type"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Panchangam stores calendar auspiciousness for one date. Rows are
// created and overwritten only by the ingestion pipeline; the API
// reads them and never mutates them.
type Panchangam struct {
	ID   int64     `json:"id,string"`
	Date time.Time `gorm:"uniqueIndex" json:"date"`

	Tithi     string `json:"tithi"`
	Nakshatra string `json:"nakshatra"`
	Festival  string `json:"festival"`

	IsAmavasai bool `json:"is_amavasai"`
	IsPournami bool `json:"is_pournami"`

	Rahukalam  *TimeRange `gorm:"serializer:json" json:"rahukalam,omitempty"`
	Yamagandam *TimeRange `gorm:"serializer:json" json:"yamagandam,omitempty"`
	Kuligai    *TimeRange `gorm:"serializer:json" json:"kuligai,omitempty"`

	AuspiciousTimes []AuspiciousTime `gorm:"serializer:json" json:"auspicious_times"`

	IsMarriageDay   bool `gorm:"index" json:"is_marriage_day"`
	IsAuspiciousDay bool `gorm:"index" json:"is_auspicious_day"`

	// RawData keeps the source payload verbatim for diagnostics.
	RawData string `json:"raw_data,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Panchangam) TableName() string {
	return "cater_panchangam"
}
