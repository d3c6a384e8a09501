package domain

import (
	"time"

	"gorm.io/gorm"
)

// Event lifecycle status values. A cancelled event is never deleted,
// it only leaves the active listings.
const (
	EventStatusActive    = "active"
	EventStatusCancelled = "cancelled"
)

// EventTypes is the set of service categories a booking can take.
var EventTypes = []string{
	"Birthday",
	"Ear piercing",
	"Puberty ceremony",
	"Engagement",
	"Marriage",
	"Reception",
	"Virundhu",
	"Valaikaapu",
	"60th marriage",
	"70th marriage",
	"Club orders",
	"Shop opening",
	"Brand meeting",
	"School orders",
	"Temple function",
	"Photo ceremony",
	"Housewarming",
	"Others",
}

// IsValidEventType reports whether t is a known service category.
func IsValidEventType(t string) bool {
	for _, v := range EventTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Event represents a catering booking.
type Event struct {
	ID        int64     `json:"id,string" form:"id"`
	EventDate time.Time `gorm:"index" json:"event_date" form:"event_date"`
	EventTime string    `json:"event_time" form:"event_time"`
	EventType string    `gorm:"index" json:"event_type" form:"event_type"`

	ClientName             string `json:"client_name" form:"client_name"`
	ClientNickname         string `json:"client_nickname" form:"client_nickname"`
	PhoneNumber            string `json:"phone_number" form:"phone_number"`
	AlternateContactNumber string `json:"alternate_contact_number" form:"alternate_contact_number"`
	Location               string `json:"location" form:"location"`

	TotalAmount   float64 `json:"total_amount" form:"total_amount"`
	AdvancePaid   float64 `json:"advance_paid" form:"advance_paid"`
	BalanceAmount float64 `json:"balance_amount" form:"balance_amount"`

	Notes         string   `json:"notes" form:"notes"`
	EventPhotoUrl string   `json:"event_photo_url" form:"event_photo_url"`
	EventPhotos   []string `gorm:"serializer:json" json:"event_photos"`

	Status string `gorm:"index;default:active" json:"status"`
	// Cancelled mirrors Status for API clients that expect a flag.
	Cancelled bool `gorm:"-" json:"is_cancelled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Event) TableName() string {
	return "cater_event"
}

// BeforeSave recomputes the derived balance on every write.
func (e *Event) BeforeSave(tx *gorm.DB) error {
	e.BalanceAmount = e.TotalAmount - e.AdvancePaid
	if e.Status == "" {
		e.Status = EventStatusActive
	}
	e.Cancelled = e.Status == EventStatusCancelled
	return nil
}

func (e *Event) AfterFind(tx *gorm.DB) error {
	e.Cancelled = e.Status == EventStatusCancelled
	return nil
}

func (e *Event) IsCancelled() bool {
	return e.Status == EventStatusCancelled
}
