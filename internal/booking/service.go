package booking

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/annamworks/caterbook/internal/domain"
	"github.com/annamworks/caterbook/pkg/common"
)

var (
	// ErrValidation marks client input errors.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a double-booking on an occupied date/time slot.
	ErrConflict = errors.New("double booking detected")
	// ErrNotFound marks an unknown event id.
	ErrNotFound = errors.New("event not found")
)

var (
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	timePattern  = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Service owns the event store. All reads and writes go through here;
// handlers never touch the table directly.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// HasConflict reports whether a non-cancelled event already occupies
// the (date, time) slot. excludeID skips the event being edited so it
// does not conflict with itself.
//
// The check-then-write pair around this is not serialized; two
// concurrent creates for the same slot can both pass. Accepted at this
// system's scale.
func (s *Service) HasConflict(date time.Time, eventTime string, excludeID int64) (bool, error) {
	query := s.db.Model(&domain.Event{}).
		Where("event_date = ? AND event_time = ? AND status <> ?",
			common.DayOf(date), eventTime, domain.EventStatusCancelled)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "conflict check")
	}
	return count > 0, nil
}

// CreateInput carries a booking request. Amounts are pointers so a
// missing total can be told apart from an explicit zero.
type CreateInput struct {
	EventDate              string   `json:"event_date"`
	EventTime              string   `json:"event_time"`
	EventType              string   `json:"event_type"`
	ClientName             string   `json:"client_name"`
	ClientNickname         string   `json:"client_nickname"`
	PhoneNumber            string   `json:"phone_number"`
	AlternateContactNumber string   `json:"alternate_contact_number"`
	Location               string   `json:"location"`
	TotalAmount            *float64 `json:"total_amount"`
	AdvancePaid            *float64 `json:"advance_paid"`
	Notes                  string   `json:"notes"`
	EventPhotoUrl          string   `json:"event_photo_url"`
	EventPhotos            []string `json:"event_photos"`
}

func (s *Service) Create(in CreateInput) (*domain.Event, error) {
	if in.EventDate == "" || in.EventTime == "" || in.EventType == "" ||
		in.ClientName == "" || in.PhoneNumber == "" || in.Location == "" ||
		in.TotalAmount == nil {
		return nil, errors.Wrap(ErrValidation, "missing required fields")
	}
	if !phonePattern.MatchString(in.PhoneNumber) {
		return nil, errors.Wrap(ErrValidation, "phone number must be 10 digits")
	}
	if in.AlternateContactNumber != "" && !phonePattern.MatchString(in.AlternateContactNumber) {
		return nil, errors.Wrap(ErrValidation, "alternate contact number must be 10 digits")
	}
	if !timePattern.MatchString(in.EventTime) {
		return nil, errors.Wrap(ErrValidation, "event time must be in HH:MM format")
	}
	if !domain.IsValidEventType(in.EventType) {
		return nil, errors.Wrap(ErrValidation, "unknown event type")
	}
	if *in.TotalAmount < 0 {
		return nil, errors.Wrap(ErrValidation, "total amount cannot be negative")
	}

	date, err := common.ParseDay(in.EventDate)
	if err != nil {
		return nil, errors.Wrap(ErrValidation, "invalid event date")
	}

	advance := 0.0
	if in.AdvancePaid != nil {
		if *in.AdvancePaid < 0 {
			return nil, errors.Wrap(ErrValidation, "advance cannot be negative")
		}
		advance = *in.AdvancePaid
	}

	conflict, err := s.HasConflict(date, in.EventTime, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, errors.Wrap(ErrConflict, "another event exists at this date and time")
	}

	event := &domain.Event{
		ID:                     common.UUIDint64(),
		EventDate:              date,
		EventTime:              in.EventTime,
		EventType:              in.EventType,
		ClientName:             strings.TrimSpace(in.ClientName),
		ClientNickname:         strings.TrimSpace(in.ClientNickname),
		PhoneNumber:            in.PhoneNumber,
		AlternateContactNumber: in.AlternateContactNumber,
		Location:               strings.TrimSpace(in.Location),
		TotalAmount:            *in.TotalAmount,
		AdvancePaid:            advance,
		Notes:                  strings.TrimSpace(in.Notes),
		EventPhotoUrl:          in.EventPhotoUrl,
		EventPhotos:            in.EventPhotos,
		Status:                 domain.EventStatusActive,
	}
	if err := s.db.Create(event).Error; err != nil {
		return nil, errors.Wrap(err, "create event")
	}
	return event, nil
}

// UpdateInput is a partial update. Only non-nil fields are applied;
// this is a fixed allow-list, unknown request fields are ignored.
type UpdateInput struct {
	EventDate              *string   `json:"event_date"`
	EventTime              *string   `json:"event_time"`
	EventType              *string   `json:"event_type"`
	ClientName             *string   `json:"client_name"`
	ClientNickname         *string   `json:"client_nickname"`
	PhoneNumber            *string   `json:"phone_number"`
	AlternateContactNumber *string   `json:"alternate_contact_number"`
	Location               *string   `json:"location"`
	TotalAmount            *float64  `json:"total_amount"`
	AdvancePaid            *float64  `json:"advance_paid"`
	Notes                  *string   `json:"notes"`
	EventPhotoUrl          *string   `json:"event_photo_url"`
	EventPhotos            *[]string `json:"event_photos"`
}

func (s *Service) Update(id int64, in UpdateInput) (*domain.Event, error) {
	event, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if in.PhoneNumber != nil && !phonePattern.MatchString(*in.PhoneNumber) {
		return nil, errors.Wrap(ErrValidation, "phone number must be 10 digits")
	}
	if in.AlternateContactNumber != nil && *in.AlternateContactNumber != "" &&
		!phonePattern.MatchString(*in.AlternateContactNumber) {
		return nil, errors.Wrap(ErrValidation, "alternate contact number must be 10 digits")
	}
	if in.EventTime != nil && !timePattern.MatchString(*in.EventTime) {
		return nil, errors.Wrap(ErrValidation, "event time must be in HH:MM format")
	}
	if in.EventType != nil && !domain.IsValidEventType(*in.EventType) {
		return nil, errors.Wrap(ErrValidation, "unknown event type")
	}

	newDate := event.EventDate
	if in.EventDate != nil {
		newDate, err = common.ParseDay(*in.EventDate)
		if err != nil {
			return nil, errors.Wrap(ErrValidation, "invalid event date")
		}
	}
	newTime := event.EventTime
	if in.EventTime != nil {
		newTime = *in.EventTime
	}

	// The guard re-runs only when the slot actually moves.
	if !newDate.Equal(event.EventDate) || newTime != event.EventTime {
		conflict, err := s.HasConflict(newDate, newTime, id)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, errors.Wrap(ErrConflict, "another event exists at this date and time")
		}
	}

	event.EventDate = newDate
	event.EventTime = newTime
	if in.EventType != nil {
		event.EventType = *in.EventType
	}
	if in.ClientName != nil {
		event.ClientName = strings.TrimSpace(*in.ClientName)
	}
	if in.ClientNickname != nil {
		event.ClientNickname = strings.TrimSpace(*in.ClientNickname)
	}
	if in.PhoneNumber != nil {
		event.PhoneNumber = *in.PhoneNumber
	}
	if in.AlternateContactNumber != nil {
		event.AlternateContactNumber = *in.AlternateContactNumber
	}
	if in.Location != nil {
		event.Location = strings.TrimSpace(*in.Location)
	}
	if in.TotalAmount != nil {
		event.TotalAmount = *in.TotalAmount
	}
	if in.AdvancePaid != nil {
		event.AdvancePaid = *in.AdvancePaid
	}
	if in.Notes != nil {
		event.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.EventPhotoUrl != nil {
		event.EventPhotoUrl = *in.EventPhotoUrl
	}
	if in.EventPhotos != nil {
		event.EventPhotos = *in.EventPhotos
	}

	if err := s.db.Save(event).Error; err != nil {
		return nil, errors.Wrap(err, "update event")
	}
	return event, nil
}

// Get returns an event by id regardless of lifecycle status.
func (s *Service) Get(id int64) (*domain.Event, error) {
	var event domain.Event
	err := s.db.First(&event, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, errors.Wrap(err, "get event")
	}
	return &event, nil
}

// Cancel soft-deletes an event. The record keeps every field and stays
// reachable by id, but leaves listings, conflict checks and reminders.
func (s *Service) Cancel(id int64) (*domain.Event, error) {
	event, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	event.Status = domain.EventStatusCancelled
	if err := s.db.Save(event).Error; err != nil {
		return nil, errors.Wrap(err, "cancel event")
	}
	return event, nil
}

// ListFilter narrows a listing. From/To are inclusive calendar days.
type ListFilter struct {
	From      *time.Time
	To        *time.Time
	EventType string
}

func (s *Service) List(filter ListFilter) ([]domain.Event, error) {
	query := s.db.Where("status <> ?", domain.EventStatusCancelled)
	if filter.From != nil {
		query = query.Where("event_date >= ?", common.DayOf(*filter.From))
	}
	if filter.To != nil {
		// inclusive upper bound: strictly before the next day
		query = query.Where("event_date < ?", common.DayOf(*filter.To).AddDate(0, 0, 1))
	}
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}
	var events []domain.Event
	if err := query.Order("event_date ASC, event_time ASC").Find(&events).Error; err != nil {
		return nil, errors.Wrap(err, "list events")
	}
	return events, nil
}

// DashboardStats aggregates the filtered non-cancelled bookings.
type DashboardStats struct {
	TotalEvents          int            `json:"total_events"`
	TotalRevenue         float64        `json:"total_revenue"`
	TotalAdvanceReceived float64        `json:"total_advance_received"`
	TotalPendingBalance  float64        `json:"total_pending_balance"`
	EventsByType         map[string]int `json:"events_by_type"`
	UpcomingEvents       []domain.Event `json:"upcoming_events"`
	OverduePayments      []domain.Event `json:"overdue_payments"`
}

// Dashboard computes stats over active events in the optional range.
// now anchors the upcoming/overdue buckets so tests can pin it.
func (s *Service) Dashboard(from, to *time.Time, now time.Time) (*DashboardStats, error) {
	events, err := s.List(ListFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	totals := make([]float64, 0, len(events))
	advances := make([]float64, 0, len(events))
	balances := make([]float64, 0, len(events))
	byType := make(map[string]int)
	for _, e := range events {
		totals = append(totals, e.TotalAmount)
		advances = append(advances, e.AdvancePaid)
		balances = append(balances, e.BalanceAmount)
		byType[e.EventType]++
	}

	result := &DashboardStats{
		TotalEvents:     len(events),
		EventsByType:    byType,
		UpcomingEvents:  []domain.Event{},
		OverduePayments: []domain.Event{},
	}
	result.TotalRevenue, _ = stats.Sum(totals)
	result.TotalAdvanceReceived, _ = stats.Sum(advances)
	result.TotalPendingBalance, _ = stats.Sum(balances)

	today := common.DayOf(now)
	horizon := today.AddDate(0, 0, 30)
	for _, e := range events {
		if !e.EventDate.Before(today) && !e.EventDate.After(horizon) {
			result.UpcomingEvents = append(result.UpcomingEvents, e)
		}
		if e.BalanceAmount > 0 && e.EventDate.Before(today) {
			result.OverduePayments = append(result.OverduePayments, e)
		}
	}
	sort.SliceStable(result.UpcomingEvents, func(i, j int) bool {
		return result.UpcomingEvents[i].EventDate.Before(result.UpcomingEvents[j].EventDate)
	})
	if len(result.UpcomingEvents) > 10 {
		result.UpcomingEvents = result.UpcomingEvents[:10]
	}
	sort.SliceStable(result.OverduePayments, func(i, j int) bool {
		return result.OverduePayments[i].BalanceAmount > result.OverduePayments[j].BalanceAmount
	})

	return result, nil
}

// Search runs a case-insensitive substring match over client name,
// nickname, phone, type, location and notes. Newest first, capped to 50.
func (s *Service) Search(query string) ([]domain.Event, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, errors.Wrap(ErrValidation, "search query is required")
	}

	var clause string
	if strings.EqualFold(s.db.Name(), "postgres") {
		clause = "client_name ILIKE @q OR client_nickname ILIKE @q OR phone_number ILIKE @q" +
			" OR event_type ILIKE @q OR location ILIKE @q OR notes ILIKE @q"
	} else {
		clause = "LOWER(client_name) LIKE @q OR LOWER(client_nickname) LIKE @q OR LOWER(phone_number) LIKE @q" +
			" OR LOWER(event_type) LIKE @q OR LOWER(location) LIKE @q OR LOWER(notes) LIKE @q"
		q = strings.ToLower(q)
	}

	var events []domain.Event
	err := s.db.Where("status <> ?", domain.EventStatusCancelled).
		Where(clause, map[string]interface{}{"q": "%" + q + "%"}).
		Order("event_date DESC").
		Limit(50).
		Find(&events).Error
	if err != nil {
		return nil, errors.Wrap(err, "search events")
	}
	return events, nil
}
