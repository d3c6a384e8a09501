package panchangam

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/annamworks/caterbook/internal/domain"
	"github.com/annamworks/caterbook/pkg/common"
)

// Below this row count the store is considered cold and the pipeline
// runs synchronously at startup.
const coldStoreThreshold = 100

// ErrNoData is returned when no record exists for a requested date.
var ErrNoData = errors.New("panchangam data not found for this date")

// Service owns the panchangam store: the ingestion pipeline writes it,
// everything else reads it.
type Service struct {
	db        *gorm.DB
	daysAhead int
	apiBase   string
}

func NewService(db *gorm.DB, daysAhead int) *Service {
	if daysAhead <= 0 {
		daysAhead = 365
	}
	return &Service{db: db, daysAhead: daysAhead, apiBase: defaultProKeralaAPI}
}

// OverrideAPIBase points the network fallback at another endpoint
// (used in tests).
func (s *Service) OverrideAPIBase(base string) {
	s.apiBase = base
}

// Range returns stored days in [start, end] inclusive, raw payloads
// stripped.
func (s *Service) Range(start, end time.Time) ([]domain.Panchangam, error) {
	var days []domain.Panchangam
	err := s.db.
		Where("date >= ? AND date < ?", common.DayOf(start), common.DayOf(end).AddDate(0, 0, 1)).
		Order("date ASC").
		Find(&days).Error
	if err != nil {
		return nil, errors.Wrap(err, "panchangam range")
	}
	stripRaw(days)
	return days, nil
}

// ByDate returns the stored day or ErrNoData, raw payload stripped.
func (s *Service) ByDate(date time.Time) (*domain.Panchangam, error) {
	var day domain.Panchangam
	err := s.db.Where("date = ?", common.DayOf(date)).First(&day).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNoData
	case err != nil:
		return nil, errors.Wrap(err, "panchangam by date")
	}
	day.RawData = ""
	return &day, nil
}

// AuspiciousDays returns days in [start, end] flagged both as marriage
// days and as auspicious.
func (s *Service) AuspiciousDays(start, end time.Time) ([]domain.Panchangam, error) {
	var days []domain.Panchangam
	err := s.db.
		Where("date >= ? AND date < ?", common.DayOf(start), common.DayOf(end).AddDate(0, 0, 1)).
		Where("is_marriage_day = ? AND is_auspicious_day = ?", true, true).
		Order("date ASC").
		Find(&days).Error
	if err != nil {
		return nil, errors.Wrap(err, "auspicious days")
	}
	stripRaw(days)
	return days, nil
}

func stripRaw(days []domain.Panchangam) {
	for i := range days {
		days[i].RawData = ""
	}
}

// Warning flags one inauspicious interval on a date.
type Warning struct {
	Type      string `json:"type"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Message   string `json:"message"`
}

// Suggestions is the advisory payload for a proposed (date, type) pair.
type Suggestions struct {
	Date            time.Time               `json:"date"`
	IsAuspicious    bool                    `json:"is_auspicious"`
	Message         string                  `json:"message,omitempty"`
	Warnings        []Warning               `json:"warnings"`
	AuspiciousTimes []domain.AuspiciousTime `json:"auspicious_times"`
	Festival        string                  `json:"festival,omitempty"`
}

// Suggest builds the advisory payload. A date with no stored record
// yields an empty payload with a message, never an error.
func (s *Service) Suggest(date time.Time, eventType string) (*Suggestions, error) {
	target := common.DayOf(date)
	out := &Suggestions{
		Date:            target,
		Warnings:        []Warning{},
		AuspiciousTimes: []domain.AuspiciousTime{},
	}

	var day domain.Panchangam
	err := s.db.Where("date = ?", target).First(&day).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		out.Message = "Panchangam data not available for this date"
		return out, nil
	case err != nil:
		return nil, errors.Wrap(err, "panchangam suggestions")
	}

	if eventType == domain.WindowTypeMarriage {
		out.IsAuspicious = day.IsMarriageDay && day.IsAuspiciousDay
		if out.IsAuspicious {
			out.Message = "Auspicious marriage day"
		}
	}

	if day.Rahukalam != nil {
		out.Warnings = append(out.Warnings, Warning{
			Type:      "Rahukalam",
			StartTime: day.Rahukalam.StartTime,
			EndTime:   day.Rahukalam.EndTime,
			Message:   "Rahukalam period - generally avoided",
		})
	}
	if day.Yamagandam != nil {
		out.Warnings = append(out.Warnings, Warning{
			Type:      "Yamagandam",
			StartTime: day.Yamagandam.StartTime,
			EndTime:   day.Yamagandam.EndTime,
			Message:   "Yamagandam period - avoid important events",
		})
	}
	if day.Kuligai != nil {
		out.Warnings = append(out.Warnings, Warning{
			Type:      "Kuligai",
			StartTime: day.Kuligai.StartTime,
			EndTime:   day.Kuligai.EndTime,
			Message:   "Kuligai period - avoid new beginnings",
		})
	}

	for _, w := range day.AuspiciousTimes {
		if w.Type == eventType || w.Type == domain.WindowTypeGeneral {
			out.AuspiciousTimes = append(out.AuspiciousTimes, w)
		}
	}

	out.Festival = day.Festival
	return out, nil
}
