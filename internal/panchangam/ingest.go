package panchangam

import (
	_ "embed"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/annamworks/caterbook/internal/domain"
	"github.com/annamworks/caterbook/pkg/common"
)

// Bundled reference table of known auspicious / inauspicious dates.
// It only encodes the day-level booleans; descriptive fields stay
// empty when a row comes from here.
//
//go:embed data/reference2026.json
var referenceData []byte

type referenceTable struct {
	Year              int      `json:"year"`
	AuspiciousDates   []string `json:"auspiciousDates"`
	InauspiciousDates []string `json:"inauspiciousDates"`
}

func loadReferenceTable() (*referenceTable, error) {
	var ref referenceTable
	if err := jsoniter.Unmarshal(referenceData, &ref); err != nil {
		return nil, errors.Wrap(err, "load panchangam reference table")
	}
	return &ref, nil
}

// loadFromReference derives one record per day in [start, end] from the
// bundled table. Returns nil when the table covers none of the window.
func (s *Service) loadFromReference(start, end time.Time) []domain.Panchangam {
	ref, err := loadReferenceTable()
	if err != nil {
		zap.L().Error("panchangam reference table unavailable", zap.Error(err))
		return nil
	}

	auspicious := make(map[string]bool, len(ref.AuspiciousDates))
	for _, d := range ref.AuspiciousDates {
		auspicious[d] = true
	}
	inauspicious := make(map[string]bool, len(ref.InauspiciousDates))
	for _, d := range ref.InauspiciousDates {
		inauspicious[d] = true
	}

	var days []domain.Panchangam
	covered := false
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		if cur.Year() == ref.Year {
			covered = true
		}
		dateStr := cur.Format("2006-01-02")
		isAuspicious := auspicious[dateStr]
		isInauspicious := inauspicious[dateStr]

		raw, _ := jsoniter.MarshalToString(map[string]interface{}{
			"date":          dateStr,
			"is_auspicious": isAuspicious,
			"source":        "reference-table",
		})
		days = append(days, domain.Panchangam{
			Date:            cur,
			AuspiciousTimes: []domain.AuspiciousTime{},
			// A date on either list matters for marriage timing;
			// only the auspicious list is favorable.
			IsMarriageDay:   isAuspicious || isInauspicious,
			IsAuspiciousDay: isAuspicious,
			RawData:         raw,
		})
	}
	if !covered {
		return nil
	}
	return days
}

// FetchAndStore produces one record per day for the rolling window and
// upserts the whole batch keyed by date. Re-running the same window
// overwrites prior rows field for field, so the operation is idempotent.
// When neither the local table nor the network source yields data, the
// run fails and stored rows are left untouched.
func (s *Service) FetchAndStore() (int, error) {
	start := common.Today()
	return s.fetchAndStoreWindow(start, start.AddDate(0, 0, s.daysAhead))
}

func (s *Service) fetchAndStoreWindow(start, end time.Time) (int, error) {
	days := s.loadFromReference(start, end)
	if len(days) == 0 {
		zap.L().Info("panchangam reference table does not cover window, trying network source")
		var err error
		days, err = s.fetchFromProKerala(start, end)
		if err != nil {
			zap.L().Warn("panchangam network fetch failed", zap.Error(err))
		}
	}
	if len(days) == 0 {
		return 0, errors.New("no panchangam data available for window")
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		UpdateAll: true,
	}).CreateInBatches(days, 200).Error
	if err != nil {
		return 0, errors.Wrap(err, "upsert panchangam batch")
	}

	zap.L().Info("panchangam data updated",
		zap.Int("days", len(days)),
		zap.Time("from", start),
		zap.Time("to", end))
	return len(days), nil
}

// Initialize runs the pipeline once when the store looks cold, so
// panchangam views have data before the server accepts traffic.
func (s *Service) Initialize() error {
	var count int64
	if err := s.db.Model(&domain.Panchangam{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count panchangam rows")
	}
	if count >= coldStoreThreshold {
		zap.L().Info("panchangam data already loaded", zap.Int64("rows", count))
		return nil
	}
	zap.L().Info("panchangam store cold, loading data", zap.Int64("rows", count))
	_, err := s.FetchAndStore()
	return err
}
