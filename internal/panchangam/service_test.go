package panchangam

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/annamworks/caterbook/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLoadFromReference(t *testing.T) {
	svc := NewService(newTestDB(t), 365)

	days := svc.loadFromReference(day(2026, 3, 14), day(2026, 3, 19))
	require.Len(t, days, 6)

	byDate := make(map[string]domain.Panchangam, len(days))
	for _, d := range days {
		byDate[d.Date.Format("2006-01-02")] = d
	}

	// listed auspicious
	assert.True(t, byDate["2026-03-15"].IsMarriageDay)
	assert.True(t, byDate["2026-03-15"].IsAuspiciousDay)
	// listed inauspicious: relevant to marriage timing but unfavorable
	assert.True(t, byDate["2026-03-19"].IsMarriageDay)
	assert.False(t, byDate["2026-03-19"].IsAuspiciousDay)
	// unlisted
	assert.False(t, byDate["2026-03-14"].IsMarriageDay)
	assert.False(t, byDate["2026-03-14"].IsAuspiciousDay)
}

func TestLoadFromReferenceUncoveredYear(t *testing.T) {
	svc := NewService(newTestDB(t), 365)
	days := svc.loadFromReference(day(2031, 1, 1), day(2031, 1, 10))
	assert.Nil(t, days)
}

func TestFetchAndStoreIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, 365)

	n, err := svc.fetchAndStoreWindow(day(2026, 3, 1), day(2026, 3, 31))
	require.NoError(t, err)
	assert.Equal(t, 31, n)

	var count int64
	require.NoError(t, db.Model(&domain.Panchangam{}).Count(&count).Error)
	assert.Equal(t, int64(31), count)

	// Re-running the same window overwrites rather than duplicates.
	n, err = svc.fetchAndStoreWindow(day(2026, 3, 1), day(2026, 3, 31))
	require.NoError(t, err)
	assert.Equal(t, 31, n)

	require.NoError(t, db.Model(&domain.Panchangam{}).Count(&count).Error)
	assert.Equal(t, int64(31), count)
}

func TestFetchAndStoreFailsClosed(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, 365)
	svc.OverrideAPIBase("http://127.0.0.1:1/panchangam")

	// Seed one row, then request a window nothing can serve.
	require.NoError(t, db.Create(&domain.Panchangam{Date: day(2026, 3, 15)}).Error)

	_, err := svc.fetchAndStoreWindow(day(2031, 1, 1), day(2031, 1, 5))
	assert.Error(t, err)

	// Prior data is untouched by the failed run.
	var count int64
	require.NoError(t, db.Model(&domain.Panchangam{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestByDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, 365)

	_, err := svc.fetchAndStoreWindow(day(2026, 3, 10), day(2026, 3, 20))
	require.NoError(t, err)

	got, err := svc.ByDate(day(2026, 3, 15))
	require.NoError(t, err)
	assert.True(t, got.IsAuspiciousDay)
	assert.Empty(t, got.RawData)

	_, err = svc.ByDate(day(2027, 1, 1))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRangeAndAuspiciousDays(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, 365)

	_, err := svc.fetchAndStoreWindow(day(2026, 3, 10), day(2026, 3, 20))
	require.NoError(t, err)

	days, err := svc.Range(day(2026, 3, 12), day(2026, 3, 15))
	require.NoError(t, err)
	require.Len(t, days, 4) // inclusive on both ends
	for _, d := range days {
		assert.Empty(t, d.RawData)
	}
	assert.True(t, days[0].Date.Before(days[3].Date))

	auspicious, err := svc.AuspiciousDays(day(2026, 3, 10), day(2026, 3, 20))
	require.NoError(t, err)
	require.Len(t, auspicious, 2) // 03-12 and 03-15
	assert.Equal(t, "2026-03-12", auspicious[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2026-03-15", auspicious[1].Date.Format("2006-01-02"))
}

func TestSuggestNoData(t *testing.T) {
	svc := NewService(newTestDB(t), 365)

	got, err := svc.Suggest(day(2026, 3, 15), domain.WindowTypeMarriage)
	require.NoError(t, err)
	assert.False(t, got.IsAuspicious)
	assert.Equal(t, "Panchangam data not available for this date", got.Message)
	assert.Empty(t, got.Warnings)
	assert.Empty(t, got.AuspiciousTimes)
}

func TestSuggestMarriageDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, 365)

	require.NoError(t, db.Create(&domain.Panchangam{
		Date:            day(2026, 3, 15),
		IsMarriageDay:   true,
		IsAuspiciousDay: true,
		Rahukalam:       &domain.TimeRange{StartTime: "16:30", EndTime: "18:00"},
		Yamagandam:      &domain.TimeRange{StartTime: "12:00", EndTime: "13:30"},
		AuspiciousTimes: []domain.AuspiciousTime{
			{Type: domain.WindowTypeMarriage, StartTime: "09:00", EndTime: "10:30"},
			{Type: domain.WindowTypeGeneral, StartTime: "11:00", EndTime: "12:00"},
			{Type: domain.WindowTypeReception, StartTime: "18:30", EndTime: "20:00"},
		},
	}).Error)

	got, err := svc.Suggest(day(2026, 3, 15), domain.WindowTypeMarriage)
	require.NoError(t, err)

	assert.True(t, got.IsAuspicious)
	assert.Equal(t, "Auspicious marriage day", got.Message)

	// One warning per populated interval, here Rahukalam and Yamagandam.
	require.Len(t, got.Warnings, 2)
	assert.Equal(t, "Rahukalam", got.Warnings[0].Type)
	assert.Equal(t, "16:30", got.Warnings[0].StartTime)
	assert.Equal(t, "Yamagandam", got.Warnings[1].Type)

	// Windows matching the event type or tagged General.
	require.Len(t, got.AuspiciousTimes, 2)
	assert.Equal(t, domain.WindowTypeMarriage, got.AuspiciousTimes[0].Type)
	assert.Equal(t, domain.WindowTypeGeneral, got.AuspiciousTimes[1].Type)
}

func TestSuggestNonMarriageType(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, 365)

	require.NoError(t, db.Create(&domain.Panchangam{
		Date:            day(2026, 3, 15),
		IsMarriageDay:   true,
		IsAuspiciousDay: true,
	}).Error)

	got, err := svc.Suggest(day(2026, 3, 15), domain.WindowTypeReception)
	require.NoError(t, err)
	// The marriage-day verdict applies to marriage requests only.
	assert.False(t, got.IsAuspicious)
	assert.Empty(t, got.Message)
}

func TestParseProKeralaDay(t *testing.T) {
	raw := map[string]interface{}{
		"date":      "2026-07-10",
		"tithi":     "Pournami",
		"nakshatra": "Rohini",
		"festival":  "Guru Purnima",
		"rahukalam": map[string]interface{}{"start": "10:30", "end": "12:00"},
		"muhurtham": []interface{}{
			map[string]interface{}{"type": "", "start": "06:00", "end": "07:30"},
			map[string]interface{}{"type": "Marriage", "start": "09:00", "end": "10:15"},
		},
		"is_marriage_day":   true,
		"is_auspicious_day": true,
	}

	got, err := parseProKeralaDay(raw)
	require.NoError(t, err)

	assert.True(t, got.Date.Equal(day(2026, 7, 10)))
	assert.True(t, got.IsPournami)
	assert.False(t, got.IsAmavasai)
	assert.Equal(t, "Guru Purnima", got.Festival)
	require.NotNil(t, got.Rahukalam)
	assert.Equal(t, "10:30", got.Rahukalam.StartTime)
	assert.Nil(t, got.Yamagandam)

	require.Len(t, got.AuspiciousTimes, 2)
	// untyped windows default to General
	assert.Equal(t, domain.WindowTypeGeneral, got.AuspiciousTimes[0].Type)
	assert.Equal(t, domain.WindowTypeMarriage, got.AuspiciousTimes[1].Type)

	assert.NotEmpty(t, got.RawData)
}

func TestParseProKeralaDayBadDate(t *testing.T) {
	_, err := parseProKeralaDay(map[string]interface{}{"date": "nonsense"})
	assert.Error(t, err)
}

func TestInitializeColdStore(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, 30)

	// Warm store: above the threshold, Initialize is a no-op and must
	// not hit any data source.
	seed := make([]domain.Panchangam, coldStoreThreshold)
	for i := range seed {
		seed[i] = domain.Panchangam{Date: day(2026, 1, 1).AddDate(0, 0, i)}
	}
	require.NoError(t, db.CreateInBatches(seed, 200).Error)

	svc.OverrideAPIBase("http://127.0.0.1:1/panchangam")
	require.NoError(t, svc.Initialize())

	var count int64
	require.NoError(t, db.Model(&domain.Panchangam{}).Count(&count).Error)
	assert.Equal(t, int64(coldStoreThreshold), count)
}
