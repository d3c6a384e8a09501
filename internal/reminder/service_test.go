package reminder

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/annamworks/caterbook/internal/domain"
	"github.com/annamworks/caterbook/pkg/common"
)

// recordingTransport captures outgoing mail in order.
type recordingTransport struct {
	sent     []Message
	attempts int
	failAt   int // 1-based attempt index that errors, 0 for never
}

func (r *recordingTransport) Send(msg Message) error {
	r.attempts++
	if r.failAt > 0 && r.attempts == r.failAt {
		return errors.New("smtp unavailable")
	}
	r.sent = append(r.sent, msg)
	return nil
}

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

func seedSettings(t *testing.T, db *gorm.DB, s domain.Settings) {
	t.Helper()
	require.NoError(t, db.Create(&s).Error)
}

func seedEvent(t *testing.T, db *gorm.DB, date time.Time, status string) *domain.Event {
	t.Helper()
	event := &domain.Event{
		ID:          common.UUIDint64(),
		EventDate:   common.DayOf(date),
		EventTime:   "18:00",
		EventType:   "Marriage",
		ClientName:  "Kumar",
		PhoneNumber: "9876543210",
		Location:    "Hall A",
		TotalAmount: 50000,
		AdvancePaid: 20000,
		Status:      status,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func TestSendEventReminder(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, domain.Settings{
		Email:                "boss@example.com",
		NotificationsEnabled: true,
	})
	transport := &recordingTransport{}
	svc := NewService(db, transport)

	event := seedEvent(t, db, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), domain.EventStatusActive)

	ok, err := svc.SendEventReminder(event, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, transport.sent, 1)
	msg := transport.sent[0]
	assert.Equal(t, "boss@example.com", msg.To)
	assert.Equal(t, "Catering Reminder: Marriage on 15/03/2026 - 3d left", msg.Subject)
	assert.Contains(t, msg.HTML, "Your event is in 3 days")
	assert.Contains(t, msg.HTML, "Kumar")
	// balance 30000 is pending, so the payment notice renders
	assert.Contains(t, msg.HTML, "30000.00")
	assert.Contains(t, msg.HTML, "Payment Reminder")
}

func TestSendEventReminderDisabled(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, domain.Settings{
		Email:                "boss@example.com",
		NotificationsEnabled: false,
	})
	transport := &recordingTransport{}
	svc := NewService(db, transport)

	event := seedEvent(t, db, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), domain.EventStatusActive)

	ok, err := svc.SendEventReminder(event, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, transport.sent)
}

func TestSendEventReminderNoEmail(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, domain.Settings{NotificationsEnabled: true})
	transport := &recordingTransport{}
	svc := NewService(db, transport)

	event := seedEvent(t, db, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), domain.EventStatusActive)

	ok, err := svc.SendEventReminder(event, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, transport.sent)
}

func TestHeadlines(t *testing.T) {
	assert.Equal(t, "Your event is TODAY!", headline(0))
	assert.Equal(t, "Your event is TOMORROW!", headline(1))
	assert.Equal(t, "Your event is in 5 days", headline(5))
}

func TestCheckAndSendOffsets(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, domain.Settings{
		Email:                "boss@example.com",
		ReminderDays:         []int{1, 3},
		NotificationsEnabled: true,
	})
	transport := &recordingTransport{}
	svc := NewService(db, transport)

	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	seedEvent(t, db, now, domain.EventStatusActive)                   // today
	seedEvent(t, db, now.AddDate(0, 0, 1), domain.EventStatusActive)  // +1
	seedEvent(t, db, now.AddDate(0, 0, 2), domain.EventStatusActive)  // +2, no offset
	seedEvent(t, db, now.AddDate(0, 0, 3), domain.EventStatusActive)  // +3
	seedEvent(t, db, now.AddDate(0, 0, 3), domain.EventStatusCancelled)

	result := svc.CheckAndSend(now)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.EmailsSent)
	assert.Len(t, transport.sent, 3)
}

func TestCheckAndSendSameDayNotDoubled(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, domain.Settings{
		Email:                "boss@example.com",
		ReminderDays:         []int{0, 1},
		NotificationsEnabled: true,
	})
	transport := &recordingTransport{}
	svc := NewService(db, transport)

	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	seedEvent(t, db, now, domain.EventStatusActive)

	result := svc.CheckAndSend(now)
	assert.Equal(t, 1, result.EmailsSent)
}

func TestCheckAndSendDisabled(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, domain.Settings{
		Email:                "boss@example.com",
		NotificationsEnabled: false,
	})
	transport := &recordingTransport{}
	svc := NewService(db, transport)

	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	seedEvent(t, db, now, domain.EventStatusActive)

	result := svc.CheckAndSend(now)
	assert.False(t, result.Success)
	assert.Zero(t, result.EmailsSent)
	assert.Empty(t, transport.sent)
}

func TestCheckAndSendContinuesAfterFailure(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, domain.Settings{
		Email:                "boss@example.com",
		ReminderDays:         []int{1},
		NotificationsEnabled: true,
	})
	transport := &recordingTransport{failAt: 1}
	svc := NewService(db, transport)

	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	seedEvent(t, db, now.AddDate(0, 0, 1), domain.EventStatusActive)
	seedEvent(t, db, now, domain.EventStatusActive)

	result := svc.CheckAndSend(now)
	assert.True(t, result.Success)
	// first send fails, the run moves on and the other goes out
	assert.Equal(t, 1, result.EmailsSent)
	assert.Len(t, transport.sent, 1)
}

func TestSendAdvancePendingReminder(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, domain.Settings{
		Email:                "boss@example.com",
		NotificationsEnabled: true,
	})
	transport := &recordingTransport{}
	svc := NewService(db, transport)

	event := seedEvent(t, db, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), domain.EventStatusActive)

	ok, err := svc.SendAdvancePendingReminder(event)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, "Payment Pending: Kumar - Rs. 30000.00", transport.sent[0].Subject)
	assert.Contains(t, transport.sent[0].HTML, "outstanding balance")
}
