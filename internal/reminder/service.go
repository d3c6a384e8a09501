package reminder

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/annamworks/caterbook/internal/domain"
	"github.com/annamworks/caterbook/pkg/common"
)

// Service sends reminder mail for upcoming bookings. It runs once
// daily from the scheduler and can be invoked directly.
type Service struct {
	db        *gorm.DB
	transport Transport
}

func NewService(db *gorm.DB, transport Transport) *Service {
	return &Service{db: db, transport: transport}
}

// RunResult tallies one reminder run. The job is best-effort: a
// partial run still reports the notifications that went out.
type RunResult struct {
	Success    bool `json:"success"`
	EmailsSent int  `json:"emails_sent"`
}

func (s *Service) settings() *domain.Settings {
	var settings domain.Settings
	if err := s.db.First(&settings).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Error("reminder: settings lookup failed", zap.Error(err))
		}
		return nil
	}
	return &settings
}

// SendEventReminder renders and dispatches one reminder. Returns false
// without error when notifications are disabled or no admin email is
// configured.
func (s *Service) SendEventReminder(event *domain.Event, daysUntil int) (bool, error) {
	settings := s.settings()
	if settings == nil || !settings.NotificationsEnabled || settings.Email == "" {
		zap.L().Debug("reminder: notifications disabled or email not configured")
		return false, nil
	}

	subject, body, err := renderReminder(event, daysUntil)
	if err != nil {
		return false, err
	}
	if err := s.transport.Send(Message{To: settings.Email, Subject: subject, HTML: body}); err != nil {
		return false, errors.Wrap(err, "send reminder")
	}
	zap.L().Info("reminder email sent",
		zap.String("client", event.ClientName),
		zap.Int("days_until", daysUntil))
	return true, nil
}

// SendAdvancePendingReminder notifies about an outstanding balance.
func (s *Service) SendAdvancePendingReminder(event *domain.Event) (bool, error) {
	settings := s.settings()
	if settings == nil || !settings.NotificationsEnabled || settings.Email == "" {
		return false, nil
	}
	subject, body, err := renderAdvancePending(event)
	if err != nil {
		return false, err
	}
	if err := s.transport.Send(Message{To: settings.Email, Subject: subject, HTML: body}); err != nil {
		return false, errors.Wrap(err, "send advance pending reminder")
	}
	return true, nil
}

// CheckAndSend finds non-cancelled events at each configured offset
// from now (plus a same-day check) and sends one reminder per event.
// Per-event failures are logged and do not stop the run.
func (s *Service) CheckAndSend(now time.Time) *RunResult {
	settings := s.settings()
	if settings == nil || !settings.NotificationsEnabled {
		zap.L().Info("reminder: notifications are disabled")
		return &RunResult{Success: false, EmailsSent: 0}
	}

	offsets := settings.ReminderDays
	if len(offsets) == 0 {
		offsets = []int{1, 3}
	}
	// Same-day reminders always run; skip the extra pass if 0 is
	// already configured.
	hasZero := false
	for _, d := range offsets {
		if d == 0 {
			hasZero = true
		}
	}
	if !hasZero {
		offsets = append(offsets, 0)
	}

	today := common.DayOf(now)
	sent := 0
	for _, offset := range offsets {
		target := today.AddDate(0, 0, offset)

		var events []domain.Event
		err := s.db.
			Where("event_date = ? AND status <> ?", target, domain.EventStatusCancelled).
			Find(&events).Error
		if err != nil {
			zap.L().Error("reminder: event lookup failed",
				zap.Time("target", target), zap.Error(err))
			continue
		}

		for i := range events {
			ok, err := s.SendEventReminder(&events[i], offset)
			if err != nil {
				zap.L().Error("reminder: send failed",
					zap.Int64("event_id", events[i].ID), zap.Error(err))
				continue
			}
			if ok {
				sent++
			}
		}
	}

	zap.L().Info("reminder run finished", zap.Int("emails_sent", sent))
	return &RunResult{Success: true, EmailsSent: sent}
}
