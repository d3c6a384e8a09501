package app

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// initJob registers the two daily jobs: panchangam ingestion and
// event reminders. Task bodies are plain methods so tests and the
// one-shot CLI flags can invoke them without the scheduler.
func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	fetchSpec := fmt.Sprintf("%d %d * * *",
		a.appConfig.Jobs.PanchangamFetchMinute, a.appConfig.Jobs.PanchangamFetchHour)
	if _, err := a.sched.AddFunc(fetchSpec, a.SchedPanchangamFetchTask); err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	reminderSpec := fmt.Sprintf("%d %d * * *",
		a.appConfig.Jobs.ReminderMinute, a.appConfig.Jobs.ReminderHour)
	if _, err := a.sched.AddFunc(reminderSpec, a.SchedReminderTask); err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
	zap.L().Info("scheduled jobs initialized",
		zap.String("panchangam_fetch", fetchSpec),
		zap.String("reminders", reminderSpec))
}

// SchedPanchangamFetchTask runs the daily ingestion. A failed run
// keeps prior data and does not retry until the next scheduled run.
func (a *Application) SchedPanchangamFetchTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	settings, err := a.GetSettings()
	if err != nil {
		zap.L().Error("panchangam fetch: settings unavailable", zap.Error(err))
		return
	}
	if !settings.PanchangamFetchEnabled {
		zap.L().Info("panchangam fetch disabled in settings")
		return
	}

	if _, err := a.panchangamSvc.FetchAndStore(); err != nil {
		zap.L().Error("scheduled panchangam fetch failed", zap.Error(err))
	}
}

// SchedReminderTask runs the daily reminder check.
func (a *Application) SchedReminderTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	result := a.reminderSvc.CheckAndSend(time.Now())
	if !result.Success {
		zap.L().Warn("reminder run skipped or incomplete")
	}
}
