package app

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/annamworks/caterbook/internal/domain"
)

// GetSettings returns the single settings row, creating it with
// defaults on first access.
func (a *Application) GetSettings() (*domain.Settings, error) {
	var settings domain.Settings
	err := a.gormDB.First(&settings).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		settings = domain.Settings{
			Email:                   a.appConfig.Jobs.AdminEmail,
			ReminderDays:            []int{1, 3},
			NotificationsEnabled:    true,
			PanchangamFetchEnabled:  true,
			PanchangamDataDaysAhead: a.appConfig.Jobs.PanchangamDaysAhead,
		}
		if err := a.gormDB.Create(&settings).Error; err != nil {
			return nil, errors.Wrap(err, "create default settings")
		}
		zap.L().Info("initialized default settings",
			zap.String("email", settings.Email))
		return &settings, nil
	case err != nil:
		return nil, errors.Wrap(err, "load settings")
	}
	return &settings, nil
}

// checkSettings ensures the settings row exists at startup.
func (a *Application) checkSettings() {
	if _, err := a.GetSettings(); err != nil {
		zap.L().Error("failed to initialize settings", zap.Error(err))
	}
}
