package journal

import (
	"context"
	"fmt"

	"github.com/julianstephens/thankful/internal/logger"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/utils"
)

// SettingsChange is a partial settings update. Nil fields are left alone.
type SettingsChange struct {
	UnlockHour    *int
	Timezone      *string
	Notifications *bool
}

// Empty reports whether the change touches nothing.
func (c SettingsChange) Empty() bool {
	return c.UnlockHour == nil && c.Timezone == nil && c.Notifications == nil
}

// Validate checks the hour range and that the timezone exists.
func (c SettingsChange) Validate() error {
	if c.UnlockHour != nil && (*c.UnlockHour < 0 || *c.UnlockHour > 23) {
		return fmt.Errorf("unlock hour must be between 0 and 23, got %d", *c.UnlockHour)
	}
	if c.Timezone != nil && !utils.ValidateTimezone(*c.Timezone) {
		return fmt.Errorf("unknown timezone %q", *c.Timezone)
	}
	return nil
}

// UpdateSettings sends the change to the backend, mirrors it locally and
// re-registers the reminder.
func (s *Service) UpdateSettings(ctx context.Context, c SettingsChange) (models.Settings, error) {
	if err := c.Validate(); err != nil {
		return models.Settings{}, err
	}
	if c.Empty() {
		return s.Settings(), nil
	}

	update := models.UserInfoUpdate{
		PreferredUnlockTime: c.UnlockHour,
		UserTimezone:        c.Timezone,
		NotifsOn:            c.Notifications,
	}
	if err := s.backend.UpdateUserInfo(ctx, update); err != nil {
		return models.Settings{}, err
	}

	settings := s.Settings()
	if c.UnlockHour != nil {
		h := *c.UnlockHour
		settings.PreferredUnlockHour = &h
	}
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
	}
	if c.Notifications != nil {
		settings.NotificationsEnabled = *c.Notifications
	}
	if err := s.store.SaveSettings(settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	if _, _, err := s.reminder.Reschedule(settings); err != nil {
		return settings, err
	}
	logger.Info("settings updated", "unlock_hour", settings.UnlockHour(), "timezone", settings.Timezone, "notifications", settings.NotificationsEnabled)
	return settings, nil
}
