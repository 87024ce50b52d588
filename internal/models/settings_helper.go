package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/thankful/internal/constants"
)

func defaultUnlockHour() int {
	return constants.DefaultUnlockHour
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingPreferredUnlockHour:
			if value == "" {
				continue
			}
			hour, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing preferred_unlock_hour: %w", err)
			}
			if hour < 0 || hour > 23 {
				return Settings{}, fmt.Errorf("preferred_unlock_hour out of range: %d", hour)
			}
			settings.PreferredUnlockHour = &hour
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingNotificationGracePeriodMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.NotificationGracePeriodMin); err != nil {
				return Settings{}, fmt.Errorf("parsing notification_grace_period_min: %w", err)
			}
		case constants.SettingAPIURL:
			settings.APIURL = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	hour := ""
	if settings.PreferredUnlockHour != nil {
		hour = strconv.Itoa(*settings.PreferredUnlockHour)
	}
	return map[string]string{
		constants.SettingPreferredUnlockHour:        hour,
		constants.SettingTimezone:                   settings.Timezone,
		constants.SettingNotificationsEnabled:       fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingNotificationGracePeriodMin: fmt.Sprintf("%d", settings.NotificationGracePeriodMin),
		constants.SettingAPIURL:                     settings.APIURL,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
// The unlock hour is left nil so callers can tell "unset" from an explicit choice.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.NotificationGracePeriodMin == 0 {
		settings.NotificationGracePeriodMin = constants.DefaultNotificationGracePeriodMin
	}
	if settings.APIURL == "" {
		settings.APIURL = constants.DefaultAPIURL
	}
}
