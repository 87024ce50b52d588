package constants

const (
	// General Settings
	SettingPreferredUnlockHour        = "preferred_unlock_hour"
	SettingTimezone                   = "timezone"
	SettingNotificationsEnabled       = "notifications_enabled"
	SettingNotificationGracePeriodMin = "notification_grace_period_min"
	SettingAPIURL                     = "api_url"

	// Default Settings Values
	DefaultUnlockHour                 = 20
	DefaultNotificationsEnabled       = true
	DefaultNotificationGracePeriodMin = 30
	DefaultTimezone                   = "Local" // Use system local timezone by default
)
