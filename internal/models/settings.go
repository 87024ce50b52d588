package models

// Settings represents application-wide settings
type Settings struct {
	PreferredUnlockHour        *int   `json:"preferred_unlock_hour,omitempty"` // hour of day (0-23) the journal unlocks; nil means the default
	Timezone                   string `json:"timezone"`                        // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	NotificationsEnabled       bool   `json:"notifications_enabled"`           // whether the daily reminder is scheduled
	NotificationGracePeriodMin int    `json:"notification_grace_period_min"`   // how late a reminder may still be delivered, in minutes
	APIURL                     string `json:"api_url"`                         // base URL of the journal backend
}

// UnlockHour returns the configured unlock hour, or the default when unset.
func (s Settings) UnlockHour() int {
	if s.PreferredUnlockHour == nil {
		return defaultUnlockHour()
	}
	return *s.PreferredUnlockHour
}
