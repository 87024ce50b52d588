package models

// UserInfo is the account profile kept by the backend.
type UserInfo struct {
	PreferredUnlockTime *int   `json:"preferred_unlock_time"`
	UserTimezone        string `json:"user_timezone"`
	NotifsOn            *bool  `json:"notifs_on"`
}

// UnlockHour returns the preferred unlock hour, falling back to the default when absent.
func (u UserInfo) UnlockHour() int {
	if u.PreferredUnlockTime == nil {
		return defaultUnlockHour()
	}
	return *u.PreferredUnlockTime
}

// NotificationsOn reports whether reminders are enabled. Absent means enabled.
func (u UserInfo) NotificationsOn() bool {
	return u.NotifsOn == nil || *u.NotifsOn
}

// UserInfoUpdate is the partial update sent when the user changes settings.
type UserInfoUpdate struct {
	PreferredUnlockTime *int    `json:"preferred_unlock_time,omitempty"`
	UserTimezone        *string `json:"user_timezone,omitempty"`
	NotifsOn            *bool   `json:"notifs_on,omitempty"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the signup payload.
type Registration struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}
