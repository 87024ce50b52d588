package constants

import "time"

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat identifies a calendar month (YYYY-MM)
	MonthFormat = "2006-01"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// FirstJournalYear and FirstJournalMonth mark the earliest month the calendar can show.
	FirstJournalYear  = 2025
	FirstJournalMonth = time.February
)

// FallbackTimezones are offered when the system timezone database cannot be listed.
var FallbackTimezones = []string{
	"UTC",
	"America/New_York",
	"America/Los_Angeles",
	"Europe/London",
	"Europe/Berlin",
	"Asia/Tokyo",
	"Asia/Kolkata",
	"Asia/Dubai",
	"Australia/Sydney",
}
