package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName             = "thankful"
	KeyringUserToken    = "auth-token"
	KeyringUserDatabase = "database-connection"
	DefaultConfigPath   = "~/.config/thankful/thankful.db"
	DefaultAPIURL       = "http://localhost:3000"
	Version             = "v0.1.0"

	// Environment variables
	EnvAPIURL            = "THANKFUL_API_URL"
	EnvDBConnection      = "THANKFUL_DB_CONNECTION"
	EnvRequestsPerSecond = "THANKFUL_REQUESTS_PER_SECOND"

	// HTTP client constants
	DefaultRequestTimeout    = 10 * time.Second
	DefaultRequestsPerSecond = 2.0
	DefaultRequestBurst      = 4
	DefaultPageSize          = 10

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "thankful-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.thankful"
	TrayExecutablePrefix   = "thankful-tray"

	// Reminder copy
	ReminderTitle = "What are 3 things you're grateful for?"
	ReminderBody  = "Open your gratitude journal!"
)

// Session states. The first four are the tabs, in display order.
const (
	StateWrite SessionState = iota
	StateCalendar
	StateEntries
	StateSettings
	StateDayDetail
	StateEditSettings
	StateConfirmDelete
)
