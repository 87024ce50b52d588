package storage

import (
	"time"

	"github.com/julianstephens/thankful/internal/migration"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/storage/common"
)

var (
	// ErrNotInitialized is returned by Load when the database has not been created.
	ErrNotInitialized = common.ErrNotInitialized
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = common.ErrNotFound
)

// Provider is the local state kept between runs: settings, the reminder
// schedule and an offline copy of the entry-day index.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Reminder (a single row)
	GetReminder() (models.Reminder, error)
	SaveReminder(models.Reminder) error
	DeleteReminder() error
	MarkReminderSent(at time.Time) error

	// Entry-day cache. ReplaceEntryRefs swaps the whole set; there is no
	// incremental update.
	ReplaceEntryRefs(refs []models.EntryRef, fetchedAt time.Time) error
	GetEntryRefs() ([]models.EntryRef, time.Time, error)
	ClearEntryRefs() error

	// Utils
	SchemaStatus() (migration.Status, error)
	GetConfigPath() string
}
