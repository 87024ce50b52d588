// Package journal ties the backend client, local storage, the calendar
// index and the unlock gate together for the CLI and the TUI.
package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/thankful/internal/api"
	"github.com/julianstephens/thankful/internal/calendar"
	"github.com/julianstephens/thankful/internal/logger"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/reminder"
	"github.com/julianstephens/thankful/internal/storage"
	"github.com/julianstephens/thankful/internal/unlock"
	"github.com/julianstephens/thankful/internal/utils"
)

var (
	// ErrNotToday is returned when deleting an entry that was not written today.
	ErrNotToday = errors.New("only today's entry can be deleted")
	// ErrNoEntry is returned when a day has no entry.
	ErrNoEntry = errors.New("no entry for that day")
)

// Backend is the subset of the API client the journal needs.
type Backend interface {
	EntryDays(ctx context.Context) ([]models.EntryRef, error)
	GetEntry(ctx context.Context, id int64) (*models.Entry, error)
	ListEntries(ctx context.Context, limit, offset int) (*api.EntryPage, error)
	CreateEntry(ctx context.Context, e models.NewEntry) error
	DeleteEntry(ctx context.Context, id int64) error
	Last31(ctx context.Context) ([]time.Time, error)
	UserInfo(ctx context.Context) (*models.UserInfo, error)
	UpdateUserInfo(ctx context.Context, update models.UserInfoUpdate) error
	MonthlySummary(ctx context.Context) (string, error)
}

var _ Backend = (*api.Client)(nil)

// Source says where an index came from.
type Source int

const (
	SourceNone Source = iota
	SourceRemote
	SourceCache
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceCache:
		return "cache"
	default:
		return "none"
	}
}

// IndexResult is an entry-day index plus where it came from.
type IndexResult struct {
	Index     calendar.Index
	Source    Source
	FetchedAt time.Time
	// Err is the remote fetch error, if any. The index is still usable.
	Err error
}

type Service struct {
	backend  Backend
	store    storage.Provider
	reminder *reminder.Scheduler
	now      func() time.Time

	mu   sync.Mutex
	gate *unlock.Gate
}

type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(backend Backend, store storage.Provider, opts ...Option) *Service {
	s := &Service{
		backend:  backend,
		store:    store,
		reminder: reminder.New(store),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	// The hour is read from settings on every Evaluate; the store may not
	// be open yet.
	s.gate = unlock.NewGate(nil)
	return s
}

// Settings returns the local settings, or defaults when they cannot be read.
func (s *Service) Settings() models.Settings {
	settings, err := s.store.GetSettings()
	if err != nil {
		logger.Warn("failed to read settings, using defaults", "error", err)
		settings = models.Settings{NotificationsEnabled: true}
		models.ApplyDefaultSettings(&settings)
	}
	return settings
}

// Location is the viewer's timezone. An invalid configured zone falls
// back to the system zone.
func (s *Service) Location() *time.Location {
	tz := s.Settings().Timezone
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		logger.Warn("invalid timezone in settings, using local", "timezone", tz, "error", err)
		return time.Local
	}
	return loc
}

// Now returns the current time in the viewer's timezone.
func (s *Service) Now() time.Time {
	return s.now().In(s.Location())
}

// Reminder exposes the reminder scheduler.
func (s *Service) Reminder() *reminder.Scheduler {
	return s.reminder
}

// LoadIndex builds the entry-day index. The remote list is preferred and
// cached on success. When offline is set, or the fetch fails, the cache is
// used; with no cache the index is empty.
func (s *Service) LoadIndex(ctx context.Context, offline bool) IndexResult {
	loc := s.Location()

	var fetchErr error
	if !offline {
		refs, err := s.backend.EntryDays(ctx)
		if err == nil {
			fetched := s.now()
			if err := s.store.ReplaceEntryRefs(refs, fetched); err != nil {
				logger.Warn("failed to cache entry days", "error", err)
			}
			return IndexResult{Index: calendar.BuildIndex(refs, loc), Source: SourceRemote, FetchedAt: fetched}
		}
		fetchErr = err
		logger.Warn("failed to fetch entry days", "error", err)
	}

	refs, fetched, err := s.store.GetEntryRefs()
	if err != nil || fetched.IsZero() {
		if err != nil {
			logger.Warn("failed to read entry cache", "error", err)
		}
		return IndexResult{Index: calendar.EmptyIndex(loc), Source: SourceNone, Err: fetchErr}
	}
	return IndexResult{Index: calendar.BuildIndex(refs, loc), Source: SourceCache, FetchedAt: fetched, Err: fetchErr}
}

// Snapshot is everything the home screens need, fetched together.
type Snapshot struct {
	Now          time.Time
	Index        IndexResult
	User         *models.UserInfo
	UserErr      error
	MonthlyCount int
	Status       unlock.Status
}

// Load fetches the entry days, the user profile and the recent-entry count
// concurrently. Each part fails on its own; Load itself only fails when ctx
// is cancelled.
func (s *Service) Load(ctx context.Context, offline bool) (Snapshot, error) {
	var (
		snap   Snapshot
		recent []time.Time
	)

	var g errgroup.Group
	g.Go(func() error {
		snap.Index = s.LoadIndex(ctx, offline)
		return nil
	})
	if !offline {
		g.Go(func() error {
			snap.User, snap.UserErr = s.backend.UserInfo(ctx)
			if snap.UserErr != nil {
				logger.Warn("failed to fetch user info", "error", snap.UserErr)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			if recent, err = s.backend.Last31(ctx); err != nil {
				logger.Warn("failed to fetch recent entries", "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	if snap.User != nil {
		if _, err := s.SyncFromUser(*snap.User); err != nil {
			logger.Warn("failed to mirror user settings", "error", err)
		}
	}

	snap.Now = s.Now()
	if offline {
		snap.MonthlyCount = snap.Index.Index.CountInMonth(calendar.MonthOf(snap.Now))
	} else {
		snap.MonthlyCount = calendar.MonthlyCount(recent, snap.Now)
	}
	snap.Status = s.Evaluate(snap.Now, snap.Index)
	return snap, nil
}

// Evaluate runs the unlock gate against an index. A missing index counts
// as "not submitted".
func (s *Service) Evaluate(now time.Time, ix IndexResult) unlock.Status {
	var latest time.Time
	var latestErr error
	if ref, ok := ix.Index.Latest(); ok {
		latest = ref.Timestamp
	} else if ix.Err != nil {
		latestErr = ix.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate.SetHour(s.Settings().PreferredUnlockHour)
	return s.gate.Evaluate(now, latest, latestErr)
}

// UnlockEarly opens the form before the configured hour for this session.
func (s *Service) UnlockEarly() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate.UnlockEarly()
}

// ResetEarly clears the early override.
func (s *Service) ResetEarly() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate.Reset()
}

// SyncFromUser mirrors the backend profile into local settings and
// re-registers the reminder when anything relevant changed.
func (s *Service) SyncFromUser(info models.UserInfo) (bool, error) {
	settings := s.Settings()
	next := settings

	if err := (SettingsChange{UnlockHour: info.PreferredUnlockTime}).Validate(); err != nil {
		logger.Warn("ignoring invalid unlock hour from server", "error", err)
	} else {
		next.PreferredUnlockHour = info.PreferredUnlockTime
	}
	if info.UserTimezone != "" {
		if utils.ValidateTimezone(info.UserTimezone) {
			next.Timezone = info.UserTimezone
		} else {
			logger.Warn("ignoring invalid timezone from server", "timezone", info.UserTimezone)
		}
	}
	next.NotificationsEnabled = info.NotificationsOn()

	if sameSettings(settings, next) {
		return false, nil
	}
	if err := s.store.SaveSettings(next); err != nil {
		return false, fmt.Errorf("failed to save settings: %w", err)
	}
	if _, _, err := s.reminder.Reschedule(next); err != nil {
		return true, err
	}
	return true, nil
}

func sameSettings(a, b models.Settings) bool {
	if (a.PreferredUnlockHour == nil) != (b.PreferredUnlockHour == nil) {
		return false
	}
	if a.PreferredUnlockHour != nil && *a.PreferredUnlockHour != *b.PreferredUnlockHour {
		return false
	}
	return a.Timezone == b.Timezone && a.NotificationsEnabled == b.NotificationsEnabled
}
