package journal

import (
	"context"
	"fmt"

	"github.com/julianstephens/thankful/internal/api"
	"github.com/julianstephens/thankful/internal/calendar"
	"github.com/julianstephens/thankful/internal/logger"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/unlock"
	"github.com/julianstephens/thankful/internal/utils"
)

// LockedError is returned by Submit when the gate is closed.
type LockedError struct {
	Status unlock.Status
}

func (e *LockedError) Error() string { return e.Status.Message() }

// UserMessage lets the CLI print the lock text verbatim.
func (e *LockedError) UserMessage() string { return e.Status.Message() }

// Submit validates and sends today's entry. The gate is checked first
// against a fresh index; the backend still enforces one entry per day.
func (s *Service) Submit(ctx context.Context, e models.NewEntry) error {
	e.Trim()
	if err := e.Validate(); err != nil {
		return err
	}

	if st := s.Evaluate(s.Now(), s.LoadIndex(ctx, false)); st.Locked {
		return &LockedError{Status: st}
	}

	if err := s.backend.CreateEntry(ctx, e); err != nil {
		return err
	}
	logger.Info("entry submitted")

	// Refresh the cache so the calendar and gate see the new entry.
	s.LoadIndex(ctx, false)
	s.ResetEarly()
	return nil
}

// EntryOn fetches the entry indexed under a YYYY-MM-DD key.
func (s *Service) EntryOn(ctx context.Context, ix calendar.Index, key string) (*models.Entry, error) {
	ref, ok := ix.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNoEntry)
	}
	return s.backend.GetEntry(ctx, ref.ID)
}

// Today returns today's entry reference, if one exists.
func (s *Service) Today(ctx context.Context) (models.EntryRef, bool, IndexResult) {
	ix := s.LoadIndex(ctx, false)
	ref, ok := ix.Index.Lookup(utils.DateKey(s.Now()))
	return ref, ok, ix
}

// DeleteToday removes today's entry, if any.
func (s *Service) DeleteToday(ctx context.Context) (models.EntryRef, error) {
	ref, ok, ix := s.Today(ctx)
	if !ok {
		if ix.Err != nil {
			return models.EntryRef{}, ix.Err
		}
		return models.EntryRef{}, fmt.Errorf("today: %w", ErrNoEntry)
	}
	if err := s.Delete(ctx, ref); err != nil {
		return models.EntryRef{}, err
	}
	return ref, nil
}

// Delete removes an entry, refusing any not written on the viewer's today.
func (s *Service) Delete(ctx context.Context, ref models.EntryRef) error {
	if !utils.SameDay(ref.Timestamp, s.now(), s.Location()) {
		return ErrNotToday
	}
	if err := s.backend.DeleteEntry(ctx, ref.ID); err != nil {
		return err
	}
	logger.Info("entry deleted", "id", ref.ID)
	s.LoadIndex(ctx, false)
	return nil
}

// List fetches one page of entries.
func (s *Service) List(ctx context.Context, limit, offset int) (*api.EntryPage, error) {
	return s.backend.ListEntries(ctx, limit, offset)
}

// Summary fetches the monthly summary text.
func (s *Service) Summary(ctx context.Context) (string, error) {
	return s.backend.MonthlySummary(ctx)
}

// MonthlyCount counts entries written in the viewer's current month using
// the last-31-days list. A failed fetch counts as zero.
func (s *Service) MonthlyCount(ctx context.Context) int {
	recent, err := s.backend.Last31(ctx)
	if err != nil {
		logger.Warn("failed to fetch recent entries", "error", err)
		return 0
	}
	return calendar.MonthlyCount(recent, s.Now())
}
