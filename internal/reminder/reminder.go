// Package reminder keeps the single daily journaling reminder in step with
// the user's settings and decides when it is due.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/thankful/internal/constants"
	"github.com/julianstephens/thankful/internal/logger"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/storage/common"
)

// Store persists the reminder row.
type Store interface {
	GetReminder() (models.Reminder, error)
	SaveReminder(models.Reminder) error
	DeleteReminder() error
	MarkReminderSent(at time.Time) error
}

// Sender delivers a notification.
type Sender interface {
	Notify(ctx context.Context, title, body string) error
}

type Scheduler struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Scheduler {
	return &Scheduler{store: store, now: time.Now}
}

// ForSettings builds the reminder the given settings call for. The trigger
// is on the hour the journal unlocks.
func ForSettings(s models.Settings) models.Reminder {
	return models.Reminder{
		ID:     1,
		Hour:   s.UnlockHour(),
		Minute: 0,
		Title:  constants.ReminderTitle,
		Body:   constants.ReminderBody,
		Active: s.NotificationsEnabled,
	}
}

// Reschedule cancels the current trigger and registers a new one from
// settings. With notifications off nothing is registered and ok is false.
func (s *Scheduler) Reschedule(settings models.Settings) (r models.Reminder, ok bool, err error) {
	if !settings.NotificationsEnabled {
		logger.Debug("reminder disabled")
		return models.Reminder{}, false, s.Cancel()
	}

	r = ForSettings(settings)
	r.CreatedAt = s.now()
	// A rejected trigger leaves the current one in place.
	if err := r.Validate(); err != nil {
		return models.Reminder{}, false, fmt.Errorf("failed to save reminder: %w", err)
	}
	if err := s.Cancel(); err != nil {
		return models.Reminder{}, false, err
	}
	if err := s.store.SaveReminder(r); err != nil {
		return models.Reminder{}, false, fmt.Errorf("failed to save reminder: %w", err)
	}
	logger.Debug("reminder scheduled", "at", r.FormatTime())
	return r, true, nil
}

// Cancel removes the trigger. Cancelling when none exists is not an error.
func (s *Scheduler) Cancel() error {
	if err := s.store.DeleteReminder(); err != nil {
		return fmt.Errorf("failed to cancel reminder: %w", err)
	}
	return nil
}

// Current returns the registered reminder, if any.
func (s *Scheduler) Current() (models.Reminder, bool, error) {
	r, err := s.store.GetReminder()
	if errors.Is(err, common.ErrNotFound) {
		return models.Reminder{}, false, nil
	}
	if err != nil {
		return models.Reminder{}, false, err
	}
	return r, true, nil
}

// Due reports whether r should fire at now: it is active, has not been sent
// on now's day, and now falls within [fire time, fire time + grace).
func Due(r models.Reminder, now time.Time, grace time.Duration) bool {
	if !r.Active || r.SentOn(now) {
		return false
	}
	fire := r.FireTime(now)
	if now.Before(fire) {
		return false
	}
	return grace <= 0 || now.Before(fire.Add(grace))
}

// NextFire returns the next trigger time strictly after now, skipping today
// if it was already sent.
func NextFire(r models.Reminder, now time.Time) time.Time {
	fire := r.FireTime(now)
	if now.Before(fire) && !r.SentOn(now) {
		return fire
	}
	return r.FireTime(now.AddDate(0, 0, 1))
}

// Fire sends the reminder if it is due at now and records the delivery.
// It reports whether a notification went out.
func (s *Scheduler) Fire(ctx context.Context, sender Sender, now time.Time, grace time.Duration) (bool, error) {
	r, ok, err := s.Current()
	if err != nil || !ok {
		return false, err
	}
	if !Due(r, now, grace) {
		logger.Debug("reminder not due", "next", NextFire(r, now))
		return false, nil
	}
	if err := sender.Notify(ctx, r.Title, r.Body); err != nil {
		return false, fmt.Errorf("failed to send reminder: %w", err)
	}
	if err := s.store.MarkReminderSent(now); err != nil {
		return true, fmt.Errorf("reminder sent but not recorded: %w", err)
	}
	logger.Info("reminder sent", "at", now)
	return true, nil
}
