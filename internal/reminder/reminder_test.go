package reminder

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/thankful/internal/constants"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/storage/sqlite"
)

type fakeSender struct {
	calls []string
	err   error
}

func (f *fakeSender) Notify(_ context.Context, title, body string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, title+"|"+body)
	return nil
}

func setupScheduler(t *testing.T) (*Scheduler, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "thankful.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	s := New(store)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s, store
}

func TestReschedule(t *testing.T) {
	s, _ := setupScheduler(t)

	hour := 7
	r, ok, err := s.Reschedule(models.Settings{PreferredUnlockHour: &hour, NotificationsEnabled: true})
	if err != nil || !ok {
		t.Fatalf("Reschedule() = %v, %v", ok, err)
	}
	if r.Hour != 7 || r.Minute != 0 || r.Title != constants.ReminderTitle || r.Body != constants.ReminderBody {
		t.Errorf("Reschedule() reminder = %+v", r)
	}

	// Unset hour falls back to the default unlock hour.
	r, _, err = s.Reschedule(models.Settings{NotificationsEnabled: true})
	if err != nil {
		t.Fatalf("Reschedule() error = %v", err)
	}
	if r.Hour != constants.DefaultUnlockHour {
		t.Errorf("Hour = %d, want %d", r.Hour, constants.DefaultUnlockHour)
	}
	got, ok, err := s.Current()
	if err != nil || !ok {
		t.Fatalf("Current() = %v, %v", ok, err)
	}
	if got.Hour != constants.DefaultUnlockHour {
		t.Errorf("stored Hour = %d, want a single re-registered trigger at %d", got.Hour, constants.DefaultUnlockHour)
	}

	// Disabling notifications cancels without re-registering.
	if _, ok, err := s.Reschedule(models.Settings{NotificationsEnabled: false}); err != nil || ok {
		t.Fatalf("Reschedule(disabled) = %v, %v", ok, err)
	}
	if _, ok, _ := s.Current(); ok {
		t.Error("Current() found a reminder after disabling notifications")
	}
}

func TestCancelIdempotent(t *testing.T) {
	s, _ := setupScheduler(t)
	if err := s.Cancel(); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if err := s.Cancel(); err != nil {
		t.Fatalf("second Cancel() error = %v", err)
	}
}

func TestDue(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	day := func(h, m int) time.Time { return time.Date(2025, 6, 14, h, m, 0, 0, loc) }
	yesterday := day(20, 1).AddDate(0, 0, -1)
	today := day(20, 1)

	tests := []struct {
		name  string
		r     models.Reminder
		now   time.Time
		grace time.Duration
		want  bool
	}{
		{"before fire time", models.Reminder{Hour: 20, Active: true}, day(19, 59), 30 * time.Minute, false},
		{"at fire time", models.Reminder{Hour: 20, Active: true}, day(20, 0), 30 * time.Minute, true},
		{"within grace", models.Reminder{Hour: 20, Active: true}, day(20, 29), 30 * time.Minute, true},
		{"after grace", models.Reminder{Hour: 20, Active: true}, day(20, 30), 30 * time.Minute, false},
		{"no grace means rest of day", models.Reminder{Hour: 20, Active: true}, day(23, 59), 0, true},
		{"inactive", models.Reminder{Hour: 20}, day(20, 0), 30 * time.Minute, false},
		{"sent yesterday", models.Reminder{Hour: 20, Active: true, LastSent: &yesterday}, day(20, 5), 30 * time.Minute, true},
		{"sent today", models.Reminder{Hour: 20, Active: true, LastSent: &today}, day(20, 5), 30 * time.Minute, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Due(tt.r, tt.now, tt.grace); got != tt.want {
				t.Errorf("Due() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextFire(t *testing.T) {
	r := models.Reminder{Hour: 20, Active: true}
	morning := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	if got, want := NextFire(r, morning), time.Date(2025, 6, 14, 20, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("NextFire(morning) = %v, want %v", got, want)
	}
	night := time.Date(2025, 6, 14, 21, 0, 0, 0, time.UTC)
	if got, want := NextFire(r, night), time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("NextFire(night) = %v, want %v", got, want)
	}
}

func TestFire(t *testing.T) {
	s, store := setupScheduler(t)
	ctx := context.Background()
	sender := &fakeSender{}
	grace := 30 * time.Minute

	// Nothing registered.
	if sent, err := s.Fire(ctx, sender, time.Now(), grace); err != nil || sent {
		t.Fatalf("Fire() with no reminder = %v, %v", sent, err)
	}

	if _, _, err := s.Reschedule(models.Settings{NotificationsEnabled: true}); err != nil {
		t.Fatalf("Reschedule() error = %v", err)
	}

	at := time.Date(2025, 6, 14, 20, 5, 0, 0, time.UTC)
	sent, err := s.Fire(ctx, sender, at, grace)
	if err != nil || !sent {
		t.Fatalf("Fire() = %v, %v, want sent", sent, err)
	}
	if len(sender.calls) != 1 || sender.calls[0] != constants.ReminderTitle+"|"+constants.ReminderBody {
		t.Errorf("sender calls = %v", sender.calls)
	}

	r, err := store.GetReminder()
	if err != nil {
		t.Fatalf("GetReminder() error = %v", err)
	}
	if r.LastSent == nil || !r.LastSent.Equal(at) {
		t.Errorf("LastSent = %v, want %v", r.LastSent, at)
	}

	// Only once per day.
	if sent, err := s.Fire(ctx, sender, at.Add(time.Minute), grace); err != nil || sent {
		t.Errorf("second Fire() = %v, %v, want not sent", sent, err)
	}

	// Delivery failure leaves the reminder unsent.
	failing := &fakeSender{err: errors.New("tray down")}
	next := at.AddDate(0, 0, 1)
	if sent, err := s.Fire(ctx, failing, next, grace); err == nil || sent {
		t.Errorf("Fire() with failing sender = %v, %v", sent, err)
	}
	if sent, err := s.Fire(ctx, sender, next, grace); err != nil || !sent {
		t.Errorf("Fire() retry = %v, %v, want sent", sent, err)
	}
}

func TestRescheduleRejectedKeepsCurrent(t *testing.T) {
	s, _ := setupScheduler(t)

	hour := 7
	if _, _, err := s.Reschedule(models.Settings{PreferredUnlockHour: &hour, NotificationsEnabled: true}); err != nil {
		t.Fatal(err)
	}

	bad := 24
	if _, _, err := s.Reschedule(models.Settings{PreferredUnlockHour: &bad, NotificationsEnabled: true}); err == nil {
		t.Fatal("Reschedule() accepted hour 24")
	}
	got, ok, err := s.Current()
	if err != nil || !ok {
		t.Fatalf("Current() = %v, %v", ok, err)
	}
	if got.Hour != 7 {
		t.Errorf("Current().Hour = %d, want 7", got.Hour)
	}
}
