package postgres

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/julianstephens/thankful/internal/constants"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/storage/common"
)

// TestStore_Integration exercises the store against a real database.
// Set POSTGRES_TEST_URL to run it, e.g.
// POSTGRES_TEST_URL="postgres://thankful_user@localhost:5432/thankful_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	t.Run("Settings", func(t *testing.T) {
		settings, err := store.GetSettings()
		if err != nil {
			t.Fatalf("Failed to get settings: %v", err)
		}
		if settings.Timezone != constants.DefaultTimezone {
			t.Errorf("Expected timezone %s, got %s", constants.DefaultTimezone, settings.Timezone)
		}

		hour := 7
		settings.PreferredUnlockHour = &hour
		settings.Timezone = "America/Chicago"
		if err := store.SaveSettings(settings); err != nil {
			t.Fatalf("Failed to save settings: %v", err)
		}

		updated, err := store.GetSettings()
		if err != nil {
			t.Fatalf("Failed to get updated settings: %v", err)
		}
		if updated.UnlockHour() != 7 || updated.Timezone != "America/Chicago" {
			t.Errorf("Settings not persisted: %+v", updated)
		}
	})

	t.Run("Reminder", func(t *testing.T) {
		if err := store.DeleteReminder(); err != nil {
			t.Fatalf("DeleteReminder() error = %v", err)
		}
		if _, err := store.GetReminder(); !errors.Is(err, common.ErrNotFound) {
			t.Fatalf("GetReminder() on empty table error = %v, want ErrNotFound", err)
		}

		r := models.Reminder{Hour: 20, Title: constants.ReminderTitle, Body: constants.ReminderBody, Active: true}
		if err := store.SaveReminder(r); err != nil {
			t.Fatalf("SaveReminder() error = %v", err)
		}
		sent := time.Date(2025, 6, 14, 20, 0, 5, 0, time.UTC)
		if err := store.MarkReminderSent(sent); err != nil {
			t.Fatalf("MarkReminderSent() error = %v", err)
		}

		got, err := store.GetReminder()
		if err != nil {
			t.Fatalf("GetReminder() error = %v", err)
		}
		if got.ID != 1 || got.Hour != 20 || !got.Active {
			t.Errorf("GetReminder() = %+v", got)
		}
		if got.LastSent == nil || !got.LastSent.Equal(sent) {
			t.Errorf("LastSent = %v, want %v", got.LastSent, sent)
		}
	})

	t.Run("EntryRefs", func(t *testing.T) {
		fetched := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
		refs := []models.EntryRef{
			{ID: 1, Timestamp: time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC)},
			{ID: 2, Timestamp: time.Date(2025, 6, 2, 21, 0, 0, 0, time.UTC)},
		}
		if err := store.ReplaceEntryRefs(refs, fetched); err != nil {
			t.Fatalf("ReplaceEntryRefs() error = %v", err)
		}
		got, at, err := store.GetEntryRefs()
		if err != nil {
			t.Fatalf("GetEntryRefs() error = %v", err)
		}
		if len(got) != 2 || !at.Equal(fetched) {
			t.Errorf("GetEntryRefs() = %v at %v", got, at)
		}
		if err := store.ClearEntryRefs(); err != nil {
			t.Fatalf("ClearEntryRefs() error = %v", err)
		}
	})

	t.Run("SchemaStatus", func(t *testing.T) {
		status, err := store.SchemaStatus()
		if err != nil {
			t.Fatalf("SchemaStatus() error = %v", err)
		}
		if status.Current != status.Latest || len(status.Pending) != 0 {
			t.Errorf("SchemaStatus() = %+v, want fully migrated", status)
		}
	})
}
