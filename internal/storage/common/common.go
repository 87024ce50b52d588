// Package common holds the pieces shared by the sqlite and postgres stores.
package common

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/thankful/internal/models"
)

var (
	// ErrNotInitialized is returned by Load when the database has not been
	// created, and by data methods called before the store is opened.
	ErrNotInitialized = errors.New("storage not initialized, run 'thankful init' first")
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
)

// Queryer is satisfied by *sql.DB and *sql.Tx.
type Queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// LoadSettings reads the key/value settings table into a Settings struct.
func LoadSettings(q Queryer) (models.Settings, error) {
	rows, err := q.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, fmt.Errorf("settings %w", ErrNotFound)
	}
	return models.MapToSettings(data)
}

// FormatTime renders a timestamp for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatOptionalTime renders a nullable timestamp for storage.
func FormatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}

// ParseTime reads a stored timestamp.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// ParseOptionalTime reads a nullable stored timestamp.
func ParseOptionalTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := ParseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DefaultSettings returns the settings written by Init.
func DefaultSettings() models.Settings {
	s := models.Settings{NotificationsEnabled: true}
	models.ApplyDefaultSettings(&s)
	return s
}

// ScanEntryRefs reads (id, timestamp, fetched_at) rows.
func ScanEntryRefs(rows *sql.Rows) ([]models.EntryRef, time.Time, error) {
	var (
		refs    []models.EntryRef
		fetched time.Time
	)
	for rows.Next() {
		var (
			ref       models.EntryRef
			ts, fetch string
		)
		if err := rows.Scan(&ref.ID, &ts, &fetch); err != nil {
			return nil, time.Time{}, err
		}
		t, err := ParseTime(ts)
		if err != nil {
			return nil, time.Time{}, err
		}
		ref.Timestamp = t
		f, err := ParseTime(fetch)
		if err != nil {
			return nil, time.Time{}, err
		}
		if f.After(fetched) {
			fetched = f
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	return refs, fetched, nil
}
