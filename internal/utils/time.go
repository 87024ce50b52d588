package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/thankful/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	y1, m1, d1 := a.In(loc).Date()
	y2, m2, d2 := b.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateKey formats the calendar date of t in its own location as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// DateKeyFor formats the calendar date of a year/month/day triple as YYYY-MM-DD.
func DateKeyFor(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	// Return the date at midnight in the specified timezone
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ParseMonth parses a month string (YYYY-MM) and returns its year and month.
func ParseMonth(monthStr string) (int, time.Month, error) {
	t, err := time.Parse(constants.MonthFormat, monthStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", monthStr, err)
	}
	return t.Year(), t.Month(), nil
}

// FormatHour renders an hour of the day as e.g. 8:00 PM.
func FormatHour(hour int) string {
	return time.Date(2000, time.January, 1, hour, 0, 0, 0, time.UTC).Format("3:04 PM")
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

var zoneinfoRoot = "/usr/share/zoneinfo"

// ListTimezones returns the IANA zone names installed on the system,
// or a short fallback list when the zone database cannot be read.
func ListTimezones() []string {
	var zones []string
	_ = filepath.WalkDir(zoneinfoRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(zoneinfoRoot, path)
		if relErr != nil || d.IsDir() {
			return nil
		}
		// Only Area/Location names; skip posix/, right/ and loose files.
		first, _, ok := strings.Cut(rel, string(filepath.Separator))
		if !ok || first == "posix" || first == "right" || first == "Etc" {
			return nil
		}
		if first[0] < 'A' || first[0] > 'Z' {
			return nil
		}
		name := filepath.ToSlash(rel)
		if _, err := time.LoadLocation(name); err == nil {
			zones = append(zones, name)
		}
		return nil
	})
	if len(zones) == 0 {
		return append([]string(nil), constants.FallbackTimezones...)
	}
	zones = append(zones, "UTC")
	sort.Strings(zones)
	return zones
}
