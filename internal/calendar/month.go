// Package calendar builds month grids of journal days and the index of
// which local dates have an entry.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/thankful/internal/constants"
)

// ErrOutOfRange is returned when navigating outside the browsable months.
var ErrOutOfRange = errors.New("month out of range")

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth validates and returns a Month.
func NewMonth(year int, month time.Month) (Month, error) {
	if month < time.January || month > time.December {
		return Month{}, fmt.Errorf("invalid month %d", month)
	}
	if year < 1 || year > 9999 {
		return Month{}, fmt.Errorf("invalid year %d", year)
	}
	return Month{Year: year, Month: month}, nil
}

// FromZeroBased builds a Month from a 0-based month index (0 = January).
func FromZeroBased(year, month int) (Month, error) {
	return NewMonth(year, time.Month(month+1))
}

// MonthOf returns the month containing t in t's location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// FirstJournalMonth is the earliest month the calendar can show.
func FirstJournalMonth() Month {
	return Month{Year: constants.FirstJournalYear, Month: constants.FirstJournalMonth}
}

// ZeroBased returns the 0-based month index.
func (m Month) ZeroBased() int {
	return int(m.Month) - 1
}

// StartWeekday returns the weekday of the 1st (0 = Sunday).
func (m Month) StartWeekday() int {
	return int(time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// DaysIn returns the number of days in the month.
func (m Month) DaysIn() int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Next returns the following month.
func (m Month) Next() Month {
	return m.add(1)
}

// Prev returns the preceding month.
func (m Month) Prev() Month {
	return m.add(-1)
}

func (m Month) add(n int) Month {
	t := time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return MonthOf(t)
}

// Before reports whether m is earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// After reports whether m is later than o.
func (m Month) After(o Month) bool {
	return o.Before(m)
}

// Contains reports whether t falls inside the month in loc.
func (m Month) Contains(t time.Time, loc *time.Location) bool {
	local := t.In(loc)
	return local.Year() == m.Year && local.Month() == m.Month
}

// String renders the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Title renders the month as e.g. "June 2025".
func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}
