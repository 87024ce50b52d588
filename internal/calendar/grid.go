package calendar

import (
	"time"

	"github.com/julianstephens/thankful/internal/utils"
)

// DaysPerWeek is the width of a calendar row.
const DaysPerWeek = 7

// Display is how a day cell should be presented.
type Display int

const (
	DisplayDisabled Display = iota // future or otherwise unselectable day
	DisplayDefault                 // past day without an entry
	DisplayToday
	DisplayEntry
)

// DayCell is the state of one real day in the grid.
type DayCell struct {
	Day      int
	Key      string
	EntryID  int64
	HasEntry bool
	IsFuture bool
	IsToday  bool
}

// Display resolves the cell's presentation. An entry wins over today,
// and today wins over the default style.
func (c DayCell) Display() Display {
	switch {
	case c.HasEntry:
		return DisplayEntry
	case c.IsToday:
		return DisplayToday
	case c.IsFuture:
		return DisplayDisabled
	default:
		return DisplayDefault
	}
}

// Cell is a grid slot: either a placeholder or a real day.
type Cell struct {
	Placeholder bool
	DayCell
}

// Grid is a month laid out in rows of seven cells starting on Sunday.
type Grid struct {
	Month Month
	Cells []Cell
}

// Rows splits the grid into weeks.
func (g Grid) Rows() [][]Cell {
	rows := make([][]Cell, 0, len(g.Cells)/DaysPerWeek)
	for i := 0; i < len(g.Cells); i += DaysPerWeek {
		rows = append(rows, g.Cells[i:i+DaysPerWeek])
	}
	return rows
}

// Day returns the cell for a day of the month.
func (g Grid) Day(day int) (DayCell, bool) {
	for _, c := range g.Cells {
		if !c.Placeholder && c.Day == day {
			return c.DayCell, true
		}
	}
	return DayCell{}, false
}

// BuildGrid lays out month m. today is truncated to midnight in its own
// location; entries are looked up by local date key in idx.
func BuildGrid(m Month, idx Index, today time.Time) Grid {
	today = utils.StartOfDay(today)
	loc := today.Location()

	startDay := m.StartWeekday()
	daysInMonth := m.DaysIn()

	total := startDay + daysInMonth
	if rem := total % DaysPerWeek; rem != 0 {
		total += DaysPerWeek - rem
	}
	cells := make([]Cell, 0, total)

	for i := 0; i < startDay; i++ {
		cells = append(cells, Cell{Placeholder: true})
	}

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(m.Year, m.Month, day, 0, 0, 0, 0, loc)
		key := utils.DateKeyFor(m.Year, m.Month, day)
		dc := DayCell{
			Day:      day,
			Key:      key,
			IsFuture: date.After(today),
			IsToday:  date.Equal(today),
		}
		if ref, ok := idx.Lookup(key); ok {
			dc.HasEntry = true
			dc.EntryID = ref.ID
		}
		cells = append(cells, Cell{DayCell: dc})
	}

	for len(cells) < total {
		cells = append(cells, Cell{Placeholder: true})
	}

	return Grid{Month: m, Cells: cells}
}
