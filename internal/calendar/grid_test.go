package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/thankful/internal/models"
)

func mustMonth(t *testing.T, year int, month time.Month) Month {
	t.Helper()
	m, err := NewMonth(year, month)
	if err != nil {
		t.Fatalf("NewMonth(%d, %v) error = %v", year, month, err)
	}
	return m
}

func TestBuildGridShape(t *testing.T) {
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		month       Month
		wantLeading int
		wantDays    int
	}{
		{"feb 2025 starts saturday", Month{2025, time.February}, 6, 28},
		{"feb 2024 leap year", Month{2024, time.February}, 4, 29},
		{"june 2025 starts sunday", Month{2025, time.June}, 0, 30},
		{"march 2025 needs six rows", Month{2025, time.March}, 6, 31},
		{"feb 2026 fits four rows", Month{2026, time.February}, 0, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := BuildGrid(tt.month, EmptyIndex(time.UTC), today)

			if len(g.Cells)%DaysPerWeek != 0 {
				t.Errorf("cell count %d not a multiple of 7", len(g.Cells))
			}
			leading := 0
			for _, c := range g.Cells {
				if !c.Placeholder {
					break
				}
				leading++
			}
			if leading != tt.wantLeading {
				t.Errorf("leading placeholders = %d, want %d", leading, tt.wantLeading)
			}

			var days []int
			for _, c := range g.Cells {
				if !c.Placeholder {
					days = append(days, c.Day)
				}
			}
			if len(days) != tt.wantDays {
				t.Fatalf("real cells = %d, want %d", len(days), tt.wantDays)
			}
			for i, d := range days {
				if d != i+1 {
					t.Fatalf("day at position %d = %d, want %d", i, d, i+1)
				}
			}
			if trailing := len(g.Cells) - leading - len(days); trailing >= DaysPerWeek {
				t.Errorf("trailing placeholders = %d, want < 7", trailing)
			}
			for _, row := range g.Rows() {
				if len(row) != DaysPerWeek {
					t.Errorf("row width = %d, want 7", len(row))
				}
			}
		})
	}
}

func TestBuildGridKeys(t *testing.T) {
	g := BuildGrid(Month{2025, time.March}, EmptyIndex(time.UTC), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	c, ok := g.Day(7)
	if !ok {
		t.Fatal("day 7 missing")
	}
	if c.Key != "2025-03-07" {
		t.Errorf("Key = %q, want %q", c.Key, "2025-03-07")
	}
}

func TestBuildGridTodayAndFuture(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 6, 14, 18, 45, 0, 0, loc)
	g := BuildGrid(Month{2025, time.June}, EmptyIndex(loc), now)

	for _, c := range g.Cells {
		if c.Placeholder {
			continue
		}
		switch {
		case c.Day < 14:
			if c.IsFuture || c.IsToday {
				t.Errorf("day %d: IsFuture=%v IsToday=%v, want both false", c.Day, c.IsFuture, c.IsToday)
			}
		case c.Day == 14:
			if !c.IsToday || c.IsFuture {
				t.Errorf("today: IsToday=%v IsFuture=%v", c.IsToday, c.IsFuture)
			}
		default:
			if !c.IsFuture || c.IsToday {
				t.Errorf("day %d: IsFuture=%v IsToday=%v, want future", c.Day, c.IsFuture, c.IsToday)
			}
		}
	}
}

func TestBuildGridPastMonthHasNoFuture(t *testing.T) {
	now := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	g := BuildGrid(Month{2025, time.May}, EmptyIndex(time.UTC), now)
	for _, c := range g.Cells {
		if !c.Placeholder && (c.IsFuture || c.IsToday) {
			t.Errorf("day %d of a past month flagged future=%v today=%v", c.Day, c.IsFuture, c.IsToday)
		}
	}
}

func TestBuildGridEntryInViewerTimezone(t *testing.T) {
	minus5 := time.FixedZone("UTC-5", -5*3600)
	refs := []models.EntryRef{
		{ID: 1, Timestamp: time.Date(2025, 6, 14, 23, 10, 0, 0, time.UTC)},
	}
	idx := BuildIndex(refs, minus5)
	g := BuildGrid(Month{2025, time.June}, idx, time.Date(2025, 6, 20, 9, 0, 0, 0, minus5))

	june14, _ := g.Day(14)
	june15, _ := g.Day(15)
	if !june14.HasEntry || june14.EntryID != 1 {
		t.Errorf("June 14 HasEntry=%v EntryID=%d, want true/1", june14.HasEntry, june14.EntryID)
	}
	if june15.HasEntry {
		t.Errorf("June 15 HasEntry = true, want false")
	}
}

func TestBuildGridEmptyIndexDoesNotFail(t *testing.T) {
	var zero Index
	g := BuildGrid(Month{2025, time.June}, zero, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC))
	for _, c := range g.Cells {
		if c.HasEntry {
			t.Fatalf("day %d has an entry in an empty index", c.Day)
		}
	}
}

func TestBuildGridFirstWeek(t *testing.T) {
	refs := []models.EntryRef{
		{ID: 9, Timestamp: time.Date(2025, 2, 1, 21, 0, 0, 0, time.UTC)},
	}
	g := BuildGrid(Month{2025, time.February}, BuildIndex(refs, time.UTC), time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC))

	ph := Cell{Placeholder: true}
	want := []Cell{
		ph, ph, ph, ph, ph, ph,
		{DayCell: DayCell{Day: 1, Key: "2025-02-01", EntryID: 9, HasEntry: true}},
	}
	if diff := cmp.Diff(want, g.Rows()[0]); diff != "" {
		t.Errorf("first week mismatch (-want +got):\n%s", diff)
	}
}

func TestDayCellDisplayPrecedence(t *testing.T) {
	tests := []struct {
		name string
		cell DayCell
		want Display
	}{
		{"entry beats today", DayCell{HasEntry: true, IsToday: true}, DisplayEntry},
		{"today", DayCell{IsToday: true}, DisplayToday},
		{"future", DayCell{IsFuture: true}, DisplayDisabled},
		{"plain past day", DayCell{}, DisplayDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.Display(); got != tt.want {
				t.Errorf("Display() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderMarksEveryDay(t *testing.T) {
	g := BuildGrid(mustMonth(t, 2025, time.June), EmptyIndex(time.UTC), time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC))
	opts := DefaultOptions()
	out := Render(g, 0, opts)
	if out == "" {
		t.Fatal("Render() returned empty output")
	}
	// header plus five weeks
	if lines := len(strings.Split(out, "\n")); lines != 6 {
		t.Errorf("Render() produced %d lines, want 6", lines)
	}
}
