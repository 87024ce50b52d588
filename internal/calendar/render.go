package calendar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Options controls calendar styling.
type Options struct {
	HeaderStyle   lipgloss.Style
	DefaultStyle  lipgloss.Style
	DisabledStyle lipgloss.Style
	EntryStyle    lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	ShowHeader    bool
}

// DefaultOptions returns the styling used for calendar rendering.
func DefaultOptions() Options {
	return Options{
		HeaderStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
		DefaultStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		DisabledStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		EntryStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("205")).Bold(true),
		TodayStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Underline(true),
		SelectedStyle: lipgloss.NewStyle().Reverse(true),
		ShowHeader:    true,
	}
}

// Render produces a multi-line calendar string for the grid. selected is
// the highlighted day, or 0 for none.
func Render(g Grid, selected int, opts Options) string {
	var lines []string
	if opts.ShowHeader {
		lines = append(lines, opts.HeaderStyle.Render("Su Mo Tu We Th Fr Sa"))
	}
	for _, row := range g.Rows() {
		cells := make([]string, 0, DaysPerWeek)
		for _, c := range row {
			if c.Placeholder {
				cells = append(cells, "  ")
				continue
			}
			cells = append(cells, renderDay(c.DayCell, selected, opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

func renderDay(c DayCell, selected int, opts Options) string {
	text := fmt.Sprintf("%2d", c.Day)

	var style lipgloss.Style
	switch c.Display() {
	case DisplayEntry:
		style = opts.EntryStyle
	case DisplayToday:
		style = opts.TodayStyle
	case DisplayDisabled:
		style = opts.DisabledStyle
	default:
		style = opts.DefaultStyle
	}
	if selected > 0 && c.Day == selected {
		style = style.Inherit(opts.SelectedStyle)
	}
	return style.Render(text)
}
