// Package monthview is the calendar tab: one month of entry days with a
// movable day selection.
package monthview

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/thankful/internal/calendar"
	"github.com/julianstephens/thankful/internal/utils"
)

// OpenDayMsg asks the parent to fetch the entry for a day.
type OpenDayMsg struct {
	Key string
}

type KeyMap struct {
	PrevMonth key.Binding
	NextMonth key.Binding
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Today     key.Binding
	Open      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		PrevMonth: key.NewBinding(
			key.WithKeys("[", "p"),
			key.WithHelp("[", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]", "n"),
			key.WithHelp("]", "next month"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev week"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next week"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open day"),
		),
	}
}

type Model struct {
	keys     KeyMap
	nav      *calendar.Navigator
	index    calendar.Index
	today    time.Time
	selected int
	count    int
	note     string
	opts     calendar.Options
	width    int
	height   int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func New(today time.Time) Model {
	return Model{
		keys:     DefaultKeyMap(),
		nav:      calendar.NewNavigator(today),
		index:    calendar.EmptyIndex(today.Location()),
		today:    today,
		selected: today.Day(),
		opts:     calendar.DefaultOptions(),
	}
}

// SetIndex replaces the entry index. note describes where it came from
// when that is worth telling the user, e.g. a cached copy.
func (m *Model) SetIndex(ix calendar.Index, today time.Time, monthlyCount int, note string) {
	m.index = ix
	m.today = today
	m.count = monthlyCount
	m.note = note
	m.nav.Rebase(today)
	m.clampSelection()
}

// Index is the entry index currently shown.
func (m Model) Index() calendar.Index {
	return m.index
}

// Month is the visible month.
func (m Model) Month() calendar.Month {
	return m.nav.Current()
}

// Selected returns the selected day cell.
func (m Model) Selected() (calendar.DayCell, bool) {
	return m.grid().Day(m.selected)
}

func (m Model) grid() calendar.Grid {
	return calendar.BuildGrid(m.nav.Current(), m.index, m.today)
}

func (m *Model) clampSelection() {
	days := m.nav.Current().DaysIn()
	if m.selected < 1 {
		m.selected = 1
	}
	if m.selected > days {
		m.selected = days
	}
}

// move shifts the selection by delta days, crossing into the neighbouring
// month when the navigator allows it.
func (m *Model) move(delta int) {
	target := m.selected + delta
	switch {
	case target < 1:
		if !m.nav.Prev() {
			return
		}
		target += m.nav.Current().DaysIn()
	case target > m.nav.Current().DaysIn():
		overflow := target - m.nav.Current().DaysIn()
		if !m.nav.Next() {
			return
		}
		target = overflow
	}
	m.selected = target
	m.clampSelection()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.PrevMonth):
		m.nav.Prev()
		m.clampSelection()
	case key.Matches(km, m.keys.NextMonth):
		m.nav.Next()
		m.clampSelection()
	case key.Matches(km, m.keys.Left):
		m.move(-1)
	case key.Matches(km, m.keys.Right):
		m.move(1)
	case key.Matches(km, m.keys.Up):
		m.move(-calendar.DaysPerWeek)
	case key.Matches(km, m.keys.Down):
		m.move(calendar.DaysPerWeek)
	case key.Matches(km, m.keys.Today):
		_ = m.nav.Jump(calendar.MonthOf(m.today))
		m.selected = m.today.Day()
	case key.Matches(km, m.keys.Open):
		cell, ok := m.Selected()
		if ok && cell.HasEntry {
			return m, func() tea.Msg { return OpenDayMsg{Key: cell.Key} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	month := m.nav.Current()
	prev, next := "  ", "  "
	if m.nav.CanPrev() {
		prev = "‹ "
	}
	if m.nav.CanNext() {
		next = " ›"
	}

	sections := []string{
		titleStyle.Render(prev + month.Title() + next),
		calendar.Render(m.grid(), m.selected, m.opts),
		"",
		fmt.Sprintf("%d %s this month", m.count, plural(m.count, "entry", "entries")),
	}

	if cell, ok := m.Selected(); ok {
		line := utils.DateKeyFor(month.Year, month.Month, cell.Day)
		switch {
		case cell.HasEntry:
			line += " • press enter to read"
		case cell.IsFuture:
			line += " • not yet"
		default:
			line += " • no entry"
		}
		sections = append(sections, dimStyle.Render(line))
	}
	if m.note != "" {
		sections = append(sections, noteStyle.Render(m.note))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
