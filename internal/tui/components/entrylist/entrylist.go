// Package entrylist is the paged list of past entries.
package entrylist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/thankful/internal/models"
)

// LoadMoreMsg asks the parent for the page starting at Offset.
type LoadMoreMsg struct {
	Offset int
}

// DeleteMsg asks the parent to delete an entry after confirmation.
type DeleteMsg struct {
	Entry models.Entry
}

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	LoadMore key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "load more"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete today's entry"),
		),
	}
}

type Model struct {
	keys     KeyMap
	entries  []models.Entry
	next     *int
	cursor   int
	loading  bool
	loaded   bool
	errMsg   string
	loc      *time.Location
	today    time.Time
	viewport viewport.Model
	width    int
	height   int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			PaddingLeft(2)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

func New(loc *time.Location) Model {
	return Model{
		keys:     DefaultKeyMap(),
		loc:      loc,
		viewport: viewport.New(0, 0),
	}
}

// Reset drops every loaded page, e.g. before a fresh first-page fetch.
func (m *Model) Reset() {
	m.entries = nil
	m.next = nil
	m.cursor = 0
	m.loaded = false
	m.errMsg = ""
	m.updateViewportContent()
}

// SetLoading marks a page fetch in flight.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
	m.updateViewportContent()
}

// Loaded reports whether the first page has arrived.
func (m Model) Loaded() bool {
	return m.loaded
}

// AppendPage adds a fetched page. A page at offset 0 replaces the list.
func (m *Model) AppendPage(entries []models.Entry, next *int, offset int, now time.Time) {
	if offset == 0 {
		m.entries = nil
		m.cursor = 0
	}
	m.entries = append(m.entries, entries...)
	m.next = next
	m.loading = false
	m.loaded = true
	m.errMsg = ""
	m.loc = now.Location()
	m.today = now
	m.updateViewportContent()
}

// SetError shows a failed fetch.
func (m *Model) SetError(msg string) {
	m.loading = false
	m.errMsg = msg
	m.updateViewportContent()
}

// Remove drops an entry after a successful delete.
func (m *Model) Remove(id int64) {
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			break
		}
	}
	if m.cursor >= len(m.entries) && m.cursor > 0 {
		m.cursor = len(m.entries) - 1
	}
	m.updateViewportContent()
}

func (m Model) isToday(e models.Entry) bool {
	if m.today.IsZero() {
		return false
	}
	a := e.Timestamp.In(m.loc)
	y1, m1, d1 := a.Date()
	y2, m2, d2 := m.today.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.updateViewportContent()
			}
			return m, nil
		case key.Matches(km, m.keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				m.updateViewportContent()
			}
			return m, nil
		case key.Matches(km, m.keys.LoadMore):
			if m.next != nil && !m.loading {
				offset := *m.next
				return m, func() tea.Msg { return LoadMoreMsg{Offset: offset} }
			}
			return m, nil
		case key.Matches(km, m.keys.Delete):
			if m.cursor < len(m.entries) && m.isToday(m.entries[m.cursor]) {
				e := m.entries[m.cursor]
				return m, func() tea.Msg { return DeleteMsg{Entry: e} }
			}
			return m, nil
		}
	}
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(m.viewport.View())
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-4, 0)
	m.viewport.Height = max(height-2, 0)
	m.updateViewportContent()
}

func (m *Model) updateViewportContent() {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Your entries"))
	b.WriteString("\n")

	if len(m.entries) == 0 {
		switch {
		case m.errMsg != "":
			b.WriteString(errorStyle.Render(m.errMsg))
		case m.loading || !m.loaded:
			b.WriteString(emptyStyle.Render("Loading..."))
		default:
			b.WriteString(emptyStyle.Render("No entries yet. Write your first one today!"))
		}
		m.viewport.SetContent(b.String())
		return
	}

	for i, e := range m.entries {
		ts := e.Timestamp.In(m.loc)
		header := fmt.Sprintf("%s (%s)", ts.Format("Mon Jan 2, 2006"), humanize.Time(ts))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▸ " + header))
		} else {
			b.WriteString(dateStyle.Render("  " + header))
		}
		b.WriteString("\n")
		for n, item := range []string{e.Entry1, e.Entry2, e.Entry3} {
			b.WriteString(itemStyle.Render(fmt.Sprintf("%d. %s", n+1, item)))
			b.WriteString("\n")
		}
		if i == m.cursor && e.UserPrompt != "" {
			b.WriteString(promptStyle.Render(e.UserPrompt))
			b.WriteString("\n")
			b.WriteString(itemStyle.Render(e.UserPromptResponse))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	switch {
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg))
	case m.loading:
		b.WriteString(emptyStyle.Render("Loading more..."))
	case m.next != nil:
		b.WriteString(emptyStyle.Render("Press 'm' to load more."))
	default:
		b.WriteString(emptyStyle.Render("That's everything."))
	}
	m.viewport.SetContent(b.String())
}
