// Package write is the "write today's entry" tab.
package write

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/prompts"
	"github.com/julianstephens/thankful/internal/unlock"
)

// SubmitMsg asks the parent to send a completed entry.
type SubmitMsg struct {
	Entry models.NewEntry
}

// UnlockEarlyMsg asks the parent to open the form before the unlock hour.
type UnlockEarlyMsg struct{}

type KeyMap struct {
	Early      key.Binding
	Regenerate key.Binding
	Focus      key.Binding
	Blur       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Early: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unlock early"),
		),
		Regenerate: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "new prompt"),
		),
		Focus: key.NewBinding(
			key.WithKeys("enter", "w"),
			key.WithHelp("enter", "write"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave form"),
		),
	}
}

type Model struct {
	keys       KeyMap
	picker     *prompts.Picker
	status     unlock.Status
	now        time.Time
	loaded     bool
	entry      *models.NewEntry
	form       *huh.Form
	editing    bool
	submitting bool
	errMsg     string
	saved      bool
	width      int
	height     int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			MarginTop(1)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)
)

func New(picker *prompts.Picker) Model {
	return Model{keys: DefaultKeyMap(), picker: picker}
}

// SetStatus applies a fresh gate evaluation. An open gate gets a form with
// a new prompt unless one is already in progress.
func (m *Model) SetStatus(st unlock.Status, now time.Time) {
	m.status = st
	m.now = now
	m.loaded = true
	if st.Locked {
		m.form = nil
		m.entry = nil
		m.editing = false
		return
	}
	m.saved = false
	if m.form == nil {
		m.entry = &models.NewEntry{UserPrompt: m.picker.Pick()}
		m.form = m.buildForm()
	}
}

// Editing reports whether key presses belong to the form.
func (m Model) Editing() bool {
	return m.form != nil && m.editing && !m.submitting
}

// Submitting reports whether an entry is in flight.
func (m Model) Submitting() bool {
	return m.submitting
}

// Submitted records the outcome of a SubmitMsg. On failure the form is
// rebuilt with the typed values so the user can fix and retry.
func (m *Model) Submitted(err error, message string) {
	m.submitting = false
	if err == nil {
		m.saved = true
		m.errMsg = ""
		m.form = nil
		m.entry = nil
		m.editing = false
		return
	}
	m.errMsg = message
	m.form = m.buildForm()
	m.editing = true
}

func (m *Model) buildForm() *huh.Form {
	e := m.entry
	nonEmpty := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("please fill this in")
		}
		return nil
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("What are 3 things you're grateful for today?"),
			huh.NewInput().Title("1.").Value(&e.Entry1).Validate(nonEmpty),
			huh.NewInput().Title("2.").Value(&e.Entry2).Validate(nonEmpty),
			huh.NewInput().Title("3.").Value(&e.Entry3).Validate(nonEmpty),
		),
		huh.NewGroup(
			huh.NewText().Title(e.UserPrompt).Value(&e.UserPromptResponse).Validate(nonEmpty),
		),
	).WithShowHelp(false)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case m.status.Locked && m.status.Reason == unlock.ReasonBeforeWindow && key.Matches(km, m.keys.Early):
			return m, func() tea.Msg { return UnlockEarlyMsg{} }
		case m.form != nil && key.Matches(km, m.keys.Regenerate):
			m.entry.UserPrompt = m.picker.Regenerate(m.entry.UserPrompt)
			m.form = m.buildForm()
			m.editing = true
			return m, m.form.Init()
		case m.Editing() && key.Matches(km, m.keys.Blur):
			m.editing = false
			return m, nil
		case m.form != nil && !m.editing && key.Matches(km, m.keys.Focus):
			m.editing = true
			return m, m.form.Init()
		}
	}

	if !m.Editing() {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.submitting = true
		m.errMsg = ""
		entry := *m.entry
		return m, tea.Batch(cmd, func() tea.Msg { return SubmitMsg{Entry: entry} })
	case huh.StateAborted:
		m.form = m.buildForm()
		m.editing = false
	}
	return m, cmd
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var sections []string
	sections = append(sections, titleStyle.Render(m.now.Format("Monday, January 2")))

	switch {
	case !m.loaded:
		sections = append(sections, hintStyle.Render("Loading..."))
	case m.saved:
		sections = append(sections, okStyle.Render("✓ Entry saved. See you tomorrow!"))
	case m.status.Locked:
		sections = append(sections, lockedStyle.Render(m.status.Message()))
		if cd := m.status.Countdown(m.now); cd != "" {
			sections = append(sections, cd)
			sections = append(sections, hintStyle.Render(fmt.Sprintf("Press '%s' to unlock early.", m.keys.Early.Help().Key)))
		}
	case m.submitting:
		sections = append(sections, hintStyle.Render("Saving your entry..."))
	default:
		if m.status.Early {
			sections = append(sections, hintStyle.Render("Unlocked early."))
		}
		sections = append(sections, m.form.View())
		if !m.editing {
			sections = append(sections, hintStyle.Render("Press enter to continue writing."))
		} else {
			sections = append(sections, hintStyle.Render("ctrl+r: new prompt • esc: leave form"))
		}
	}
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render(m.errMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
