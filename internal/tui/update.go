package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/thankful/internal/constants"
	"github.com/julianstephens/thankful/internal/journal"
	"github.com/julianstephens/thankful/internal/logger"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/tui/components/entrylist"
	"github.com/julianstephens/thankful/internal/tui/components/monthview"
	"github.com/julianstephens/thankful/internal/tui/components/settings"
	"github.com/julianstephens/thankful/internal/tui/components/write"
	"github.com/julianstephens/thankful/internal/utils"
)

const tabCount = 4

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.FocusMsg:
		return m, m.onFocus()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		if !m.tracker.Finish(msg.ticket) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m, nil
		}
		m.applySnapshot(msg.snap)
		return m, nil

	case dayMsg:
		if !m.tracker.Finish(msg.ticket) || msg.key != m.dayKey {
			return m, nil
		}
		m.dayView.SetContent(m.renderDay(msg.key, msg.entry, msg.err))
		return m, nil

	case pageMsg:
		if !m.tracker.Finish(msg.ticket) {
			return m, nil
		}
		if msg.err != nil {
			logger.Warn("failed to load entries", "offset", msg.offset, "error", msg.err)
			m.entries.SetError(friendly(msg.err))
			return m, nil
		}
		m.entries.AppendPage(msg.page.Entries, msg.page.NextOffset, msg.offset, m.svc.Now())
		return m, nil

	case submitResultMsg:
		m.write.Submitted(msg.err, submitMessage(msg.err))
		if msg.err != nil {
			var locked *journal.LockedError
			if errors.As(msg.err, &locked) {
				return m, m.fetchSnapshot()
			}
			return m, nil
		}
		m.flash = "✓ Entry saved. See you tomorrow!"
		m.entries.Reset()
		return m, m.fetchSnapshot()

	case deleteResultMsg:
		if msg.err != nil {
			if errors.Is(msg.err, journal.ErrNotToday) {
				m.flash = "Only today's entry can be deleted."
			} else {
				m.flash = friendly(msg.err)
			}
			return m, nil
		}
		m.entries.Remove(msg.id)
		m.flash = "Entry deleted."
		return m, m.fetchSnapshot()

	case settingsSavedMsg:
		if msg.err != nil {
			m.settingsModel.SetNotice("Failed to save settings: " + friendly(msg.err))
			return m, nil
		}
		m.settingsModel.SetSettings(msg.settings)
		m.settingsModel.SetNotice("")
		m.flash = "Settings saved."
		return m, m.fetchSnapshot()

	case write.SubmitMsg:
		m.flash = ""
		return m, m.submit(msg.Entry)

	case write.UnlockEarlyMsg:
		m.svc.UnlockEarly()
		now := m.svc.Now()
		m.write.SetStatus(m.svc.Evaluate(now, m.snap.Index), now)
		return m, nil

	case monthview.OpenDayMsg:
		m.dayKey = msg.Key
		m.previousState = m.state
		m.state = constants.StateDayDetail
		m.dayView.SetContent("Loading " + msg.Key + "...")
		m.dayView.GotoTop()
		return m, m.fetchDay(msg.Key)

	case entrylist.LoadMoreMsg:
		m.entries.SetLoading(true)
		return m, m.fetchPage(msg.Offset)

	case entrylist.DeleteMsg:
		e := msg.Entry
		m.pendingDelete = &e
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return m, nil

	case settings.EditSettingsMsg:
		return m, m.openSettingsForm()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Everything else belongs to whichever form is active.
	if m.state == constants.StateEditSettings {
		return m.updateSettingsForm(msg)
	}
	var cmd tea.Cmd
	m.write, cmd = m.write.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.shutdown()
	}

	switch m.state {
	case constants.StateEditSettings:
		if key.Matches(msg, m.keys.Back) {
			m.formError = ""
			m.state = constants.StateSettings
			return m, nil
		}
		return m.updateSettingsForm(msg)

	case constants.StateConfirmDelete:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			e := m.pendingDelete
			m.pendingDelete = nil
			m.state = m.previousState
			if e == nil {
				return m, nil
			}
			return m, m.deleteEntry(*e)
		case key.Matches(msg, m.keys.Cancel):
			m.pendingDelete = nil
			m.state = m.previousState
		}
		return m, nil

	case constants.StateDayDetail:
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) {
			m.state = m.previousState
			return m, nil
		}
		var cmd tea.Cmd
		m.dayView, cmd = m.dayView.Update(msg)
		return m, cmd
	}

	if m.state == constants.StateWrite && m.write.Editing() {
		var cmd tea.Cmd
		m.write, cmd = m.write.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.shutdown()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		return m, m.switchTab(1)
	case key.Matches(msg, m.keys.ShiftTab):
		return m, m.switchTab(-1)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshActive()
	}

	m.flash = ""
	var cmd tea.Cmd
	switch m.state {
	case constants.StateWrite:
		m.write, cmd = m.write.Update(msg)
	case constants.StateCalendar:
		m.calendar, cmd = m.calendar.Update(msg)
	case constants.StateEntries:
		m.entries, cmd = m.entries.Update(msg)
	case constants.StateSettings:
		m.settingsModel, cmd = m.settingsModel.Update(msg)
	}
	return m, cmd
}

// switchTab moves between the four main views and refreshes the one that
// gains focus.
func (m *Model) switchTab(delta int) tea.Cmd {
	m.flash = ""
	next := (int(m.state) + delta + tabCount) % tabCount
	m.state = constants.SessionState(next)
	return m.onFocus()
}

// onFocus re-fetches what the active view shows.
func (m *Model) onFocus() tea.Cmd {
	switch m.state {
	case constants.StateWrite, constants.StateCalendar:
		// An early unlock lasts until the local date changes.
		if !m.snap.Now.IsZero() && utils.DateKey(m.svc.Now()) != utils.DateKey(m.snap.Now) {
			m.svc.ResetEarly()
		}
		m.loading = true
		return tea.Batch(m.fetchSnapshot(), m.spinner.Tick)
	case constants.StateEntries:
		if !m.entries.Loaded() {
			m.entries.SetLoading(true)
			return m.fetchPage(0)
		}
	case constants.StateSettings:
		m.settingsModel.SetSettings(m.svc.Settings())
	}
	return nil
}

func (m *Model) refreshActive() tea.Cmd {
	if m.state == constants.StateEntries {
		m.entries.Reset()
	}
	return m.onFocus()
}

func (m *Model) applySnapshot(snap journal.Snapshot) {
	m.snap = snap
	m.write.SetStatus(snap.Status, snap.Now)
	m.calendar.SetIndex(snap.Index.Index, snap.Now, snap.MonthlyCount, indexNote(snap.Index, snap.Now))
	m.settingsModel.SetSettings(m.svc.Settings())
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	contentHeight := max(height-4, 0)
	m.write.SetSize(width, contentHeight)
	m.calendar.SetSize(width, contentHeight)
	m.entries.SetSize(width, contentHeight)
	m.settingsModel.SetSize(width, contentHeight)
	m.dayView.Width = max(width-4, 0)
	m.dayView.Height = max(contentHeight-2, 0)
}

func (m *Model) openSettingsForm() tea.Cmd {
	current := m.svc.Settings()
	m.settingsForm = &SettingsFormModel{
		UnlockHour:    strconv.Itoa(current.UnlockHour()),
		Timezone:      current.Timezone,
		Notifications: current.NotificationsEnabled,
	}
	m.formError = ""
	m.form = newSettingsForm(m.settingsForm)
	m.state = constants.StateEditSettings
	return m.form.Init()
}

func (m Model) updateSettingsForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		change, err := m.settingsForm.change()
		if err != nil {
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return m, tea.Batch(cmds...)
		}
		m.formError = ""
		m.state = constants.StateSettings
		m.settingsModel.SetNotice("Saving...")
		cmds = append(cmds, m.saveSettings(change))
	case huh.StateAborted:
		m.formError = ""
		m.state = constants.StateSettings
	}
	return m, tea.Batch(cmds...)
}

func (f *SettingsFormModel) change() (journal.SettingsChange, error) {
	h, err := strconv.Atoi(f.UnlockHour)
	if err != nil {
		return journal.SettingsChange{}, fmt.Errorf("invalid unlock hour %q", f.UnlockHour)
	}
	tz := f.Timezone
	notify := f.Notifications
	c := journal.SettingsChange{UnlockHour: &h, Timezone: &tz, Notifications: &notify}
	return c, c.Validate()
}

func newSettingsForm(fm *SettingsFormModel) *huh.Form {
	hours := make([]huh.Option[string], 24)
	for h := range hours {
		hours[h] = huh.NewOption(utils.FormatHour(h), strconv.Itoa(h))
	}
	zones := append([]string{"Local"}, utils.ListTimezones()...)
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Unlock time").Options(hours...).Value(&fm.UnlockHour),
		huh.NewSelect[string]().Title("Timezone").Options(huh.NewOptions(zones...)...).Height(10).Value(&fm.Timezone),
		huh.NewConfirm().Title("Daily reminder").Affirmative("On").Negative("Off").Value(&fm.Notifications),
	))
}

// friendly prefers an error's own user-facing text.
func friendly(err error) string {
	var uf interface{ UserMessage() string }
	if errors.As(err, &uf) {
		return uf.UserMessage()
	}
	return err.Error()
}

func (m Model) renderDay(dateKey string, e *models.Entry, err error) string {
	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(dateKey))
	b.WriteString("\n")
	switch {
	case errors.Is(err, journal.ErrNoEntry):
		b.WriteString(warningStyle.Render("No entry for this day."))
	case err != nil:
		b.WriteString(dangerStyle.Render(friendly(err)))
	default:
		for i, item := range []string{e.Entry1, e.Entry2, e.Entry3} {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item)
		}
		if e.UserPrompt != "" {
			b.WriteString(promptStyle.Render(e.UserPrompt))
			b.WriteString("\n")
			b.WriteString(e.UserPromptResponse)
		}
	}
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render("esc: back"))
	return b.String()
}
