package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/thankful/internal/constants"
)

var tabTitles = []string{"Write", "Calendar", "Entries", "Settings"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateWrite:
		content = m.write.View()
	case constants.StateCalendar:
		content = m.calendar.View()
	case constants.StateEntries:
		content = m.entries.View()
	case constants.StateSettings:
		content = m.settingsModel.View()
	case constants.StateDayDetail:
		content = docStyle.Render(m.dayView.View())
	case constants.StateEditSettings:
		content = docStyle.Render(m.form.View())
		if m.formError != "" {
			content += "\n" + dangerStyle.Render(m.formError)
		}
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	var banner string
	if m.flash != "" {
		banner = flashStyle.Render(m.flash)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		banner,
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	switch m.state {
	case constants.StateDayDetail:
		active = constants.StateCalendar
	case constants.StateEditSettings:
		active = constants.StateSettings
	case constants.StateConfirmDelete:
		active = m.previousState
	}

	var tabs []string
	for i, title := range tabTitles {
		if active == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	if m.loading {
		tabs = append(tabs, inactiveTabStyle.Render(m.spinner.View()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewConfirmDelete() string {
	when := "this entry"
	if m.pendingDelete != nil {
		when = fmt.Sprintf("the entry from %s", m.pendingDelete.Timestamp.In(m.svc.Location()).Format(time.Kitchen))
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %s? This cannot be undone.", when)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
