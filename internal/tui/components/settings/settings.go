package settings

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/utils"
)

type EditSettingsMsg struct{}

type Model struct {
	settings models.Settings
	notice   string
	width    int
	height   int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(25)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

func New(settings models.Settings, width, height int) Model {
	return Model{
		settings: settings,
		width:    width,
		height:   height,
	}
}

func (m *Model) SetSettings(settings models.Settings) {
	m.settings = settings
}

// SetNotice shows a one-line status, e.g. a failed save.
func (m *Model) SetNotice(notice string) {
	m.notice = notice
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			return m, func() tea.Msg { return EditSettingsMsg{} }
		}
	}
	return m, nil
}

func row(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(label), valueStyle.Render(value))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var sections []string

	journalTitle := titleStyle.Render("Journal")
	unlockAt := utils.FormatHour(m.settings.UnlockHour())
	if m.settings.PreferredUnlockHour == nil {
		unlockAt += " (default)"
	}
	journalContent := lipgloss.JoinVertical(
		lipgloss.Left,
		row("Unlock:", unlockAt),
		row("Timezone:", m.settings.Timezone),
	)
	sections = append(sections, sectionStyle.Render(journalTitle+"\n"+journalContent))

	notifTitle := titleStyle.Render("Reminder")
	notifContent := lipgloss.JoinVertical(
		lipgloss.Left,
		row("Daily reminder:", onOff(m.settings.NotificationsEnabled)),
		row("Grace period (min):", fmt.Sprintf("%d", m.settings.NotificationGracePeriodMin)),
	)
	sections = append(sections, sectionStyle.Render(notifTitle+"\n"+notifContent))

	serverTitle := titleStyle.Render("Server")
	sections = append(sections, sectionStyle.Render(serverTitle+"\n"+row("API URL:", m.settings.APIURL)))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}

	helpText := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true).
		MarginTop(2).
		Render("Press 'e' to edit settings")

	sections = append(sections, helpText)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Left,
		lipgloss.Top,
		lipgloss.NewStyle().Padding(2, 4).Render(content),
	)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
