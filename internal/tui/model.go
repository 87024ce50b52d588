package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/thankful/internal/constants"
	"github.com/julianstephens/thankful/internal/journal"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/prompts"
	"github.com/julianstephens/thankful/internal/refresh"
	"github.com/julianstephens/thankful/internal/tui/components/entrylist"
	"github.com/julianstephens/thankful/internal/tui/components/monthview"
	"github.com/julianstephens/thankful/internal/tui/components/settings"
	"github.com/julianstephens/thankful/internal/tui/components/write"
)

type SettingsFormModel struct {
	UnlockHour    string
	Timezone      string
	Notifications bool
}

type Model struct {
	svc           *journal.Service
	ctx           context.Context
	cancel        context.CancelFunc
	tracker       *refresh.Tracker
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	spinner       spinner.Model
	loading       bool
	snap          journal.Snapshot
	write         write.Model
	calendar      monthview.Model
	entries       entrylist.Model
	settingsModel settings.Model
	dayView       viewport.Model
	dayKey        string
	form          *huh.Form
	settingsForm  *SettingsFormModel
	pendingDelete *models.Entry
	flash         string
	formError     string
	quitting      bool
	width         int
	height        int
}

func NewModel(svc *journal.Service) Model {
	ctx, cancel := context.WithCancel(context.Background())
	now := svc.Now()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		svc:           svc,
		ctx:           ctx,
		cancel:        cancel,
		tracker:       refresh.New(),
		state:         constants.StateWrite,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		spinner:       sp,
		loading:       true,
		write:         write.New(prompts.NewPicker()),
		calendar:      monthview.New(now),
		entries:       entrylist.New(now.Location()),
		settingsModel: settings.New(svc.Settings(), 0, 0),
		dayView:       viewport.New(0, 0),
	}
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchSnapshot(), m.spinner.Tick)
}

// shutdown aborts every in-flight fetch before the program exits.
func (m *Model) shutdown() tea.Cmd {
	m.quitting = true
	m.tracker.CancelAll()
	m.cancel()
	return tea.Quit
}
