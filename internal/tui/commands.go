package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/thankful/internal/api"
	"github.com/julianstephens/thankful/internal/constants"
	"github.com/julianstephens/thankful/internal/journal"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/refresh"
)

// Resource keys for the refresh tracker.
const (
	keySnapshot = "snapshot"
	keyDay      = "day"
	keyEntries  = "entries"
)

type snapshotMsg struct {
	ticket refresh.Ticket
	snap   journal.Snapshot
	err    error
}

type dayMsg struct {
	ticket refresh.Ticket
	key    string
	entry  *models.Entry
	err    error
}

type pageMsg struct {
	ticket refresh.Ticket
	offset int
	page   *api.EntryPage
	err    error
}

type submitResultMsg struct {
	err error
}

type deleteResultMsg struct {
	id  int64
	err error
}

type settingsSavedMsg struct {
	settings models.Settings
	err      error
}

// fetchSnapshot starts a reload of the home data. Any reload still in
// flight is cancelled and its result dropped.
func (m Model) fetchSnapshot() tea.Cmd {
	ctx, tk := m.tracker.Begin(m.ctx, keySnapshot)
	svc := m.svc
	return func() tea.Msg {
		snap, err := svc.Load(ctx, false)
		return snapshotMsg{ticket: tk, snap: snap, err: err}
	}
}

func (m Model) fetchDay(key string) tea.Cmd {
	ctx, tk := m.tracker.Begin(m.ctx, keyDay)
	svc := m.svc
	ix := m.calendar.Index()
	return func() tea.Msg {
		e, err := svc.EntryOn(ctx, ix, key)
		return dayMsg{ticket: tk, key: key, entry: e, err: err}
	}
}

func (m Model) fetchPage(offset int) tea.Cmd {
	ctx, tk := m.tracker.Begin(m.ctx, keyEntries)
	svc := m.svc
	return func() tea.Msg {
		page, err := svc.List(ctx, constants.DefaultPageSize, offset)
		return pageMsg{ticket: tk, offset: offset, page: page, err: err}
	}
}

func (m Model) submit(e models.NewEntry) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		return submitResultMsg{err: svc.Submit(ctx, e)}
	}
}

func (m Model) deleteEntry(e models.Entry) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		err := svc.Delete(ctx, models.EntryRef{ID: e.ID, Timestamp: e.Timestamp})
		return deleteResultMsg{id: e.ID, err: err}
	}
}

func (m Model) saveSettings(c journal.SettingsChange) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		s, err := svc.UpdateSettings(ctx, c)
		return settingsSavedMsg{settings: s, err: err}
	}
}

// submitMessage turns a failed submit into one line of feedback.
func submitMessage(err error) string {
	var locked *journal.LockedError
	if errors.As(err, &locked) {
		return locked.UserMessage()
	}
	var fe *models.FieldError
	if errors.As(err, &fe) {
		return "Please fill in every field."
	}
	if field, msg, ok := api.FieldFor(err, api.FieldEntry1, api.FieldEntry2, api.FieldEntry3, api.FieldPromptResponse); ok {
		if field == api.FieldSubmission {
			return msg
		}
		return fmt.Sprintf("%s: %s", field, msg)
	}
	return api.UserMessage(err)
}

// indexNote explains where the calendar's data came from when it is not
// a fresh fetch.
func indexNote(ix journal.IndexResult, now time.Time) string {
	switch ix.Source {
	case journal.SourceCache:
		return fmt.Sprintf("Offline: showing entries cached %s.", humanize.RelTime(ix.FetchedAt, now, "ago", "from now"))
	case journal.SourceNone:
		if ix.Err != nil {
			return api.UserMessage(ix.Err)
		}
	}
	return ""
}
