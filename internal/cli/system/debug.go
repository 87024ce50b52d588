package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/thankful/internal/cli"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/storage"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump local settings as JSON."`
	DumpReminder DebugDumpReminderCmd `cmd:"" help:"Dump the reminder schedule as JSON."`
	DumpIndex    DebugDumpIndexCmd    `cmd:"" help:"Dump the cached entry days, keyed by local date."`
	DumpEntry    DebugDumpEntryCmd    `cmd:"" help:"Fetch one entry from the server and dump it as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, settings)
}

type DebugDumpReminderCmd struct{}

func (cmd *DebugDumpReminderCmd) Run(ctx *cli.Context) error {
	r, err := ctx.Store.GetReminder()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errors.New("no reminder scheduled")
		}
		return fmt.Errorf("failed to get reminder: %w", err)
	}
	return printJSON(ctx, r)
}

type DebugDumpIndexCmd struct{}

type indexDump struct {
	Timezone  string                     `json:"timezone"`
	FetchedAt *time.Time                 `json:"fetched_at,omitempty"`
	Days      map[string]models.EntryRef `json:"days"`
}

func (cmd *DebugDumpIndexCmd) Run(ctx *cli.Context) error {
	ix := ctx.Journal.LoadIndex(ctx.Ctx(), true)
	dump := indexDump{
		Timezone: ix.Index.Location().String(),
		Days:     make(map[string]models.EntryRef, ix.Index.Len()),
	}
	if !ix.FetchedAt.IsZero() {
		dump.FetchedAt = &ix.FetchedAt
	}
	for _, key := range ix.Index.Keys() {
		ref, _ := ix.Index.Lookup(key)
		dump.Days[key] = ref
	}
	return printJSON(ctx, dump)
}

type DebugDumpEntryCmd struct {
	ID int64 `arg:"" help:"ID of the entry to dump."`
}

func (cmd *DebugDumpEntryCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireSession(); err != nil {
		return err
	}
	entry, err := ctx.API.GetEntry(ctx.Ctx(), cmd.ID)
	if err != nil {
		return err
	}
	return printJSON(ctx, entry)
}
