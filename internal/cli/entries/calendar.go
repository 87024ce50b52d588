package entries

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/thankful/internal/calendar"
	"github.com/julianstephens/thankful/internal/cli"
	"github.com/julianstephens/thankful/internal/journal"
	"github.com/julianstephens/thankful/internal/utils"
)

type CalendarCmd struct {
	Month   string `help:"Month to show (YYYY-MM). Defaults to the current month."`
	Offline bool   `help:"Use the last cached entry days instead of asking the server."`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	if !c.Offline {
		if err := ctx.RequireSession(); err != nil {
			return err
		}
	}

	snap, err := ctx.Journal.Load(ctx.Ctx(), c.Offline)
	if err != nil {
		return err
	}

	nav := calendar.NewNavigator(snap.Now)
	if c.Month != "" {
		y, m, err := utils.ParseMonth(c.Month)
		if err != nil {
			return err
		}
		month, err := calendar.NewMonth(y, m)
		if err != nil {
			return err
		}
		if err := nav.Jump(month); err != nil {
			if errors.Is(err, calendar.ErrOutOfRange) {
				lo, hi := nav.Bounds()
				return fmt.Errorf("%s is outside the journal range (%s to %s)", month, lo, hi)
			}
			return err
		}
	}

	month := nav.Current()
	grid := calendar.BuildGrid(month, snap.Index.Index, snap.Now)

	title := lipgloss.NewStyle().Bold(true).Render(month.Title())
	ctx.Println(title)
	ctx.Println(calendar.Render(grid, 0, calendar.DefaultOptions()))
	ctx.Println()

	count := snap.Index.Index.CountInMonth(month)
	if month == calendar.MonthOf(snap.Now) && !c.Offline {
		count = snap.MonthlyCount
	}
	ctx.Printf("%d %s in %s\n", count, plural(count, "entry", "entries"), month.Title())

	switch snap.Index.Source {
	case journal.SourceCache:
		ctx.Printf("Showing cached days from %s.\n", humanize.Time(snap.Index.FetchedAt))
	case journal.SourceNone:
		if snap.Index.Err != nil {
			ctx.Println("Could not load your entries; the calendar may be incomplete.")
		}
	}
	if msg := snap.Status.Message(); msg != "" {
		ctx.Println(msg)
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
