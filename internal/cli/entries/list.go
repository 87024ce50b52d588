package entries

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/thankful/internal/api"
	"github.com/julianstephens/thankful/internal/cli"
	"github.com/julianstephens/thankful/internal/constants"
	"github.com/julianstephens/thankful/internal/journal"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/utils"
)

type ListCmd struct {
	Limit  int `help:"Entries per page." default:"10"`
	Offset int `help:"Skip this many entries (use the value printed after a page)." default:"0"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireSession(); err != nil {
		return err
	}
	limit := c.Limit
	if limit <= 0 {
		limit = constants.DefaultPageSize
	}

	page, err := ctx.Journal.List(ctx.Ctx(), limit, c.Offset)
	if err != nil {
		return err
	}
	if len(page.Entries) == 0 {
		ctx.Println("No entries yet. Run 'thankful write' tonight!")
		return nil
	}

	loc := ctx.Journal.Location()
	table := uitable.New()
	table.MaxColWidth = 40
	table.Wrap = true
	table.AddRow("DATE", "WRITTEN", "GRATEFUL FOR")
	for _, e := range page.Entries {
		table.AddRow(
			utils.DateKey(e.Timestamp.In(loc)),
			humanize.Time(e.Timestamp),
			strings.Join([]string{e.Entry1, e.Entry2, e.Entry3}, "; "),
		)
	}
	ctx.Println(table)

	if page.NextOffset != nil {
		ctx.Printf("\nMore entries: thankful entries --offset %d\n", *page.NextOffset)
	}
	return nil
}

type ShowCmd struct {
	Date string `arg:"" optional:"" help:"Day to show (YYYY-MM-DD). Defaults to today."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireSession(); err != nil {
		return err
	}
	key := c.Date
	if key == "" {
		key = utils.DateKey(ctx.Journal.Now())
	} else if _, err := utils.ParseDateInLocation(key, ctx.Journal.Location()); err != nil {
		return errors.New("date must be in YYYY-MM-DD format")
	}

	ix := ctx.Journal.LoadIndex(ctx.Ctx(), false)
	entry, err := ctx.Journal.EntryOn(ctx.Ctx(), ix.Index, key)
	if err != nil {
		if errors.Is(err, journal.ErrNoEntry) && ix.Err != nil {
			return ix.Err
		}
		return err
	}
	printEntry(ctx, key, entry)
	return nil
}

func printEntry(ctx *cli.Context, key string, e *models.Entry) {
	ctx.Printf("%s\n\n", key)
	ctx.Println("Grateful for:")
	ctx.Printf("  1. %s\n  2. %s\n  3. %s\n", e.Entry1, e.Entry2, e.Entry3)
	if e.UserPrompt != "" {
		ctx.Printf("\n%s\n  %s\n", e.UserPrompt, e.UserPromptResponse)
	}
}

type DeleteCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireSession(); err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		if err := huh.NewConfirm().
			Title("Delete today's entry?").
			Description("This cannot be undone.").
			Value(&confirmed).
			Run(); err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	if _, err := ctx.Journal.DeleteToday(ctx.Ctx()); err != nil {
		return err
	}
	ctx.Println("✓ Today's entry deleted. The journal is open again.")
	return nil
}

type SummaryCmd struct{}

func (c *SummaryCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireSession(); err != nil {
		return err
	}

	var (
		summary string
		count   int
	)
	// The count is shown even when the summary fails, so no shared cancellation.
	var g errgroup.Group
	g.Go(func() error {
		var err error
		summary, err = ctx.Journal.Summary(ctx.Ctx())
		return err
	})
	g.Go(func() error {
		count = ctx.Journal.MonthlyCount(ctx.Ctx())
		return nil
	})
	err := g.Wait()

	now := ctx.Journal.Now()
	ctx.Printf("%s: %d %s\n\n", now.Format("January 2006"), count, plural(count, "entry", "entries"))
	if err != nil {
		if errors.Is(err, api.ErrRateLimited) {
			ctx.Println(api.MsgRateLimited)
			return nil
		}
		return err
	}
	ctx.Println(summary)
	return nil
}
