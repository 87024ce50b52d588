package entries

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/thankful/internal/api"
	"github.com/julianstephens/thankful/internal/cli"
	"github.com/julianstephens/thankful/internal/journal"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/prompts"
)

type WriteCmd struct {
	Early    bool     `help:"Unlock the journal before the configured hour."`
	Entry    []string `help:"Something you're grateful for. Give it three times to skip the form." short:"e"`
	Response string   `help:"Answer to the reflection prompt."`
	Prompt   string   `help:"Reflection prompt to answer instead of a random one." hidden:""`
}

func (c *WriteCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireSession(); err != nil {
		return err
	}
	if c.Early {
		ctx.Journal.UnlockEarly()
	}

	st := ctx.Journal.Evaluate(ctx.Journal.Now(), ctx.Journal.LoadIndex(ctx.Ctx(), false))
	if st.Locked {
		if cd := st.Countdown(ctx.Journal.Now()); cd != "" {
			ctx.Println(cd)
		}
		return &journal.LockedError{Status: st}
	}

	entry := models.NewEntry{UserPrompt: c.Prompt}
	if entry.UserPrompt == "" {
		entry.UserPrompt = prompts.NewPicker().Pick()
	}
	for i, e := range c.Entry {
		switch i {
		case 0:
			entry.Entry1 = e
		case 1:
			entry.Entry2 = e
		case 2:
			entry.Entry3 = e
		}
	}
	entry.UserPromptResponse = c.Response

	if len(c.Entry) < 3 || strings.TrimSpace(c.Response) == "" {
		if err := entryForm(&entry).Run(); err != nil {
			return err
		}
	}

	if err := ctx.Journal.Submit(ctx.Ctx(), entry); err != nil {
		var fe *models.FieldError
		if errors.As(err, &fe) {
			return errors.New("entry is incomplete:\n" + cli.FieldErrors(err))
		}
		return cli.FieldFailure(err, api.FieldEntry1, api.FieldEntry2, api.FieldEntry3, api.FieldPromptResponse)
	}

	ctx.Println("✓ Entry saved. See you tomorrow!")
	return nil
}

func entryForm(e *models.NewEntry) *huh.Form {
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
	)
}
