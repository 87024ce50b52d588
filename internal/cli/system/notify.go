package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/thankful/internal/cli"
	"github.com/julianstephens/thankful/internal/reminder"
)

// NotifyCmd is meant to run from cron or a launchd timer every few minutes.
type NotifyCmd struct {
	DryRun bool `help:"Print the reminder to stdout instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	settings := ctx.Journal.Settings()
	if !settings.NotificationsEnabled {
		if c.DryRun {
			ctx.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	sched := ctx.Journal.Reminder()
	now := ctx.Journal.Now()
	grace := time.Duration(settings.NotificationGracePeriodMin) * time.Minute

	if c.DryRun {
		r, ok, err := sched.Current()
		if err != nil {
			return fmt.Errorf("failed to read reminder: %w", err)
		}
		if !ok {
			ctx.Println("No reminder scheduled.")
			return nil
		}
		if !reminder.Due(r, now, grace) {
			ctx.Printf("Reminder not due. Next at %s.\n", reminder.NextFire(r, now).Format("Mon Jan 2 15:04"))
			return nil
		}
		ctx.Printf("[DryRun] %s %s\n", r.Title, r.Body)
		return nil
	}

	if ctx.Notifier == nil {
		return fmt.Errorf("no notifier configured")
	}
	if _, err := sched.Fire(ctx.Ctx(), ctx.Notifier, now, grace); err != nil {
		return err
	}
	return nil
}
