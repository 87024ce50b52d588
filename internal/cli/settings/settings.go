package settings

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/thankful/internal/cli"
	"github.com/julianstephens/thankful/internal/journal"
	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/reminder"
	"github.com/julianstephens/thankful/internal/utils"
)

type SettingsCmd struct {
	List          bool `help:"List current settings."`
	ListTimezones bool `help:"List the timezone names accepted by --timezone."`
	Interactive   bool `help:"Edit settings in a form." short:"i"`

	UnlockHour    *int    `help:"Hour (0-23) the journal unlocks each day."`
	Timezone      *string `help:"IANA timezone, e.g. America/New_York."`
	Notifications *bool   `help:"Enable or disable the daily reminder."`

	GracePeriodMin *int    `help:"Minutes after the reminder time it may still be delivered. Local only."`
	APIURL         *string `name:"server" help:"Journal server URL. Local only."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.ListTimezones {
		for _, tz := range utils.ListTimezones() {
			ctx.Println(tz)
		}
		return nil
	}
	if c.List {
		printSettings(ctx, settings)
		return nil
	}

	change := journal.SettingsChange{
		UnlockHour:    c.UnlockHour,
		Timezone:      c.Timezone,
		Notifications: c.Notifications,
	}
	if c.Interactive {
		if change, err = settingsForm(settings); err != nil {
			return err
		}
	}

	local := c.GracePeriodMin != nil || c.APIURL != nil
	if change.Empty() && !local {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if !change.Empty() {
		if err := change.Validate(); err != nil {
			return err
		}
		if err := ctx.RequireSession(); err != nil {
			return err
		}
		if settings, err = ctx.Journal.UpdateSettings(ctx.Ctx(), change); err != nil {
			return err
		}
	}

	if local {
		if c.GracePeriodMin != nil {
			if *c.GracePeriodMin < 0 {
				return fmt.Errorf("grace period cannot be negative")
			}
			settings.NotificationGracePeriodMin = *c.GracePeriodMin
		}
		if c.APIURL != nil {
			settings.APIURL = *c.APIURL
		}
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	ctx.Println("Settings updated successfully.")
	if r, ok, err := ctx.Journal.Reminder().Current(); err == nil && ok && r.Active {
		ctx.Printf("Reminder set for %s.\n", r.FormatTime())
	}
	return nil
}

func printSettings(ctx *cli.Context, s models.Settings) {
	hour := utils.FormatHour(s.UnlockHour())
	if s.PreferredUnlockHour == nil {
		hour += " (default)"
	}
	ctx.Println("Current Settings:")
	ctx.Printf("  Unlock Time:           %s\n", hour)
	ctx.Printf("  Timezone:              %s\n", s.Timezone)
	ctx.Printf("  Server:                %s\n", s.APIURL)
	ctx.Println("\nReminder Settings:")
	ctx.Printf("  Notifications Enabled: %v\n", s.NotificationsEnabled)
	ctx.Printf("  Grace Period:          %d min\n", s.NotificationGracePeriodMin)
	if s.NotificationsEnabled {
		r := reminder.ForSettings(s)
		ctx.Printf("  Reminder Time:         %s\n", r.FormatTime())
	}
}

func settingsForm(s models.Settings) (journal.SettingsChange, error) {
	hour := strconv.Itoa(s.UnlockHour())
	tz := s.Timezone
	notify := s.NotificationsEnabled

	hours := make([]huh.Option[string], 24)
	for h := range hours {
		hours[h] = huh.NewOption(utils.FormatHour(h), strconv.Itoa(h))
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Unlock time").Options(hours...).Value(&hour),
		huh.NewSelect[string]().Title("Timezone").Options(huh.NewOptions(append([]string{"Local"}, utils.ListTimezones()...)...)...).Height(10).Value(&tz),
		huh.NewConfirm().Title("Daily reminder").Affirmative("On").Negative("Off").Value(&notify),
	))
	if err := form.Run(); err != nil {
		return journal.SettingsChange{}, err
	}

	h, err := strconv.Atoi(hour)
	if err != nil {
		return journal.SettingsChange{}, err
	}
	return journal.SettingsChange{UnlockHour: &h, Timezone: &tz, Notifications: &notify}, nil
}
