package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/thankful/internal/cli"
	"github.com/julianstephens/thankful/internal/keyring"
	"github.com/julianstephens/thankful/internal/utils"
)

const pingTimeout = 5 * time.Second

type DoctorCmd struct{}

type check struct {
	name string
	// warn checks never fail the run.
	warn bool
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	fn      func(ctx *cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{name: "Schema version", needsDB: true, fn: checkSchemaVersion},
		{name: "Migrations complete", needsDB: true, fn: checkMigrationsComplete},
		{name: "Settings", needsDB: true, fn: checkSettings},
		{name: "Clock/timezone", fn: func(*cli.Context) error { return checkClockTimezone() }},
		{name: "Keyring available", warn: true, fn: checkKeyring},
		{name: "Session", warn: true, fn: checkSession},
		{name: "Server reachable", warn: true, fn: checkServer},
	}

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.fn(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	status, err := ctx.Store.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema status: %w", err)
	}
	if status.Current > status.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", status.Current, status.Latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	status, err := ctx.Store.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema status: %w", err)
	}
	if status.Current < status.Latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'thankful migrate')", status.Current, status.Latest)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("unknown timezone %q", settings.Timezone)
	}
	if h := settings.UnlockHour(); h < 0 || h > 23 {
		return fmt.Errorf("unlock hour out of range: %d", h)
	}
	if settings.NotificationGracePeriodMin < 0 {
		return fmt.Errorf("notification grace period is negative: %d", settings.NotificationGracePeriodMin)
	}
	return nil
}

func checkClockTimezone() error {
	now, err := utils.NowInTimezone("Local")
	if err != nil {
		return fmt.Errorf("system timezone unavailable: %w", err)
	}
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not reachable; sessions cannot be stored")
	}
	return nil
}

func checkSession(ctx *cli.Context) error {
	if ctx.Session == nil {
		return errors.New("no session manager configured")
	}
	_, err := ctx.Session.Token(ctx.Ctx())
	return err
}

func checkServer(ctx *cli.Context) error {
	if ctx.API == nil {
		return errors.New("no server configured")
	}
	pctx, cancel := context.WithTimeout(ctx.Ctx(), pingTimeout)
	defer cancel()
	if err := ctx.API.Ping(pctx); err != nil {
		return fmt.Errorf("%s is unreachable: %w", ctx.API.BaseURL(), err)
	}
	return nil
}
