package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/thankful/internal/cli"
	"github.com/julianstephens/thankful/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing local database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if storage.IsPostgres(dbPath) || dbPath == "postgresql" {
			return fmt.Errorf("--force only resets a local sqlite database")
		}
		if _, err := os.Stat(dbPath); err == nil {
			// Close first so the file is not held open.
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized thankful storage at: %s\n", ctx.Store.GetConfigPath())

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if _, _, err := ctx.Journal.Reminder().Reschedule(settings); err != nil {
		return err
	}
	return nil
}
