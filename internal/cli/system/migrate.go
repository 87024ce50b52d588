package system

import (
	"fmt"

	"github.com/julianstephens/thankful/internal/cli"
	"github.com/julianstephens/thankful/internal/storage"
)

type MigrateCmd struct {
	Status bool `help:"Show the schema version without applying anything."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	before, err := ctx.Store.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if c.Status {
		ctx.Printf("Schema version: %d (latest %d)\n", before.Current, before.Latest)
		for _, m := range before.Pending {
			ctx.Printf("  pending: %03d_%s\n", m.Version, m.Name)
		}
		return nil
	}

	if len(before.Pending) == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
		return nil
	}

	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return fmt.Errorf("storage backend does not support migrations")
	}
	if err := migrator.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	after, err := ctx.Store.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	ctx.Printf("Successfully applied %d migration(s). Schema version is now %d.\n", after.Current-before.Current, after.Current)
	return nil
}
