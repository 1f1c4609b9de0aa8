package cli

import (
	"fmt"
)

// migrator is implemented by the SQL backends.
type migrator interface {
	Migrate(logFn func(string)) (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	m, ok := ctx.Provider.(migrator)
	if !ok {
		ctx.println("Nothing to migrate for this storage backend.")
		return nil
	}

	if err := ctx.Provider.Load(); err != nil {
		return err
	}
	applied, err := m.Migrate(func(msg string) { ctx.println("  " + msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if applied == 0 {
		ctx.println("✓ Database schema is up to date")
		return nil
	}
	ctx.printf("✓ Applied %d migration(s)\n", applied)
	return nil
}
