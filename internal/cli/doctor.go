package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/focos/internal/backup"
	"github.com/julianstephens/focos/internal/state"
)

// schemaVersioner is implemented by the SQL backends.
type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	report := func(name string, err error) {
		if err != nil {
			ctx.printf("❌ %s: FAIL\n", name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
			return
		}
		ctx.printf("✓ %s: OK\n", name)
	}

	reachable := ctx.Provider.Load()
	report("Storage reachable", reachable)

	if reachable == nil {
		if sv, ok := ctx.Provider.(schemaVersioner); ok {
			report("Schema version", checkSchemaVersion(sv))
		}
		report("Data validation", checkData(ctx))
	} else {
		ctx.println("⊘ Schema version: SKIPPED (storage not reachable)")
		ctx.println("⊘ Data validation: SKIPPED (storage not reachable)")
	}

	if path, ok := ctx.sqlitePath(); ok {
		if err := checkBackupsPresent(path); err != nil {
			ctx.println("⚠ Backups present: WARNING")
			ctx.printf("   %v\n", err)
		} else {
			ctx.println("✓ Backups present: OK")
		}
	}

	report("Clock/timezone", checkClockTimezone(time.Now()))

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(sv schemaVersioner) error {
	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'focos migrate')", current, latest)
	}
	return nil
}

func checkData(ctx *Context) error {
	problems, err := state.Inspect(ctx.Provider)
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		return nil
	}
	for _, p := range problems {
		ctx.printf("   %s\n", p)
	}
	return fmt.Errorf("%d problem(s) found", len(problems))
}

func checkBackupsPresent(dbPath string) error {
	backups, err := backup.NewManager(dbPath).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'focos backup create'")
	}
	return nil
}

func checkClockTimezone(now time.Time) error {
	// Rollover keys off the local date, so a wildly wrong clock breaks streaks.
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
