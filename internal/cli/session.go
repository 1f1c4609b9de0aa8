package cli

import (
	"fmt"

	"github.com/julianstephens/focos/internal/constants"
)

// SessionCompleteCmd records a finished focus session, for use from scripts
// or an external timer.
type SessionCompleteCmd struct{}

func (c *SessionCompleteCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	before := store.Snapshot()
	if err := store.IncrementCompletedSessions(); err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	after := store.Snapshot()

	ctx.printf("✓ Session %d complete (+%d XP, %d total)\n",
		after.CompletedSessions, constants.FocusSessionXP, after.UserXP)
	printUnlocked(ctx, before.Achievements, after)
	return nil
}

type XPAddCmd struct {
	Amount int `arg:"" help:"XP to add (must be positive)."`
}

func (c *XPAddCmd) Run(ctx *Context) error {
	if c.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", c.Amount)
	}
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	before := store.Snapshot()
	if err := store.AddXP(c.Amount); err != nil {
		return fmt.Errorf("failed to add XP: %w", err)
	}
	after := store.Snapshot()
	ctx.printf("✓ %d XP (level %d)\n", after.UserXP, after.Level())
	printUnlocked(ctx, before.Achievements, after)
	return nil
}

type FocusModeCmd struct{}

func (c *FocusModeCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	if err := store.ToggleDistractionFreeMode(); err != nil {
		return fmt.Errorf("failed to toggle distraction-free mode: %w", err)
	}
	if store.Snapshot().Settings.DistractionFreeMode {
		ctx.println("✓ Distraction-free mode on")
	} else {
		ctx.println("✓ Distraction-free mode off")
	}
	return nil
}

// RolloverCmd forces the daily check. Load already runs it, so this mostly
// reports what happened.
type RolloverCmd struct{}

func (c *RolloverCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	rolled, err := store.CheckRollover()
	if err != nil {
		return fmt.Errorf("rollover failed: %w", err)
	}
	if rolled {
		ctx.printf("✓ Rolled over to %s\n", store.Today())
	} else {
		ctx.printf("Already up to date for %s\n", store.Today())
	}
	return nil
}
