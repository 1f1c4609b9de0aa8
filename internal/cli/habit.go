package cli

import (
	"fmt"
	"strings"
)

type HabitAddCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	h, err := store.AddHabit(name)
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	ctx.printf("✓ Added habit: %s (id=%s)\n", h.Name, h.ID)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	habits := store.Snapshot().Habits
	if len(habits) == 0 {
		ctx.println("No habits yet. Add one with 'focos habit add'.")
		return nil
	}
	for _, h := range habits {
		ctx.println(formatHabit(h))
	}
	return nil
}

type HabitToggleCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitToggleCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	if _, ok := store.Snapshot().Habit(c.ID); !ok {
		return fmt.Errorf("habit not found: %s", c.ID)
	}
	if err := store.ToggleHabit(c.ID); err != nil {
		return fmt.Errorf("failed to toggle habit: %w", err)
	}
	h, _ := store.Snapshot().Habit(c.ID)
	ctx.println(formatHabit(h))
	return nil
}

type HabitDeleteCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	h, ok := store.Snapshot().Habit(c.ID)
	if !ok {
		return fmt.Errorf("habit not found: %s", c.ID)
	}
	if err := store.DeleteHabit(c.ID); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	ctx.printf("✓ Deleted habit: %s\n", h.Name)
	return nil
}
