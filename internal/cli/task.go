package cli

import (
	"fmt"
	"strings"
)

type TaskAddCmd struct {
	Title string `arg:"" help:"Task title."`
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	t, err := store.AddTask(title)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	ctx.printf("✓ Added task: %s (id=%s)\n", t.Title, t.ID)
	return nil
}

type TaskListCmd struct {
	Open bool `help:"Only show tasks that are not completed."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	tasks := store.Snapshot().Tasks
	shown := 0
	for _, t := range tasks {
		if c.Open && t.Completed {
			continue
		}
		ctx.println(formatTask(t))
		shown++
	}
	if shown == 0 {
		ctx.println("No tasks found.")
	}
	return nil
}

type TaskToggleCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskToggleCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	if _, ok := store.Snapshot().Task(c.ID); !ok {
		return fmt.Errorf("task not found: %s", c.ID)
	}
	if err := store.ToggleTask(c.ID); err != nil {
		return fmt.Errorf("failed to toggle task: %w", err)
	}
	t, _ := store.Snapshot().Task(c.ID)
	ctx.println(formatTask(t))
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	t, ok := store.Snapshot().Task(c.ID)
	if !ok {
		return fmt.Errorf("task not found: %s", c.ID)
	}
	if err := store.DeleteTask(c.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	ctx.printf("✓ Deleted task: %s\n", t.Title)
	return nil
}
