package cli

import (
	"fmt"
	"strings"
)

type NotifyAddCmd struct {
	Title   string `arg:"" help:"Reminder title."`
	Message string `help:"Reminder body." short:"m"`
	Time    string `help:"When the reminder fires, e.g. 07:30." short:"t"`
}

func (c *NotifyAddCmd) Run(ctx *Context) error {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return fmt.Errorf("notification title cannot be empty")
	}
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	n, err := store.AddNotification(title, c.Message, c.Time)
	if err != nil {
		return fmt.Errorf("failed to add notification: %w", err)
	}
	ctx.printf("✓ Added notification: %s (id=%s)\n", n.Title, n.ID)
	return nil
}

type NotifyListCmd struct{}

func (c *NotifyListCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	st := store.Snapshot()
	if len(st.Notifications) == 0 {
		ctx.println("No notifications.")
		return nil
	}
	if !st.Settings.NotificationsEnabled {
		ctx.println("Notifications are disabled in settings.")
	}
	for _, n := range st.Notifications {
		state := "off"
		if n.Enabled {
			state = "on "
		}
		ctx.printf("%s  %-6s %s", state, n.Time, n.Title)
		if n.Message != "" {
			ctx.printf(" - %s", n.Message)
		}
		ctx.printf("  id=%s\n", n.ID)
	}
	return nil
}

type NotifyToggleCmd struct {
	ID string `arg:"" help:"Notification ID."`
}

func (c *NotifyToggleCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	if _, ok := store.Snapshot().Notification(c.ID); !ok {
		return fmt.Errorf("notification not found: %s", c.ID)
	}
	if err := store.ToggleNotification(c.ID); err != nil {
		return fmt.Errorf("failed to toggle notification: %w", err)
	}
	n, _ := store.Snapshot().Notification(c.ID)
	ctx.printf("✓ %s enabled=%t\n", n.Title, n.Enabled)
	return nil
}

type NotifyDeleteCmd struct {
	ID string `arg:"" help:"Notification ID."`
}

func (c *NotifyDeleteCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	n, ok := store.Snapshot().Notification(c.ID)
	if !ok {
		return fmt.Errorf("notification not found: %s", c.ID)
	}
	if err := store.DeleteNotification(c.ID); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	ctx.printf("✓ Deleted notification: %s\n", n.Title)
	return nil
}
