package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/focos/internal/scheduler"
	"github.com/julianstephens/focos/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	watcher := scheduler.NewRolloverWatcher(store, ctx.Config.Rollover.Interval)
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	p := tea.NewProgram(tui.NewModel(store), tea.WithAltScreen(), tea.WithReportFocus())
	unsubscribe := tui.Listen(store, p)
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
