package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/focos/internal/assistant"
	"github.com/julianstephens/focos/internal/logger"
	"github.com/julianstephens/focos/internal/scheduler"
	"github.com/julianstephens/focos/internal/server"
)

// ServeCmd runs the HTTP API with its WebSocket change feed until
// interrupted.
type ServeCmd struct {
	Addr   string   `help:"Listen address (overrides config)."`
	Origin []string `help:"Allowed CORS/WebSocket origin; repeatable."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}

	opts := server.Options{
		Addr:           ctx.Config.Server.Addr,
		AllowedOrigins: ctx.Config.Server.AllowedOrigins,
	}
	if c.Addr != "" {
		opts.Addr = c.Addr
	}
	if len(c.Origin) > 0 {
		opts.AllowedOrigins = c.Origin
	}
	if ctx.Config.Assistant.Endpoint != "" {
		opts.Assistant = assistant.New(ctx.Config.Assistant)
	}

	watcher := scheduler.NewRolloverWatcher(store, ctx.Config.Rollover.Interval)
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.printf("Serving %s on http://%s (Ctrl+C to stop)\n", store.Snapshot().Settings.AppName, opts.Addr)
	logger.Info("Starting server", "addr", opts.Addr, "origins", opts.AllowedOrigins)
	return server.New(store, opts).Run(runCtx)
}
