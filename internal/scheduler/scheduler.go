// Package scheduler re-validates the daily rollover for long-running
// processes, where no foreground event tells the store a new day started.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/focos/internal/constants"
	"github.com/julianstephens/focos/internal/logger"
)

// Resumer is the part of the state store the watcher drives.
type Resumer interface {
	Resume() error
}

// RolloverWatcher calls Resume on a fixed interval and right after local
// midnight.
type RolloverWatcher struct {
	target   Resumer
	cron     *cron.Cron
	interval time.Duration

	mu      sync.Mutex
	running bool
	checks  int
}

func NewRolloverWatcher(target Resumer, interval time.Duration) *RolloverWatcher {
	if interval <= 0 {
		interval = constants.DefaultRolloverInterval
	}
	return &RolloverWatcher{
		target:   target,
		cron:     cron.New(cron.WithLocation(time.Local)),
		interval: interval,
	}
}

func (w *RolloverWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if _, err := w.cron.AddFunc(fmt.Sprintf("@every %s", w.interval), w.Check); err != nil {
		return fmt.Errorf("failed to add rollover job: %w", err)
	}
	if _, err := w.cron.AddFunc("@midnight", w.Check); err != nil {
		return fmt.Errorf("failed to add midnight job: %w", err)
	}

	w.cron.Start()
	w.running = true
	logger.Info("Rollover watcher started", "interval", w.interval)
	return nil
}

// Stop waits for a running check to finish.
func (w *RolloverWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	ctx := w.cron.Stop()
	<-ctx.Done()
	logger.Info("Rollover watcher stopped")
}

// Check runs one rollover validation. Errors are logged, not returned; the
// next tick retries.
func (w *RolloverWatcher) Check() {
	w.mu.Lock()
	w.checks++
	w.mu.Unlock()

	if err := w.target.Resume(); err != nil {
		logger.Error("Rollover check failed", "error", err)
	}
}

// Checks reports how many checks have run.
func (w *RolloverWatcher) Checks() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.checks
}
