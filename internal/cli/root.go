package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/focos/internal/audio"
	"github.com/julianstephens/focos/internal/backup"
	"github.com/julianstephens/focos/internal/config"
	apperrors "github.com/julianstephens/focos/internal/errors"
	"github.com/julianstephens/focos/internal/logger"
	"github.com/julianstephens/focos/internal/models"
	"github.com/julianstephens/focos/internal/state"
	"github.com/julianstephens/focos/internal/storage"
)

// Context is shared by every command. Provider is opened by main but not
// loaded; commands that need state call LoadStore.
type Context struct {
	Config   *config.Config
	Provider storage.Provider
	Player   audio.Player

	// Out and In default to the process streams.
	Out io.Writer
	In  io.Reader

	store *state.Store
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// LoadStore loads the provider, initializing it on first run, and returns a
// loaded state store. Repeated calls return the same store.
func (c *Context) LoadStore() (*state.Store, error) {
	if c.store != nil {
		return c.store, nil
	}

	if err := c.Provider.Load(); err != nil {
		if !apperrors.Is(err, apperrors.ErrNotInitialized) {
			return nil, err
		}
		logger.Info("Initializing storage on first run", "path", c.Provider.GetConfigPath())
		if err := c.Provider.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
	}

	player := c.Player
	if player == nil {
		player = audio.Nop{}
	}
	store := state.New(c.Provider, state.WithAudio(player))
	if err := store.Load(); err != nil {
		return nil, err
	}
	c.store = store
	return store, nil
}

// Close closes the store if one was loaded, otherwise the bare provider.
func (c *Context) Close() error {
	if c.store != nil {
		err := c.store.Close()
		c.store = nil
		return err
	}
	if c.Provider != nil {
		return c.Provider.Close()
	}
	return nil
}

// sqlitePath returns the database file for SQLite-backed storage.
func (c *Context) sqlitePath() (string, bool) {
	if _, ok := c.Provider.(*storage.SQLiteStore); !ok {
		return "", false
	}
	return c.Provider.GetConfigPath(), true
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	path, ok := c.sqlitePath()
	if !ok {
		return
	}
	if _, err := backup.NewManager(path).Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// confirm asks a y/N question on In.
func (c *Context) confirm(prompt string) (bool, error) {
	c.printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.in()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func formatHabit(h models.Habit) string {
	return fmt.Sprintf("%s %s  (streak %d)  id=%s", checkbox(h.Completed), h.Name, h.Streak, h.ID)
}

func formatTask(t models.Task) string {
	return fmt.Sprintf("%s %s  id=%s", checkbox(t.Completed), t.Title, t.ID)
}

// printUnlocked reports achievements unlocked between before and after.
func printUnlocked(ctx *Context, before []models.Achievement, after models.AppState) {
	was := make(map[string]bool, len(before))
	for _, a := range before {
		was[a.ID] = a.Unlocked
	}
	for _, a := range after.Achievements {
		if a.Unlocked && !was[a.ID] {
			ctx.printf("🏆 Achievement unlocked: %s\n", a.Title)
		}
	}
}
