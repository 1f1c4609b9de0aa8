package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/focos/internal/audio"
	"github.com/julianstephens/focos/internal/cli"
	"github.com/julianstephens/focos/internal/config"
	"github.com/julianstephens/focos/internal/constants"
	apperrors "github.com/julianstephens/focos/internal/errors"
	"github.com/julianstephens/focos/internal/logger"
	"github.com/julianstephens/focos/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"YAML config file." type:"path" default:"${config_file}"`
	DB      string `help:"Storage: a .db or .json path, a PostgreSQL connection string without password, a redis:// URL, ':memory:' or 'keyring'." name:"db"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init    cli.InitCmd    `cmd:"" help:"Initialize focos storage."`
	Migrate cli.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  cli.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Inspect cli.DebugCmd   `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Tui     cli.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Status  cli.StatusCmd  `cmd:"" help:"Show today's progress, level and achievements."`
	Serve   cli.ServeCmd   `cmd:"" help:"Serve the HTTP API and WebSocket change feed."`
	Ask     cli.AskCmd     `cmd:"" help:"Ask the assistant a question."`

	Habit struct {
		Add    cli.HabitAddCmd    `cmd:"" help:"Add a habit."`
		List   cli.HabitListCmd   `cmd:"" help:"List habits." default:"1"`
		Toggle cli.HabitToggleCmd `cmd:"" help:"Mark a habit done or not done today."`
		Delete cli.HabitDeleteCmd `cmd:"" help:"Delete a habit."`
	} `cmd:"" help:"Manage habits."`
	Task struct {
		Add    cli.TaskAddCmd    `cmd:"" help:"Add a task."`
		List   cli.TaskListCmd   `cmd:"" help:"List tasks." default:"1"`
		Toggle cli.TaskToggleCmd `cmd:"" help:"Mark a task done or not done."`
		Delete cli.TaskDeleteCmd `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"Manage tasks."`
	Notify struct {
		Add    cli.NotifyAddCmd    `cmd:"" help:"Add a reminder."`
		List   cli.NotifyListCmd   `cmd:"" help:"List reminders." default:"1"`
		Toggle cli.NotifyToggleCmd `cmd:"" help:"Enable or disable a reminder."`
		Delete cli.NotifyDeleteCmd `cmd:"" help:"Delete a reminder."`
	} `cmd:"" help:"Manage reminders."`
	Settings struct {
		Show cli.SettingsShowCmd `cmd:"" help:"Show settings." default:"1"`
		Set  cli.SettingsSetCmd  `cmd:"" help:"Change one setting."`
	} `cmd:"" help:"Manage application settings."`
	Session struct {
		Complete cli.SessionCompleteCmd `cmd:"" help:"Record a completed focus session."`
	} `cmd:"" help:"Focus sessions."`
	XP struct {
		Add cli.XPAddCmd `cmd:"" help:"Award XP."`
	} `cmd:"" name:"xp" help:"Experience points."`
	FocusMode cli.FocusModeCmd `cmd:"" name:"focus-mode" help:"Toggle distraction-free mode."`
	Rollover  cli.RolloverCmd  `cmd:"" help:"Run the daily habit rollover check."`
	Backup    struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the stored connection string, password masked."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habits, tasks and a focus timer that remember where you left off."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.DB != "" {
		cfg.Storage.DSN = config.ExpandPath(CLI.DB)
	}
	if CLI.Debug {
		cfg.Logging.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Logging.Debug, ConfigDir: cfg.Logging.Dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx := &cli.Context{
		Config: cfg,
		Player: audio.NewLogPlayer(),
	}

	// Keyring commands manage the secret a keyring DSN would need, so they
	// run without opening storage.
	if !strings.HasPrefix(ctx.Command(), "keyring") {
		provider, err := storage.Open(cfg.Storage.DSN)
		if err != nil {
			apperrors.Fatal(err)
		}
		appCtx.Provider = provider
	}

	err = ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	apperrors.Fatal(err)
}
