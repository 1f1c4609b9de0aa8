package constants

import "time"

const (
	AppName            = "focos"
	DisplayName        = "FOCOS"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/focos"
	DefaultDBPath      = "~/.config/focos/focos.db"
	DefaultConfigFile  = "~/.config/focos/focos.yaml"
	Version            = "v0.3.0"

	// ResetDateFormat mirrors the JavaScript Date.toDateString output
	// ("Thu Oct 15 2026") that browser builds wrote under lastResetDate.
	ResetDateFormat = "Mon Jan 02 2006"

	// XP awards
	HabitCompletionXP   = 10
	TaskCompletionXP    = 5
	FocusSessionXP      = 20
	XPPerLevel          = 100
	DeepWorkSessionGoal = 10
	WeekStreakGoal      = 7
	RisingStarXP        = 1000

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "focos-"
	BackupFileSuffix = ".db"

	// Scheduler constants
	DefaultRolloverInterval = time.Minute

	// Server constants
	DefaultServerAddr = "127.0.0.1:7420"

	// Assistant constants
	DefaultAssistantTimeout = 30 * time.Second
	DefaultAssistantModel   = "gpt-4o-mini"
)
