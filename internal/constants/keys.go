package constants

// Durable storage keys. These match the keys the browser build wrote to
// localStorage so an exported dump can be imported verbatim.
const (
	KeyHabits            = "habits"
	KeyTasks             = "tasks"
	KeySettings          = "settings"
	KeyCompletedSessions = "completedSessions"
	KeyNotifications     = "notifications"
	KeyUserXP            = "userXp"
	KeyAchievements      = "achievements"
	KeyLastResetDate     = "lastResetDate"
)

// Achievement ids
const (
	AchievementFirstSession = "1"
	AchievementWeekStreak   = "2"
	AchievementTenSessions  = "3"
	AchievementRisingStar   = "4"
)
