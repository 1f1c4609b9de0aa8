package models

import "github.com/julianstephens/focos/internal/constants"

// Achievement is a one-way badge: once Unlocked it stays unlocked.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
}

// DefaultAchievements returns the achievement catalogue, all locked.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{
			ID:          constants.AchievementFirstSession,
			Title:       "First Focus",
			Description: "Complete your first focus session",
			Icon:        "target",
		},
		{
			ID:          constants.AchievementWeekStreak,
			Title:       "Week Warrior",
			Description: "Keep any habit going for 7 days in a row",
			Icon:        "flame",
		},
		{
			ID:          constants.AchievementTenSessions,
			Title:       "Deep Worker",
			Description: "Complete 10 focus sessions",
			Icon:        "trophy",
		},
		{
			ID:          constants.AchievementRisingStar,
			Title:       "Rising Star",
			Description: "Earn 1000 XP",
			Icon:        "star",
		},
	}
}
