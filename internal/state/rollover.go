package state

import (
	"fmt"

	"github.com/julianstephens/focos/internal/constants"
	apperrors "github.com/julianstephens/focos/internal/errors"
	"github.com/julianstephens/focos/internal/logger"
	"github.com/julianstephens/focos/internal/models"
)

// Today returns the clock's local calendar date in the stored format.
func (s *Store) Today() string {
	return s.now().Format(constants.ResetDateFormat)
}

// CheckRollover compares the stored last-reset date with today. On a new day
// every habit's streak grows by one if it was completed and drops to zero if
// not, and all completions are cleared. It reports whether a rollover ran.
//
// Missing several days still counts as a single step.
func (s *Store) CheckRollover() (bool, error) {
	today := s.Today()

	last, err := s.provider.Get(constants.KeyLastResetDate)
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return false, fmt.Errorf("failed to read %s: %w", constants.KeyLastResetDate, err)
	}
	if last == today {
		return false, nil
	}

	rolled := false
	err = s.mutate("rollover", func(st *models.AppState) []string {
		// Another caller may have rolled over between the read and the lock.
		if st.LastResetDate == today {
			return nil
		}
		for i := range st.Habits {
			if st.Habits[i].Completed {
				st.Habits[i].Streak++
			} else {
				st.Habits[i].Streak = 0
			}
			st.Habits[i].Completed = false
		}
		st.LastResetDate = today
		rolled = true

		touched := []string{constants.KeyHabits, constants.KeyLastResetDate}
		for _, h := range st.Habits {
			if h.Streak >= constants.WeekStreakGoal {
				if unlock(st, constants.AchievementWeekStreak) {
					touched = append(touched, constants.KeyAchievements)
				}
				break
			}
		}
		return touched
	})
	if err != nil {
		return false, err
	}
	if rolled {
		logger.Info("Daily rollover applied", "previous", last, "today", today)
	}
	return rolled, nil
}

// Resume is the hook for the application coming back to the foreground. It
// re-validates the rollover date.
func (s *Store) Resume() error {
	_, err := s.CheckRollover()
	return err
}
