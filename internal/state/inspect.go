package state

import (
	"fmt"

	"github.com/julianstephens/focos/internal/constants"
	apperrors "github.com/julianstephens/focos/internal/errors"
	"github.com/julianstephens/focos/internal/models"
	"github.com/julianstephens/focos/internal/storage"
)

// Problem is one finding of Inspect.
type Problem struct {
	Key     string
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Key, p.Message)
}

// Inspect reads the stored slices without loading them into a store and
// reports values Load would discard, duplicate ids and negative streaks.
func Inspect(p storage.Provider) ([]Problem, error) {
	var problems []Problem
	add := func(key, format string, args ...interface{}) {
		problems = append(problems, Problem{Key: key, Message: fmt.Sprintf(format, args...)})
	}

	st := models.DefaultState()
	for _, key := range AllSlices {
		raw, err := p.Get(key)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := decodeSlice(&st, key, raw); err != nil {
			add(key, "malformed value, default will be used: %v", err)
		}
	}

	dupes := func(key string, ids []string) {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				add(key, "duplicate id %q", id)
			}
			seen[id] = true
		}
	}

	habitIDs := make([]string, 0, len(st.Habits))
	for _, h := range st.Habits {
		habitIDs = append(habitIDs, h.ID)
		if h.Streak < 0 {
			add(constants.KeyHabits, "habit %q has negative streak %d", h.ID, h.Streak)
		}
	}
	dupes(constants.KeyHabits, habitIDs)

	taskIDs := make([]string, 0, len(st.Tasks))
	for _, t := range st.Tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	dupes(constants.KeyTasks, taskIDs)

	notificationIDs := make([]string, 0, len(st.Notifications))
	for _, n := range st.Notifications {
		notificationIDs = append(notificationIDs, n.ID)
	}
	dupes(constants.KeyNotifications, notificationIDs)

	achievementIDs := make([]string, 0, len(st.Achievements))
	for _, a := range st.Achievements {
		achievementIDs = append(achievementIDs, a.ID)
	}
	dupes(constants.KeyAchievements, achievementIDs)

	return problems, nil
}
