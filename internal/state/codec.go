package state

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/julianstephens/focos/internal/constants"
	apperrors "github.com/julianstephens/focos/internal/errors"
	"github.com/julianstephens/focos/internal/logger"
	"github.com/julianstephens/focos/internal/models"
	"github.com/julianstephens/focos/internal/storage"
)

// AllSlices lists every storage key the store owns, in load order.
var AllSlices = []string{
	constants.KeyHabits,
	constants.KeyTasks,
	constants.KeySettings,
	constants.KeyCompletedSessions,
	constants.KeyNotifications,
	constants.KeyUserXP,
	constants.KeyAchievements,
	constants.KeyLastResetDate,
}

func newID() string {
	return uuid.New().String()
}

// readState loads every slice. A missing key yields its default. A value that
// does not parse also yields the default and is logged; only provider errors
// are returned.
func readState(p storage.Provider) (models.AppState, error) {
	st := models.DefaultState()

	for _, key := range AllSlices {
		raw, err := p.Get(key)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return models.AppState{}, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := decodeSlice(&st, key, raw); err != nil {
			logger.Warn("Discarding malformed stored value, using default",
				"key", key, "error", err)
		}
	}

	st.Settings = st.Settings.Normalize()
	st.Habits = uniqueByID(constants.KeyHabits, st.Habits, func(h models.Habit) string { return h.ID })
	st.Tasks = uniqueByID(constants.KeyTasks, st.Tasks, func(t models.Task) string { return t.ID })
	st.Notifications = uniqueByID(constants.KeyNotifications, st.Notifications, func(n models.Notification) string { return n.ID })
	st.Achievements = mergeAchievements(st.Achievements)
	for i := range st.Habits {
		if st.Habits[i].Streak < 0 {
			st.Habits[i].Streak = 0
		}
	}
	return st.Clone(), nil
}

// decodeSlice parses raw into the slice named by key. On error st is left
// untouched for that slice.
func decodeSlice(st *models.AppState, key, raw string) error {
	switch key {
	case constants.KeyHabits:
		var v []models.Habit
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		st.Habits = v
	case constants.KeyTasks:
		var v []models.Task
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		st.Tasks = v
	case constants.KeySettings:
		// Start from defaults so fields missing from an older record keep
		// sensible values.
		v := models.DefaultSettings()
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		st.Settings = v
	case constants.KeyNotifications:
		var v []models.Notification
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		st.Notifications = v
	case constants.KeyAchievements:
		var v []models.Achievement
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		st.Achievements = v
	case constants.KeyCompletedSessions:
		n, err := parseCounter(raw)
		if err != nil {
			return err
		}
		st.CompletedSessions = n
	case constants.KeyUserXP:
		n, err := parseCounter(raw)
		if err != nil {
			return err
		}
		st.UserXP = n
	case constants.KeyLastResetDate:
		st.LastResetDate = raw
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

// parseCounter accepts the decimal string form and, for older dumps, a JSON
// number.
func parseCounter(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		var f float64
		if jerr := json.Unmarshal([]byte(raw), &f); jerr != nil {
			return 0, err
		}
		n = int(f)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative counter %d", n)
	}
	return n, nil
}

func encodeSlices(st models.AppState, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		v, err := encodeSlice(st, key)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

func encodeSlice(st models.AppState, key string) (string, error) {
	var v any
	switch key {
	case constants.KeyHabits:
		v = st.Habits
	case constants.KeyTasks:
		v = st.Tasks
	case constants.KeySettings:
		v = st.Settings
	case constants.KeyNotifications:
		v = st.Notifications
	case constants.KeyAchievements:
		v = st.Achievements
	case constants.KeyCompletedSessions:
		return strconv.Itoa(st.CompletedSessions), nil
	case constants.KeyUserXP:
		return strconv.Itoa(st.UserXP), nil
	case constants.KeyLastResetDate:
		return st.LastResetDate, nil
	default:
		return "", fmt.Errorf("unknown key %q", key)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// uniqueByID keeps the first entry for each id and drops later repeats.
func uniqueByID[T any](key string, items []T, id func(T) string) []T {
	seen := make(map[string]bool, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if seen[id(it)] {
			logger.Warn("Dropping stored entry with duplicate id", "key", key, "id", id(it))
			continue
		}
		seen[id(it)] = true
		out = append(out, it)
	}
	return out
}

// mergeAchievements keeps stored achievements as they are and appends any
// catalogue entry the stored list does not have yet.
func mergeAchievements(stored []models.Achievement) []models.Achievement {
	seen := make(map[string]bool, len(stored))
	out := make([]models.Achievement, 0, len(stored))
	for _, a := range stored {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	for _, a := range models.DefaultAchievements() {
		if !seen[a.ID] {
			out = append(out, a)
		}
	}
	return out
}
