package state

import (
	"math"

	"github.com/julianstephens/focos/internal/constants"
	"github.com/julianstephens/focos/internal/logger"
	"github.com/julianstephens/focos/internal/models"
)

// ToggleHabit flips a habit's completion for today. Checking it off awards
// HabitCompletionXP. Unknown ids are ignored.
func (s *Store) ToggleHabit(id string) error {
	return s.mutate("toggle habit", func(st *models.AppState) []string {
		for i := range st.Habits {
			if st.Habits[i].ID != id {
				continue
			}
			st.Habits[i].Completed = !st.Habits[i].Completed
			touched := []string{constants.KeyHabits}
			if st.Habits[i].Completed {
				touched = append(touched, awardXP(st, constants.HabitCompletionXP)...)
			}
			return touched
		}
		return nil
	})
}

// AddHabit appends a new habit with no streak and returns it.
func (s *Store) AddHabit(name string) (models.Habit, error) {
	h := models.Habit{ID: s.newID(), Name: name}
	err := s.mutate("add habit", func(st *models.AppState) []string {
		st.Habits = append(st.Habits, h)
		return []string{constants.KeyHabits}
	})
	if err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *Store) DeleteHabit(id string) error {
	return s.mutate("delete habit", func(st *models.AppState) []string {
		for i := range st.Habits {
			if st.Habits[i].ID == id {
				st.Habits = append(st.Habits[:i], st.Habits[i+1:]...)
				return []string{constants.KeyHabits}
			}
		}
		return nil
	})
}

// ToggleTask flips a task's completion. Completing it awards TaskCompletionXP.
func (s *Store) ToggleTask(id string) error {
	return s.mutate("toggle task", func(st *models.AppState) []string {
		for i := range st.Tasks {
			if st.Tasks[i].ID != id {
				continue
			}
			st.Tasks[i].Completed = !st.Tasks[i].Completed
			touched := []string{constants.KeyTasks}
			if st.Tasks[i].Completed {
				touched = append(touched, awardXP(st, constants.TaskCompletionXP)...)
			}
			return touched
		}
		return nil
	})
}

func (s *Store) AddTask(title string) (models.Task, error) {
	t := models.Task{ID: s.newID(), Title: title}
	err := s.mutate("add task", func(st *models.AppState) []string {
		st.Tasks = append(st.Tasks, t)
		return []string{constants.KeyTasks}
	})
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) DeleteTask(id string) error {
	return s.mutate("delete task", func(st *models.AppState) []string {
		for i := range st.Tasks {
			if st.Tasks[i].ID == id {
				st.Tasks = append(st.Tasks[:i], st.Tasks[i+1:]...)
				return []string{constants.KeyTasks}
			}
		}
		return nil
	})
}

// UpdateSettings shallow-merges patch into the settings. Turning devotional
// mode on also turns divine mode on.
func (s *Store) UpdateSettings(patch models.SettingsPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	return s.mutate("update settings", func(st *models.AppState) []string {
		st.Settings = st.Settings.Apply(patch)
		return []string{constants.KeySettings}
	})
}

// IncrementCompletedSessions records a finished focus session. It awards
// FocusSessionXP, unlocks First Focus and, from the tenth session on, Deep
// Worker.
func (s *Store) IncrementCompletedSessions() error {
	return s.mutate("complete session", func(st *models.AppState) []string {
		st.CompletedSessions++
		touched := []string{constants.KeyCompletedSessions}
		touched = append(touched, awardXP(st, constants.FocusSessionXP)...)

		unlocked := unlock(st, constants.AchievementFirstSession)
		if st.CompletedSessions >= constants.DeepWorkSessionGoal {
			unlocked = unlock(st, constants.AchievementTenSessions) || unlocked
		}
		if unlocked {
			touched = appendOnce(touched, constants.KeyAchievements)
		}
		return touched
	})
}

// AddNotification creates an enabled notification and returns it.
func (s *Store) AddNotification(title, message, at string) (models.Notification, error) {
	n := models.Notification{
		ID:      s.newID(),
		Title:   title,
		Message: message,
		Time:    at,
		Enabled: true,
	}
	err := s.mutate("add notification", func(st *models.AppState) []string {
		st.Notifications = append(st.Notifications, n)
		return []string{constants.KeyNotifications}
	})
	if err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

func (s *Store) ToggleNotification(id string) error {
	return s.mutate("toggle notification", func(st *models.AppState) []string {
		for i := range st.Notifications {
			if st.Notifications[i].ID == id {
				st.Notifications[i].Enabled = !st.Notifications[i].Enabled
				return []string{constants.KeyNotifications}
			}
		}
		return nil
	})
}

func (s *Store) DeleteNotification(id string) error {
	return s.mutate("delete notification", func(st *models.AppState) []string {
		for i := range st.Notifications {
			if st.Notifications[i].ID == id {
				st.Notifications = append(st.Notifications[:i], st.Notifications[i+1:]...)
				return []string{constants.KeyNotifications}
			}
		}
		return nil
	})
}

// AddXP adds amount to the user's XP. Amounts below one are ignored so XP
// never goes down.
func (s *Store) AddXP(amount int) error {
	if amount <= 0 {
		return nil
	}
	return s.mutate("add xp", func(st *models.AppState) []string {
		return awardXP(st, amount)
	})
}

// ToggleDistractionFreeMode flips distraction-free mode and starts or stops
// the ambient track in the background.
func (s *Store) ToggleDistractionFreeMode() error {
	err := s.mutate("toggle distraction-free mode", func(st *models.AppState) []string {
		st.Settings.DistractionFreeMode = !st.Settings.DistractionFreeMode
		return []string{constants.KeySettings}
	})
	if err != nil {
		return err
	}

	s.audioWG.Add(1)
	go func() {
		defer s.audioWG.Done()
		s.syncAudio()
	}()
	return nil
}

// syncAudio drives the player to match the settings committed at the time it
// runs. Calls are serialized, so the last one always reflects the latest
// toggle.
func (s *Store) syncAudio() {
	s.audioMu.Lock()
	defer s.audioMu.Unlock()

	s.mu.Lock()
	loaded := s.loaded
	settings := s.state.Settings
	s.mu.Unlock()
	if !loaded {
		return
	}

	var err error
	if settings.DistractionFreeMode && settings.SoundEnabled && settings.FocusSound != "none" {
		err = s.player.Start(settings.FocusSound)
	} else {
		err = s.player.Stop()
	}
	if err != nil {
		logger.Warn("Ambient audio failed", "error", err)
	}
}

// awardXP adds amount, saturating at math.MaxInt, and unlocks Rising Star
// once the threshold is crossed.
// It returns the keys it touched.
func awardXP(st *models.AppState, amount int) []string {
	if amount > math.MaxInt-st.UserXP {
		st.UserXP = math.MaxInt
	} else {
		st.UserXP += amount
	}
	touched := []string{constants.KeyUserXP}
	if st.UserXP >= constants.RisingStarXP && unlock(st, constants.AchievementRisingStar) {
		touched = append(touched, constants.KeyAchievements)
	}
	return touched
}

// unlock reports whether the achievement went from locked to unlocked.
func unlock(st *models.AppState, id string) bool {
	for i := range st.Achievements {
		if st.Achievements[i].ID == id {
			if st.Achievements[i].Unlocked {
				return false
			}
			st.Achievements[i].Unlocked = true
			return true
		}
	}
	return false
}

func appendOnce(keys []string, key string) []string {
	for _, k := range keys {
		if k == key {
			return keys
		}
	}
	return append(keys, key)
}
