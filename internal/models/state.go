package models

import "github.com/julianstephens/focos/internal/constants"

// AppState is a full, self-contained copy of everything the store owns.
type AppState struct {
	Habits            []Habit        `json:"habits"`
	Tasks             []Task         `json:"tasks"`
	Settings          Settings       `json:"settings"`
	CompletedSessions int            `json:"completedSessions"`
	Notifications     []Notification `json:"notifications"`
	UserXP            int            `json:"userXp"`
	Achievements      []Achievement  `json:"achievements"`
	LastResetDate     string         `json:"lastResetDate,omitempty"`
}

// DefaultState returns the first-run state.
func DefaultState() AppState {
	return AppState{
		Habits:        DefaultHabits(),
		Tasks:         []Task{},
		Settings:      DefaultSettings(),
		Notifications: []Notification{},
		Achievements:  DefaultAchievements(),
	}
}

// Clone returns a deep copy so callers can hold on to it without racing the
// store.
func (s AppState) Clone() AppState {
	out := s
	out.Habits = append([]Habit(nil), s.Habits...)
	out.Tasks = append([]Task(nil), s.Tasks...)
	out.Notifications = append([]Notification(nil), s.Notifications...)
	out.Achievements = append([]Achievement(nil), s.Achievements...)
	if out.Habits == nil {
		out.Habits = []Habit{}
	}
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}
	if out.Notifications == nil {
		out.Notifications = []Notification{}
	}
	if out.Achievements == nil {
		out.Achievements = []Achievement{}
	}
	return out
}

// Level derives the user level from XP, starting at 1.
func (s AppState) Level() int {
	return s.UserXP/constants.XPPerLevel + 1
}

// Achievement returns the achievement with the given id.
func (s AppState) Achievement(id string) (Achievement, bool) {
	for _, a := range s.Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Habit returns the habit with the given id.
func (s AppState) Habit(id string) (Habit, bool) {
	for _, h := range s.Habits {
		if h.ID == id {
			return h, true
		}
	}
	return Habit{}, false
}

// Task returns the task with the given id.
func (s AppState) Task(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Notification returns the notification with the given id.
func (s AppState) Notification(id string) (Notification, bool) {
	for _, n := range s.Notifications {
		if n.ID == id {
			return n, true
		}
	}
	return Notification{}, false
}
