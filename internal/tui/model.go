package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focos/internal/models"
	"github.com/julianstephens/focos/internal/state"
	"github.com/julianstephens/focos/internal/tui/components/focus"
	"github.com/julianstephens/focos/internal/tui/components/habits"
	"github.com/julianstephens/focos/internal/tui/components/settings"
	"github.com/julianstephens/focos/internal/tui/components/tasks"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateTasks
	StateFocus
	StateSettings
	StateAddHabit
	StateAddTask
	StateEditSettings
)

var tabTitles = []string{"Habits", "Tasks", "Focus", "Settings"}

const tabCount = 4

// StateChangedMsg carries a committed store change into the event loop.
type StateChangedMsg struct {
	Version uint64
	State   models.AppState
}

type HabitFormModel struct {
	Name string
}

type TaskFormModel struct {
	Title string
}

type SettingsFormModel struct {
	FocusDuration        string
	BreakDuration        string
	SoundEnabled         bool
	FocusSound           string
	PrimaryColor         string
	AppName              string
	NotificationsEnabled bool
	DarkMode             bool
	DivineMode           bool
	DevotionalMode       bool
}

type Model struct {
	store         *state.Store
	state         SessionState
	keys          KeyMap
	help          help.Model
	habitsModel   habits.Model
	tasksModel    tasks.Model
	focusModel    focus.Model
	settingsModel settings.Model
	form          *huh.Form
	habitForm     *HabitFormModel
	taskForm      *TaskFormModel
	settingsForm  *SettingsFormModel
	snapshot      models.AppState
	version       uint64
	status        string
	statusIsError bool
	quitting      bool
	width         int
	height        int
}

func NewModel(store *state.Store) Model {
	version := store.Version()
	st := store.Snapshot()

	fm := focus.New(st.Settings.FocusDuration, st.Settings.BreakDuration)
	fm.SetSessions(st.CompletedSessions)

	return Model{
		store:         store,
		state:         StateHabits,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		habitsModel:   habits.New(st.Habits, 0, 0),
		tasksModel:    tasks.New(st.Tasks, 0, 0),
		focusModel:    fm,
		settingsModel: settings.New(st, 0, 0),
		snapshot:      st,
		version:       version,
	}
}

// Listen forwards store changes to p. Each Send gets its own goroutine: a
// mutation made inside Update would otherwise deadlock the event loop.
// Out-of-order arrivals are dropped by version.
func Listen(store *state.Store, p *tea.Program) func() {
	return store.Subscribe(func(c state.Change) {
		go p.Send(StateChangedMsg{Version: c.Version, State: c.State})
	})
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateHabits, StateTasks:
		keys = append(keys, m.keys.Add, m.keys.Toggle, m.keys.Delete)
	case StateFocus:
		keys = append(keys, m.keys.Start, m.keys.Reset, m.keys.Focus)
	case StateSettings:
		keys = append(keys, m.keys.Edit)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateHabits, StateTasks:
		actions = []key.Binding{m.keys.Add, m.keys.Toggle, m.keys.Delete}
	case StateFocus:
		actions = []key.Binding{m.keys.Start, m.keys.Reset, m.keys.Focus}
	case StateSettings:
		actions = []key.Binding{m.keys.Edit}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// apply installs a state version into every component. Older versions are
// ignored.
func (m *Model) apply(version uint64, st models.AppState) {
	if version < m.version {
		return
	}
	m.version = version
	m.snapshot = st
	m.habitsModel.SetHabits(st.Habits)
	m.tasksModel.SetTasks(st.Tasks)
	m.focusModel.SetDurations(st.Settings.FocusDuration, st.Settings.BreakDuration)
	m.focusModel.SetSessions(st.CompletedSessions)
	m.settingsModel.SetState(st)
}

// refresh reads the store directly after a local mutation.
func (m *Model) refresh() {
	version := m.store.Version()
	m.apply(version, m.store.Snapshot())
}

func (m *Model) setError(err error) {
	m.status = "Error: " + err.Error()
	m.statusIsError = true
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusIsError = false
}

// mutate runs op, refreshes from the store and reports newly unlocked
// achievements.
func (m *Model) mutate(op func() error) {
	before := m.snapshot.Achievements
	if err := op(); err != nil {
		m.setError(err)
		return
	}
	m.refresh()
	m.status = ""
	was := make(map[string]bool, len(before))
	for _, a := range before {
		was[a.ID] = a.Unlocked
	}
	for _, a := range m.snapshot.Achievements {
		if a.Unlocked && !was[a.ID] {
			m.setStatus("🏆 Achievement unlocked: " + a.Title)
		}
	}
}

func (m *Model) resize() {
	h := m.height - 4
	if h < 0 {
		h = 0
	}
	m.habitsModel.SetSize(m.width-4, h-2)
	m.tasksModel.SetSize(m.width-4, h-2)
	m.focusModel.SetSize(m.width, h)
	m.settingsModel.SetSize(m.width, h)
}
