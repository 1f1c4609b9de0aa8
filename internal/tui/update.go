package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focos/internal/tui/components/focus"
	"github.com/julianstephens/focos/internal/tui/components/habits"
	"github.com/julianstephens/focos/internal/tui/components/settings"
	"github.com/julianstephens/focos/internal/tui/components/tasks"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case StateChangedMsg:
		m.apply(msg.Version, msg.State)
		return m, nil

	case tea.FocusMsg:
		// Regaining the terminal is the "app resumed" signal.
		m.mutate(m.store.Resume)
		return m, nil
	}

	if handled, cmd := m.handleComponentMsg(msg); handled {
		return m, cmd
	}

	switch m.state {
	case StateAddHabit, StateAddTask, StateEditSettings:
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab) && !m.snapshot.Settings.DistractionFreeMode:
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab) && !m.snapshot.Settings.DistractionFreeMode:
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	return m.updateActive(msg)
}

// filtering reports whether a list is capturing keystrokes for its filter.
func (m Model) filtering() bool {
	switch m.state {
	case StateHabits:
		return m.habitsModel.FilterState() == list.Filtering
	case StateTasks:
		return m.tasksModel.FilterState() == list.Filtering
	}
	return false
}

// updateActive routes key presses to the visible tab. Everything else goes to
// the focus timer too, which must keep ticking while another tab is shown.
func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if _, ok := msg.(tea.KeyMsg); !ok {
		m.focusModel, cmd = m.focusModel.Update(msg)
		return m, cmd
	}

	state := m.state
	if m.snapshot.Settings.DistractionFreeMode {
		state = StateFocus
	}
	switch state {
	case StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case StateTasks:
		m.tasksModel, cmd = m.tasksModel.Update(msg)
	case StateFocus:
		m.focusModel, cmd = m.focusModel.Update(msg)
	case StateSettings:
		m.settingsModel, cmd = m.settingsModel.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleComponentMsg(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		m.habitForm = &HabitFormModel{}
		m.form = NewHabitForm(m.habitForm)
		m.state = StateAddHabit
		return true, m.form.Init()
	case habits.ToggleHabitMsg:
		m.mutate(func() error { return m.store.ToggleHabit(msg.ID) })
		return true, nil
	case habits.DeleteHabitMsg:
		m.mutate(func() error { return m.store.DeleteHabit(msg.ID) })
		return true, nil

	case tasks.AddTaskMsg:
		m.taskForm = &TaskFormModel{}
		m.form = NewTaskForm(m.taskForm)
		m.state = StateAddTask
		return true, m.form.Init()
	case tasks.ToggleTaskMsg:
		m.mutate(func() error { return m.store.ToggleTask(msg.ID) })
		return true, nil
	case tasks.DeleteTaskMsg:
		m.mutate(func() error { return m.store.DeleteTask(msg.ID) })
		return true, nil

	case focus.SessionCompletedMsg:
		m.mutate(m.store.IncrementCompletedSessions)
		if !m.statusIsError && m.status == "" {
			m.setStatus("Focus session complete. Take a break.")
		}
		return true, nil
	case focus.BreakOverMsg:
		m.setStatus("Break over. Press space to focus again.")
		return true, nil
	case focus.ToggleDistractionFreeMsg:
		m.mutate(m.store.ToggleDistractionFreeMode)
		return true, nil

	case settings.EditSettingsMsg:
		m.settingsForm = newSettingsFormModel(m.snapshot.Settings)
		m.form = NewSettingsForm(m.settingsForm)
		m.state = StateEditSettings
		return true, m.form.Init()
	}
	return false, nil
}

// updateForm drives whichever huh form is open and applies it on completion.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	back := StateHabits
	switch m.state {
	case StateAddTask:
		back = StateTasks
	case StateEditSettings:
		back = StateSettings
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = back
		return m, nil
	}

	// Keep the timer ticking underneath the form.
	if _, ok := msg.(tea.KeyMsg); !ok {
		var timerCmd tea.Cmd
		m.focusModel, timerCmd = m.focusModel.Update(msg)
		if timerCmd != nil {
			return m, timerCmd
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var err error
		switch m.state {
		case StateAddHabit:
			_, err = m.store.AddHabit(strings.TrimSpace(m.habitForm.Name))
		case StateAddTask:
			_, err = m.store.AddTask(strings.TrimSpace(m.taskForm.Title))
		case StateEditSettings:
			patch, perr := m.settingsForm.Patch()
			if perr != nil {
				err = perr
			} else {
				err = m.store.UpdateSettings(patch)
			}
		}
		if err != nil {
			// Stay in the form so the user can retry or escape.
			m.setError(err)
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.refresh()
		m.status = ""
		m.state = back
	case huh.StateAborted:
		m.state = back
	}
	return m, cmd
}
