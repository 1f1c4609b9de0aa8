package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// Distraction-free mode shows nothing but the timer.
	if m.snapshot.Settings.DistractionFreeMode && m.state <= StateSettings {
		return lipgloss.JoinVertical(lipgloss.Left, m.focusModel.View(), m.viewStatus())
	}

	var content string
	switch m.state {
	case StateHabits:
		content = docStyle.Render(m.habitsModel.View())
	case StateTasks:
		content = docStyle.Render(m.tasksModel.View())
	case StateFocus:
		content = m.focusModel.View()
	case StateSettings:
		content = m.settingsModel.View()
	case StateAddHabit, StateAddTask, StateEditSettings:
		content = docStyle.Render(m.form.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	switch m.state {
	case StateAddHabit:
		active = StateHabits
	case StateAddTask:
		active = StateTasks
	case StateEditSettings:
		active = StateSettings
	}

	tabs := []string{accentStyle(m.snapshot.Settings.PrimaryColor).Render(m.snapshot.Settings.AppName)}
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	tabs = append(tabs, statusStyle.Render(fmt.Sprintf("Lv %d · %d XP", m.snapshot.Level(), m.snapshot.UserXP)))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusIsError {
		return dangerStyle.Render(m.status)
	}
	return toastStyle.Render(m.status)
}
