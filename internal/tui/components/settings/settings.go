package settings

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focos/internal/models"
)

type EditSettingsMsg struct{}

type Model struct {
	settings models.Settings
	xp       int
	level    int
	unlocked []models.Achievement
	width    int
	height   int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(25)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)
)

func New(st models.AppState, width, height int) Model {
	m := Model{width: width, height: height}
	m.SetState(st)
	return m
}

func (m *Model) SetState(st models.AppState) {
	m.settings = st.Settings
	m.xp = st.UserXP
	m.level = st.Level()
	m.unlocked = nil
	for _, a := range st.Achievements {
		if a.Unlocked {
			m.unlocked = append(m.unlocked, a)
		}
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "e" {
		return m, func() tea.Msg { return EditSettingsMsg{} }
	}
	return m, nil
}

func row(label string, value any) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(label), valueStyle.Render(fmt.Sprint(value)))
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	s := m.settings

	var sections []string

	sections = append(sections, sectionStyle.Render(titleStyle.Render("Focus")+"\n"+lipgloss.JoinVertical(
		lipgloss.Left,
		row("Focus (min):", s.FocusDuration),
		row("Break (min):", s.BreakDuration),
		row("Sound:", s.SoundEnabled),
		row("Focus sound:", s.FocusSound),
		row("Distraction-free:", s.DistractionFreeMode),
	)))

	sections = append(sections, sectionStyle.Render(titleStyle.Render("Appearance")+"\n"+lipgloss.JoinVertical(
		lipgloss.Left,
		row("App name:", s.AppName),
		row("Primary color:", lipgloss.NewStyle().Foreground(lipgloss.Color(s.PrimaryColor)).Render(s.PrimaryColor)),
		row("Dark mode:", s.DarkMode),
		row("Divine mode:", s.DivineMode),
		row("Devotional mode:", s.DevotionalMode),
		row("Notifications:", s.NotificationsEnabled),
	)))

	progressLines := []string{row("Level:", m.level), row("XP:", m.xp)}
	for _, a := range m.unlocked {
		progressLines = append(progressLines, row("🏆 "+a.Title, a.Description))
	}
	sections = append(sections, sectionStyle.Render(titleStyle.Render("Progress")+"\n"+lipgloss.JoinVertical(lipgloss.Left, progressLines...)))

	helpText := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true).
		MarginTop(1).
		Render("Press 'e' to edit settings")
	sections = append(sections, helpText)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Left,
		lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 4).Render(lipgloss.JoinVertical(lipgloss.Left, sections...)),
	)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
