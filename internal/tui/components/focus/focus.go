// Package focus is the Pomodoro timer tab: a focus block followed by a
// break, repeated on demand.
package focus

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFocus
	PhaseBreak
)

func (p Phase) String() string {
	switch p {
	case PhaseFocus:
		return "Focus"
	case PhaseBreak:
		return "Break"
	default:
		return "Ready"
	}
}

// SessionCompletedMsg is emitted when a focus block runs out.
type SessionCompletedMsg struct{}

// BreakOverMsg is emitted when a break runs out.
type BreakOverMsg struct{}

// ToggleDistractionFreeMsg asks the parent to flip distraction-free mode.
type ToggleDistractionFreeMsg struct{}

type KeyMap struct {
	Start          key.Binding
	Reset          key.Binding
	Skip           key.Binding
	DistractionOff key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start: key.NewBinding(
			key.WithKeys(" ", "s"),
			key.WithHelp("space", "start/pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Skip: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "skip break"),
		),
		DistractionOff: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "distraction-free"),
		),
	}
}

var (
	phaseStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	clockStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

type Model struct {
	keys     KeyMap
	timer    timer.Model
	bar      progress.Model
	phase    Phase
	focus    time.Duration
	brk      time.Duration
	total    time.Duration
	sessions int
	width    int
	height   int
}

// New builds an idle timer for the given durations in minutes.
func New(focusMin, breakMin int) Model {
	m := Model{
		keys: DefaultKeyMap(),
		bar:  progress.New(progress.WithDefaultGradient()),
	}
	m.SetDurations(focusMin, breakMin)
	return m
}

// SetDurations changes the block lengths. A running block keeps its length.
func (m *Model) SetDurations(focusMin, breakMin int) {
	m.focus = time.Duration(focusMin) * time.Minute
	m.brk = time.Duration(breakMin) * time.Minute
}

// SetSessions updates the completed-session count shown under the clock.
func (m *Model) SetSessions(n int) {
	m.sessions = n
}

func (m Model) Phase() Phase {
	return m.phase
}

func (m Model) Running() bool {
	return m.phase != PhaseIdle && m.timer.Running()
}

// Remaining is the time left in the current block, zero when idle.
func (m Model) Remaining() time.Duration {
	if m.phase == PhaseIdle {
		return 0
	}
	return m.timer.Timeout
}

func (m *Model) begin(phase Phase, d time.Duration) tea.Cmd {
	m.phase = phase
	m.total = d
	m.timer = timer.NewWithInterval(d, time.Second)
	return m.timer.Init()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Start):
			if m.phase == PhaseIdle {
				return m, m.begin(PhaseFocus, m.focus)
			}
			return m, m.timer.Toggle()
		case key.Matches(msg, m.keys.Reset):
			cmd := m.timer.Stop()
			m.phase = PhaseIdle
			return m, cmd
		case key.Matches(msg, m.keys.Skip):
			if m.phase == PhaseBreak {
				cmd := m.timer.Stop()
				m.phase = PhaseIdle
				return m, tea.Batch(cmd, func() tea.Msg { return BreakOverMsg{} })
			}
		case key.Matches(msg, m.keys.DistractionOff):
			return m, func() tea.Msg { return ToggleDistractionFreeMsg{} }
		}
		return m, nil

	case timer.TimeoutMsg:
		if m.phase == PhaseIdle || msg.ID != m.timer.ID() {
			return m, nil
		}
		if m.phase == PhaseFocus {
			return m, tea.Batch(
				func() tea.Msg { return SessionCompletedMsg{} },
				m.begin(PhaseBreak, m.brk),
			)
		}
		m.phase = PhaseIdle
		return m, func() tea.Msg { return BreakOverMsg{} }

	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	remaining := m.focus
	pct := 0.0
	if m.phase != PhaseIdle {
		remaining = m.timer.Timeout
		if m.total > 0 {
			pct = 1 - float64(remaining)/float64(m.total)
		}
	}

	title := m.phase.String()
	if m.phase != PhaseIdle && !m.timer.Running() {
		title += " (paused)"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		phaseStyle.Render(title),
		clockStyle.Render(formatClock(remaining)),
		"",
		m.bar.ViewAs(pct),
		"",
		fmt.Sprintf("Sessions completed: %d", m.sessions),
		hintStyle.Render("space start/pause · r reset · n skip break · f distraction-free"),
	)

	if m.width == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = max(min(width-8, 60), 10)
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
