package habits

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/focos/internal/models"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeysEmitMessagesForSelectedHabit(t *testing.T) {
	m := New(models.DefaultHabits(), 80, 30)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	tests := []struct {
		name string
		key  tea.KeyMsg
		want tea.Msg
	}{
		{"space toggles", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, ToggleHabitMsg{ID: "2"}},
		{"m toggles", runes("m"), ToggleHabitMsg{ID: "2"}},
		{"d deletes", runes("d"), DeleteHabitMsg{ID: "2"}},
		{"a adds", runes("a"), AddHabitMsg{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd := m.Update(tt.key)
			if cmd == nil {
				t.Fatal("expected a command")
			}
			if got := cmd(); got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestToggleOnEmptyListDoesNothing(t *testing.T) {
	m := New(nil, 80, 30)
	if _, cmd := m.Update(runes("m")); cmd != nil {
		t.Error("toggle on an empty list should not emit a command")
	}
	if got := m.View(); got == "" {
		t.Error("empty list should render a hint")
	}
}

func TestItemRendering(t *testing.T) {
	done := Item{Habit: models.Habit{Name: "Read", Streak: 4, Completed: true}}
	if done.Title() != "✓ Read" || done.Description() != "4 day streak · done today" {
		t.Errorf("completed item = %q / %q", done.Title(), done.Description())
	}
	open := Item{Habit: models.Habit{Name: "Walk"}}
	if open.Title() != "○ Walk" || open.Description() != "0 day streak" {
		t.Errorf("open item = %q / %q", open.Title(), open.Description())
	}
}
