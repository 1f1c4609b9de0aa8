package state

import (
	"testing"
	"time"

	"github.com/julianstephens/focos/internal/constants"
	"github.com/julianstephens/focos/internal/models"
	"github.com/julianstephens/focos/internal/storage"
)

func seededStore(t *testing.T, habits string, lastReset string) (*Store, *storage.MemoryStore, *testClock) {
	t.Helper()
	mem := storage.NewMemoryStore()
	entries := map[string]string{constants.KeyHabits: habits}
	if lastReset != "" {
		entries[constants.KeyLastResetDate] = lastReset
	}
	if err := mem.SetMany(entries); err != nil {
		t.Fatal(err)
	}
	clock := newClock()
	return reload(t, mem, clock), mem, clock
}

func yesterday(c *testClock) string {
	return c.Now().AddDate(0, 0, -1).Format(constants.ResetDateFormat)
}

func TestRolloverCorrectness(t *testing.T) {
	tests := []struct {
		name       string
		completed  bool
		streak     int
		wantStreak int
	}{
		{"completed yesterday extends streak", true, 2, 3},
		{"missed yesterday resets streak", false, 2, 0},
		{"completed from zero", true, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := storage.NewMemoryStore()
			clock := newClock()
			habits, _ := encodeSlice(models.AppState{Habits: []models.Habit{
				{ID: "h", Name: "Habit", Completed: tt.completed, Streak: tt.streak},
			}}, constants.KeyHabits)
			if err := mem.SetMany(map[string]string{
				constants.KeyHabits:        habits,
				constants.KeyLastResetDate: yesterday(clock),
			}); err != nil {
				t.Fatal(err)
			}

			s := reload(t, mem, clock)
			h, _ := s.Snapshot().Habit("h")
			if h.Completed {
				t.Error("Completed = true after rollover")
			}
			if h.Streak != tt.wantStreak {
				t.Errorf("Streak = %d, want %d", h.Streak, tt.wantStreak)
			}

			stored, _ := mem.Get(constants.KeyLastResetDate)
			if want := clock.Now().Format(constants.ResetDateFormat); stored != want {
				t.Errorf("stored lastResetDate = %q, want %q", stored, want)
			}
		})
	}
}

func TestRolloverIdempotentWithinDay(t *testing.T) {
	s, mem, clock := newTestStore(t)
	if err := s.ToggleHabit("1"); err != nil {
		t.Fatal(err)
	}

	before := s.Snapshot()
	rawDate, _ := mem.Get(constants.KeyLastResetDate)

	for i := 0; i < 2; i++ {
		clock.Advance(time.Hour)
		rolled, err := s.CheckRollover()
		if err != nil {
			t.Fatal(err)
		}
		if rolled {
			t.Fatalf("call %d rolled over within the same day", i+1)
		}
	}

	after := s.Snapshot()
	for i := range before.Habits {
		if before.Habits[i] != after.Habits[i] {
			t.Errorf("habit %s changed: %+v -> %+v", before.Habits[i].ID, before.Habits[i], after.Habits[i])
		}
	}
	if got, _ := mem.Get(constants.KeyLastResetDate); got != rawDate {
		t.Errorf("lastResetDate changed from %q to %q", rawDate, got)
	}
}

func TestRolloverRunsOncePerDay(t *testing.T) {
	s, _, clock := newTestStore(t)
	if err := s.ToggleHabit("2"); err != nil {
		t.Fatal(err)
	}

	clock.Advance(24 * time.Hour)
	rolled, err := s.CheckRollover()
	if err != nil || !rolled {
		t.Fatalf("CheckRollover() = %v, %v; want true, nil", rolled, err)
	}
	h, _ := s.Snapshot().Habit("2")
	if h.Streak != 1 || h.Completed {
		t.Fatalf("habit 2 = %+v after first rollover", h)
	}

	rolled, err = s.CheckRollover()
	if err != nil || rolled {
		t.Fatalf("second CheckRollover() = %v, %v; want false, nil", rolled, err)
	}
	if h2, _ := s.Snapshot().Habit("2"); h2 != h {
		t.Errorf("habit changed on repeated rollover: %+v -> %+v", h, h2)
	}
}

func TestRolloverMultiDayGapIsSingleStep(t *testing.T) {
	s, _, clock := seededStore(t,
		`[{"id":"a","name":"A","completed":true,"streak":4}]`,
		newClock().Now().Format(constants.ResetDateFormat))

	clock.Advance(5 * 24 * time.Hour)
	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	h, _ := s.Snapshot().Habit("a")
	if h.Streak != 5 {
		t.Errorf("Streak = %d after a five-day gap, want 5", h.Streak)
	}
}

func TestRolloverWithoutStoredDate(t *testing.T) {
	s, mem, clock := seededStore(t, `[{"id":"a","name":"A","completed":true,"streak":1}]`, "")

	h, _ := s.Snapshot().Habit("a")
	if h.Completed || h.Streak != 2 {
		t.Errorf("habit = %+v, want rolled over on first load", h)
	}
	got, _ := mem.Get(constants.KeyLastResetDate)
	if want := clock.Now().Format(constants.ResetDateFormat); got != want {
		t.Errorf("lastResetDate = %q, want %q", got, want)
	}
}

func TestRolloverUnlocksWeekWarrior(t *testing.T) {
	s, _, _ := seededStore(t,
		`[{"id":"a","name":"A","completed":true,"streak":6},{"id":"b","name":"B","completed":false,"streak":9}]`,
		yesterday(newClock()))

	st := s.Snapshot()
	a, _ := st.Habit("a")
	b, _ := st.Habit("b")
	if a.Streak != 7 || b.Streak != 0 {
		t.Errorf("streaks = %d/%d, want 7/0", a.Streak, b.Streak)
	}
	if ach, _ := st.Achievement(constants.AchievementWeekStreak); !ach.Unlocked {
		t.Error("Week Warrior still locked after a 7-day streak")
	}
}

func TestRolloverPublishesChange(t *testing.T) {
	s, _, clock := newTestStore(t)

	got := make(chan Change, 1)
	defer s.Subscribe(func(c Change) { got <- c })()

	clock.Advance(24 * time.Hour)
	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	select {
	case c := <-got:
		if c.State.LastResetDate != s.Today() {
			t.Errorf("change LastResetDate = %q, want %q", c.State.LastResetDate, s.Today())
		}
	default:
		t.Fatal("rollover did not publish a change")
	}
}

func TestStreakNeverNegative(t *testing.T) {
	s, _, clock := seededStore(t, `[{"id":"a","name":"A","completed":false,"streak":-3}]`, yesterday(newClock()))

	for day := 0; day < 3; day++ {
		for _, h := range s.Snapshot().Habits {
			if h.Streak < 0 {
				t.Fatalf("day %d: habit %s has streak %d", day, h.ID, h.Streak)
			}
		}
		clock.Advance(24 * time.Hour)
		if _, err := s.CheckRollover(); err != nil {
			t.Fatal(err)
		}
	}
}
