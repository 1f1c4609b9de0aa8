package cli

import "github.com/julianstephens/focos/internal/models"

// StatusCmd prints a one-screen summary of the day.
type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	st := store.Snapshot()

	ctx.printf("%s  %s\n\n", st.Settings.AppName, store.Today())
	ctx.printf("Level %d  (%d XP)\n", st.Level(), st.UserXP)
	ctx.printf("Focus sessions completed: %d\n", st.CompletedSessions)
	ctx.printf("Habits done today: %d/%d\n", countHabits(st.Habits), len(st.Habits))
	ctx.printf("Open tasks: %d\n", countOpenTasks(st.Tasks))
	if st.Settings.DistractionFreeMode {
		ctx.println("Distraction-free mode: on")
	}

	ctx.println("\nAchievements:")
	for _, a := range st.Achievements {
		mark := "🔒"
		if a.Unlocked {
			mark = "✓"
		}
		ctx.printf("  %s %s - %s\n", mark, a.Title, a.Description)
	}
	return nil
}

func countHabits(habits []models.Habit) int {
	n := 0
	for _, h := range habits {
		if h.Completed {
			n++
		}
	}
	return n
}

func countOpenTasks(tasks []models.Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}
