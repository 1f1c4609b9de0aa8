package models

// Habit represents a daily practice with a completion flag for today and a
// consecutive-day streak.
type Habit struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Streak    int    `json:"streak"`
	Icon      string `json:"icon,omitempty"`
}

// DefaultHabits returns the habits seeded on first run.
func DefaultHabits() []Habit {
	return []Habit{
		{ID: "1", Name: "Morning meditation", Streak: 5, Icon: "brain"},
		{ID: "2", Name: "Read 20 pages", Streak: 3, Icon: "book"},
		{ID: "3", Name: "Drink 8 glasses of water", Streak: 1, Icon: "droplet"},
	}
}
