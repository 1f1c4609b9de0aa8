package models

// Notification is a user-defined reminder. Time is free-form ("07:30",
// "after lunch") and only interpreted by whoever displays it.
type Notification struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Time    string `json:"time"`
	Enabled bool   `json:"enabled"`
}
