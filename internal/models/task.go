package models

// Task is a one-off to-do item. Unlike habits it is never reset.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}
