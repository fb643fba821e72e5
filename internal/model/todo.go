package model

import "github.com/google/uuid"

// Todo is the domain model for a todo entry.
// ID is assigned once by New and never changes.
type Todo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// New returns an active todo with a fresh unique id.
func New(description string) Todo {
	return Todo{
		ID:          uuid.NewString(),
		Description: description,
	}
}

// Status is the label shown next to the description.
func (t Todo) Status() string {
	if t.Completed {
		return "Completed"
	}
	return "Active"
}
