package task

import (
	"fmt"
	"strings"
)

// DateLayout is the format of Task.DateAdded
const DateLayout = "2006-01-02"

// Priority is the importance a user gives a task
type Priority string

const (
	High   Priority = "High"
	Medium Priority = "Medium"
	Low    Priority = "Low"
)

// Priorities lists the valid priorities in display order
var Priorities = []Priority{High, Medium, Low}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case High, Medium, Low:
		return true
	}
	return false
}

// ParsePriority converts user text into a Priority, ignoring case and
// surrounding whitespace
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown priority %q", ErrValidation, s)
}

// Status is the completion state of a task
type Status string

const (
	Pending   Status = "Pending"
	Completed Status = "Completed"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	return s == Pending || s == Completed
}

// ID identifies a task for the lifetime of a Store. IDs are never persisted
// and never reused; zero means "no task".
type ID int

// Task is a single to-do item
type Task struct {
	ID          ID
	Description string
	Priority    Priority
	DateAdded   string // YYYY-MM-DD
	Status      Status
}

// IsCompleted reports whether the task has been marked complete
func (t Task) IsCompleted() bool {
	return t.Status == Completed
}
