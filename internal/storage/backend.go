package storage

import (
	"fmt"

	"github.com/pdxmph/todo-tui/internal/task"
)

// Backend persists the task list somewhere durable
type Backend interface {
	task.Persister

	// Name returns the backend identifier (e.g., "json", "sqlite")
	Name() string

	// Location describes where the data lives, for messages and logs
	Location() string

	// Close releases any resources held by the backend
	Close() error
}

// Resetter is implemented by backends that can move unreadable data aside
// and start over
type Resetter interface {
	// Reset moves the current data out of the way and returns where it went
	Reset() (string, error)
}

// BackendFactory creates a backend for the given location (a file path or DSN)
type BackendFactory func(location string) (Backend, error)

// ParseError reports persisted data that exists but cannot be read back
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
