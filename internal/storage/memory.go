package storage

import "github.com/pdxmph/todo-tui/internal/task"

// MemoryBackend keeps tasks in memory only. Nothing survives the process.
type MemoryBackend struct {
	tasks []task.Task
	saves int
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Name returns the backend identifier
func (m *MemoryBackend) Name() string {
	return "memory"
}

// Location always reports memory
func (m *MemoryBackend) Location() string {
	return "(memory)"
}

// Load returns a copy of the saved tasks
func (m *MemoryBackend) Load() ([]task.Task, error) {
	out := make([]task.Task, len(m.tasks))
	copy(out, m.tasks)
	return out, nil
}

// Save replaces the saved tasks with a copy of tasks
func (m *MemoryBackend) Save(tasks []task.Task) error {
	m.tasks = make([]task.Task, len(tasks))
	copy(m.tasks, tasks)
	m.saves++
	return nil
}

// Saves returns how many times Save has been called
func (m *MemoryBackend) Saves() int {
	return m.saves
}

// Close does nothing
func (m *MemoryBackend) Close() error {
	return nil
}

func init() {
	Register("memory", func(string) (Backend, error) { return NewMemoryBackend(), nil })
}
