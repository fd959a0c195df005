package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pdxmph/todo-tui/internal/storage"
	"github.com/pdxmph/todo-tui/internal/task"
)

// record is one task in its on-disk JSON form
type record struct {
	Task     string `json:"task"`
	Priority string `json:"priority"`
	Date     string `json:"date"`
	Status   string `json:"status"`
}

// Backend stores the task list as a single JSON array file
type Backend struct {
	path string
}

// NewBackend creates a JSON file backend. The file need not exist yet.
func NewBackend(path string) (storage.Backend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json backend needs a file path")
	}
	return &Backend{path: path}, nil
}

// Name returns the backend identifier
func (b *Backend) Name() string {
	return "json"
}

// Location returns the file path
func (b *Backend) Location() string {
	return b.path
}

// Load reads the task list. A missing file is an empty list.
func (b *Backend) Load() ([]task.Task, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []task.Task{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", b.path, err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &storage.ParseError{Path: b.path, Err: err}
	}

	tasks := make([]task.Task, 0, len(records))
	for i, r := range records {
		status := task.Status(r.Status)
		if !status.Valid() {
			return nil, &storage.ParseError{
				Path: b.path,
				Err:  fmt.Errorf("task %d has unknown status %q", i, r.Status),
			}
		}
		tasks = append(tasks, task.Task{
			Description: r.Task,
			Priority:    task.Priority(r.Priority),
			DateAdded:   r.Date,
			Status:      status,
		})
	}

	return tasks, nil
}

// Save replaces the file with the given list
func (b *Backend) Save(tasks []task.Task) error {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, record{
			Task:     t.Description,
			Priority: string(t.Priority),
			Date:     t.DateAdded,
			Status:   string(t.Status),
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(b.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", b.path, err)
	}
	return nil
}

// Reset renames the current file to <path>.corrupt-<timestamp>
func (b *Backend) Reset() (string, error) {
	backup := b.path + ".corrupt-" + time.Now().Format("20060102-150405")
	if err := os.Rename(b.path, backup); err != nil {
		return "", fmt.Errorf("renaming %s: %w", b.path, err)
	}
	return backup, nil
}

// Close does nothing; the file is only open during Load and Save
func (b *Backend) Close() error {
	return nil
}

func init() {
	storage.Register("json", NewBackend)
}
