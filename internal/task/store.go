package task

import (
	"fmt"
	"strings"
	"time"
)

// Persister reads and writes the full task list
type Persister interface {
	// Load returns the saved tasks in order, or an empty list if nothing
	// has been saved yet
	Load() ([]Task, error)

	// Save replaces everything previously saved with tasks
	Save(tasks []Task) error
}

// Option configures a Store
type Option func(*Store)

// WithClock sets the function used to date new tasks
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store owns the in-memory task list. Every successful mutation is saved
// through the Persister before it returns; a failed save leaves the list
// as it was. A Store is not safe for concurrent use.
type Store struct {
	backend Persister
	tasks   []Task
	nextID  ID
	now     func() time.Time
}

// Open loads the task list from backend
func Open(backend Persister, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		nextID:  1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	s.tasks = make([]Task, 0, len(loaded))
	for _, t := range loaded {
		t.ID = s.nextID
		s.nextID++
		s.tasks = append(s.tasks, t)
	}

	return s, nil
}

// Add appends a pending task dated today
func (s *Store) Add(description string, priority Priority) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, fmt.Errorf("%w: description is empty", ErrValidation)
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
	}

	t := Task{
		ID:          s.nextID,
		Description: description,
		Priority:    priority,
		DateAdded:   s.now().Format(DateLayout),
		Status:      Pending,
	}

	next := append(s.snapshot(), t)
	if err := s.commit(next); err != nil {
		return Task{}, err
	}
	s.nextID++

	return t, nil
}

// MarkComplete marks the task completed. Completing a completed task is
// allowed and still saves.
func (s *Store) MarkComplete(id ID) error {
	idx, err := s.index(id)
	if err != nil {
		return err
	}

	next := s.snapshot()
	next[idx].Status = Completed
	return s.commit(next)
}

// Delete removes the task once the user has confirmed
func (s *Store) Delete(id ID, confirmed bool) error {
	idx, err := s.index(id)
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrDeclined
	}

	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:idx]...)
	next = append(next, s.tasks[idx+1:]...)
	return s.commit(next)
}

// ClearCompleted removes every completed task once the user has confirmed,
// keeping the remaining tasks in order. It returns how many were removed.
func (s *Store) ClearCompleted(confirmed bool) (int, error) {
	if !confirmed {
		return 0, ErrDeclined
	}

	next := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.IsCompleted() {
			next = append(next, t)
		}
	}

	removed := len(s.tasks) - len(next)
	if err := s.commit(next); err != nil {
		return 0, err
	}
	return removed, nil
}

// Tasks returns a copy of the list in order
func (s *Store) Tasks() []Task {
	return s.snapshot()
}

// Len returns the number of tasks
func (s *Store) Len() int {
	return len(s.tasks)
}

// At returns the task at position i
func (s *Store) At(i int) (Task, bool) {
	if i < 0 || i >= len(s.tasks) {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Get returns the task with the given ID
func (s *Store) Get(id ID) (Task, bool) {
	idx, err := s.index(id)
	if err != nil {
		return Task{}, false
	}
	return s.tasks[idx], true
}

// Counts returns the number of pending and completed tasks
func (s *Store) Counts() (pending, completed int) {
	for _, t := range s.tasks {
		if t.IsCompleted() {
			completed++
		} else {
			pending++
		}
	}
	return pending, completed
}

func (s *Store) index(id ID) (int, error) {
	if id == 0 {
		return -1, ErrNoSelection
	}
	for i, t := range s.tasks {
		if t.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w (id %d)", ErrNotFound, id)
}

func (s *Store) snapshot() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) commit(next []Task) error {
	if err := s.backend.Save(next); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	s.tasks = next
	return nil
}
