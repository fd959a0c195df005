package storage

import (
	"errors"
	"fmt"
	"log"

	"github.com/pdxmph/todo-tui/internal/task"
)

// CorruptPolicy decides what happens when saved data cannot be parsed
type CorruptPolicy string

const (
	// CorruptFail stops startup and leaves the data alone
	CorruptFail CorruptPolicy = "fail"

	// CorruptBackup moves the unreadable data aside and starts empty
	CorruptBackup CorruptPolicy = "backup"
)

// Manager owns the selected backend and opens the task store on top of it
type Manager struct {
	backend   Backend
	onCorrupt CorruptPolicy
}

// NewManager opens the named backend at location
func NewManager(name, location string, onCorrupt CorruptPolicy) (*Manager, error) {
	if onCorrupt == "" {
		onCorrupt = CorruptFail
	}

	backend, err := Open(name, location)
	if err != nil {
		return nil, fmt.Errorf("opening %s backend: %w", name, err)
	}

	log.Printf("Using %s backend at %s", backend.Name(), backend.Location())
	return &Manager{backend: backend, onCorrupt: onCorrupt}, nil
}

// NewManagerFor wraps an already open backend
func NewManagerFor(backend Backend, onCorrupt CorruptPolicy) *Manager {
	if onCorrupt == "" {
		onCorrupt = CorruptFail
	}
	return &Manager{backend: backend, onCorrupt: onCorrupt}
}

// Backend returns the current backend
func (m *Manager) Backend() Backend {
	return m.backend
}

// Name returns the name of the current backend
func (m *Manager) Name() string {
	return m.backend.Name()
}

// OpenStore loads the task store, applying the corrupt-data policy when the
// saved data cannot be parsed
func (m *Manager) OpenStore(opts ...task.Option) (*task.Store, error) {
	store, err := task.Open(m.backend, opts...)
	if err == nil {
		log.Printf("Loaded %d tasks", store.Len())
		return store, nil
	}

	var perr *ParseError
	if !errors.As(err, &perr) || m.onCorrupt != CorruptBackup {
		return nil, err
	}

	resetter, ok := m.backend.(Resetter)
	if !ok {
		return nil, fmt.Errorf("%w (the %s backend cannot back up corrupt data)", err, m.backend.Name())
	}

	backup, rerr := resetter.Reset()
	if rerr != nil {
		return nil, fmt.Errorf("backing up corrupt data: %w", rerr)
	}
	log.Printf("Could not read %s (%v); moved it to %s and started with an empty list", perr.Path, perr.Err, backup)

	return task.Open(m.backend, opts...)
}

// Close closes the backend
func (m *Manager) Close() error {
	return m.backend.Close()
}
