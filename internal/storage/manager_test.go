package storage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pdxmph/todo-tui/internal/task"
)

// corruptBackend fails to load until it has been reset
type corruptBackend struct {
	MemoryBackend
	corrupt  bool
	resets   int
	canReset bool
}

func (c *corruptBackend) Load() ([]task.Task, error) {
	if c.corrupt {
		return nil, &ParseError{Path: "tasks.json", Err: errors.New("unexpected end of JSON input")}
	}
	return c.MemoryBackend.Load()
}

func (c *corruptBackend) Reset() (string, error) {
	if !c.canReset {
		return "", errors.New("not supported")
	}
	c.corrupt = false
	c.resets++
	return "tasks.json.corrupt", nil
}

func TestManagerOpenStore(t *testing.T) {
	mem := NewMemoryBackend()
	if err := mem.Save(Fixtures(time.Now())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	m := NewManagerFor(mem, "")
	store, err := m.OpenStore()
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	if store.Len() != len(Fixtures(time.Now())) {
		t.Errorf("expected %d tasks, got %d", len(Fixtures(time.Now())), store.Len())
	}
	if m.Name() != "memory" {
		t.Errorf("expected memory, got %s", m.Name())
	}
}

func TestManagerCorruptFail(t *testing.T) {
	b := &corruptBackend{corrupt: true, canReset: true}
	m := NewManagerFor(b, CorruptFail)

	_, err := m.OpenStore()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if b.resets != 0 {
		t.Error("expected data to be left alone under the fail policy")
	}
}

func TestManagerCorruptBackup(t *testing.T) {
	b := &corruptBackend{corrupt: true, canReset: true}
	m := NewManagerFor(b, CorruptBackup)

	store, err := m.OpenStore()
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store after backup, got %d tasks", store.Len())
	}
	if b.resets != 1 {
		t.Errorf("expected 1 reset, got %d", b.resets)
	}
}

func TestManagerCorruptBackupResetFails(t *testing.T) {
	b := &corruptBackend{corrupt: true}
	m := NewManagerFor(b, CorruptBackup)

	_, err := m.OpenStore()
	if err == nil || !strings.Contains(err.Error(), "backing up corrupt data") {
		t.Errorf("expected backup error, got %v", err)
	}
}

func TestNewManagerUnknownBackend(t *testing.T) {
	if _, err := NewManager("carrier-pigeon", "", CorruptFail); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestSeed(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	mem := NewMemoryBackend()

	n, err := Seed(mem, now)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	loaded, _ := mem.Load()
	if n != len(loaded) || n == 0 {
		t.Errorf("expected %d seeded tasks, got %d", len(loaded), n)
	}
	for _, tk := range loaded {
		if strings.TrimSpace(tk.Description) == "" || !tk.Priority.Valid() {
			t.Errorf("fixture is not a valid task: %+v", tk)
		}
		if _, err := time.Parse(task.DateLayout, tk.DateAdded); err != nil {
			t.Errorf("fixture has bad date %q: %v", tk.DateAdded, err)
		}
	}

	if _, err := Seed(mem, now); err == nil {
		t.Error("expected error seeding non-empty storage")
	}
}
