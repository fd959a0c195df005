package jsonfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pdxmph/todo-tui/internal/storage"
	"github.com/pdxmph/todo-tui/internal/task"
)

func newTestBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	b, err := NewBackend(path)
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	return b.(*Backend), path
}

func sampleTasks() []task.Task {
	return []task.Task{
		{Description: "Buy milk", Priority: task.High, DateAdded: "2026-10-17", Status: task.Completed},
		{Description: "Call bank", Priority: task.Low, DateAdded: "2026-10-17", Status: task.Pending},
		{Description: "Call bank", Priority: task.Medium, DateAdded: "2026-10-16", Status: task.Pending},
	}
}

func TestNewBackendNeedsPath(t *testing.T) {
	if _, err := NewBackend("  "); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestLoadMissingFile(t *testing.T) {
	b, _ := newTestBackend(t)

	tasks, err := b.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty list, got %d tasks", len(tasks))
	}
}

func TestRoundTrip(t *testing.T) {
	b, _ := newTestBackend(t)
	want := sampleTasks()

	if err := b.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSaveOverwrites(t *testing.T) {
	b, _ := newTestBackend(t)

	if err := b.Save(sampleTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := b.Save(sampleTasks()[:1]); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 task after overwrite, got %d", len(got))
	}
}

func TestFileFormat(t *testing.T) {
	b, path := newTestBackend(t)
	if err := b.Save(sampleTasks()[:1]); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	var raw []map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("file is not a JSON array of objects: %v", err)
	}
	want := []map[string]string{{
		"task":     "Buy milk",
		"priority": "High",
		"date":     "2026-10-17",
		"status":   "Completed",
	}}
	if !reflect.DeepEqual(raw, want) {
		t.Errorf("expected %v, got %v", want, raw)
	}
}

func TestLoadLegacyFile(t *testing.T) {
	b, path := newTestBackend(t)
	legacy := `[{"task": "Buy milk", "priority": "High", "date": "2024-03-01", "status": "Pending"}, ` +
		`{"task": "Taxes", "priority": "Whenever", "date": "2024-03-02", "status": "Completed"}]`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if got[1].Priority != "Whenever" {
		t.Errorf("expected free-form priority to survive, got %q", got[1].Priority)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `[{"task": "Buy mi`},
		{"empty", ``},
		{"not an array", `{"task": "Buy milk"}`},
		{"bad status", `[{"task": "Buy milk", "priority": "High", "date": "2026-10-17", "status": "Done"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, path := newTestBackend(t)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			_, err := b.Load()
			var perr *storage.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if perr.Path != path {
				t.Errorf("expected path %s, got %s", path, perr.Path)
			}
		})
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	b, path := newTestBackend(t)
	for i := 0; i < 3; i++ {
		if err := b.Save(sampleTasks()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "tasks.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only tasks.json, got %v", names)
	}
}

func TestSaveFailsWhenParentIsAFile(t *testing.T) {
	b, path := newTestBackend(t)
	if err := b.Save(sampleTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	before, _ := os.ReadFile(path)

	blocked := &Backend{path: filepath.Join(path, "nested.json")}
	if err := blocked.Save(sampleTasks()[:1]); err == nil {
		t.Fatal("expected save under a regular file to fail")
	}

	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("expected existing file to be untouched by a failed save")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.json")
	b, err := NewBackend(path)
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if err := b.Save(sampleTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %v", err)
	}
}

func TestReset(t *testing.T) {
	b, path := newTestBackend(t)
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	backup, err := b.Reset()
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if !strings.HasPrefix(backup, path+".corrupt-") {
		t.Errorf("unexpected backup path %s", backup)
	}
	data, err := os.ReadFile(backup)
	if err != nil || string(data) != "garbage" {
		t.Errorf("expected original bytes in backup, got %q (%v)", data, err)
	}

	tasks, err := b.Load()
	if err != nil || len(tasks) != 0 {
		t.Errorf("expected empty list after reset, got %d tasks (%v)", len(tasks), err)
	}
}

func TestCorruptFileBackupPolicy(t *testing.T) {
	b, path := newTestBackend(t)
	if err := os.WriteFile(path, []byte(`[{"task": `), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	m := storage.NewManagerFor(b, storage.CorruptBackup)
	store, err := m.OpenStore()
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d tasks", store.Len())
	}

	if _, err := store.Add("Start over", task.Medium); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	matches, _ := filepath.Glob(path + ".corrupt-*")
	if len(matches) != 1 {
		t.Errorf("expected one backup file, got %v", matches)
	}
}

func TestStoreScenario(t *testing.T) {
	b, _ := newTestBackend(t)
	today := time.Now()

	store, err := task.Open(b, task.WithClock(func() time.Time { return today }))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	milk, err := store.Add("Buy milk", task.High)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add("Call bank", task.Low); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.MarkComplete(milk.ID); err != nil {
		t.Fatalf("MarkComplete failed: %v", err)
	}

	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	date := today.Format(task.DateLayout)
	want := []task.Task{
		{Description: "Buy milk", Priority: task.High, DateAdded: date, Status: task.Completed},
		{Description: "Call bank", Priority: task.Low, DateAdded: date, Status: task.Pending},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSaveSucceedsWhenDirSyncFails(t *testing.T) {
	b, _ := newTestBackend(t)

	orig := syncDir
	syncDir = func(string) error { return errors.New("sync not supported") }
	t.Cleanup(func() { syncDir = orig })

	store, err := task.Open(b)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Add("Buy milk", task.High); err != nil {
		t.Fatalf("expected add to succeed once the file is renamed, got %v", err)
	}

	saved, err := b.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(saved) != 1 || saved[0].Description != "Buy milk" || store.Len() != 1 {
		t.Errorf("expected file and memory to both hold the new task, got %+v and %d", saved, store.Len())
	}
}
