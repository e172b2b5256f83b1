package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOp_String(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "create"},
		{OpWrite, "write"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{OpCreate | OpWrite, "create|write"},
		{Op(0), "none"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestNewMonitor(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "settings.json")

	m, err := NewMonitor(target)
	if err != nil {
		t.Fatalf("NewMonitor error = %v", err)
	}
	defer m.Close()

	if m.Path() != target {
		t.Errorf("Path() = %q, want %q", m.Path(), target)
	}
	if m.Events() == nil {
		t.Error("events channel should not be nil")
	}
	if m.Errors() == nil {
		t.Error("errors channel should not be nil")
	}
}

func TestNewMonitor_DirMissing(t *testing.T) {
	_, err := NewMonitor("/nonexistent/dir/that/does/not/exist/settings.json")
	if err == nil {
		t.Fatal("NewMonitor should fail when the directory does not exist")
	}
}

// waitForEvent drains the monitor until an event for the target arrives or
// the timeout elapses.
func waitForEvent(t *testing.T, m *Monitor, timeout time.Duration) (Event, bool) {
	t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case event := <-m.Events():
			return event, true
		case <-deadline:
			return Event{}, false
		}
	}
}

func TestMonitor_Create(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "settings.json")

	m, err := NewMonitor(target, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewMonitor error = %v", err)
	}
	defer m.Close()

	if err := os.WriteFile(target, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	event, ok := waitForEvent(t, m, 2*time.Second)
	if !ok {
		t.Fatal("timeout waiting for create event")
	}
	if event.Path != target {
		t.Errorf("event.Path = %q, want %q", event.Path, target)
	}
	if !event.Op.Has(OpCreate) {
		t.Errorf("event.Op = %v, want create", event.Op)
	}
}

func TestMonitor_CoalescesWrites(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "settings.json")
	if err := os.WriteFile(target, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	m, err := NewMonitor(target, WithDebounce(100*time.Millisecond))
	if err != nil {
		t.Fatalf("NewMonitor error = %v", err)
	}
	defer m.Close()

	// Three rapid writes within the debounce window.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte("{\n}\n"), 0644); err != nil {
			t.Fatalf("WriteFile error = %v", err)
		}
	}

	event, ok := waitForEvent(t, m, 2*time.Second)
	if !ok {
		t.Fatal("timeout waiting for coalesced event")
	}
	if !event.Op.Has(OpWrite) {
		t.Errorf("event.Op = %v, want write", event.Op)
	}

	// The burst is over: no further event should arrive.
	select {
	case event := <-m.Events():
		t.Errorf("unexpected second event %v", event)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestMonitor_IgnoresSiblings(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "settings.json")
	if err := os.WriteFile(target, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	m, err := NewMonitor(target, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewMonitor error = %v", err)
	}
	defer m.Close()

	sibling := filepath.Join(tmpDir, "other.json")
	if err := os.WriteFile(sibling, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	select {
	case event := <-m.Events():
		t.Errorf("unexpected event for sibling file: %v", event)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestMonitor_AtomicReplace(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "settings.json")
	if err := os.WriteFile(target, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	m, err := NewMonitor(target, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewMonitor error = %v", err)
	}
	defer m.Close()

	// Editor-style save: write a temp file, rename over the target.
	tmpFile := filepath.Join(tmpDir, ".settings.json.tmp")
	if err := os.WriteFile(tmpFile, []byte("{\n}\n"), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	if err := os.Rename(tmpFile, target); err != nil {
		t.Fatalf("Rename error = %v", err)
	}

	event, ok := waitForEvent(t, m, 2*time.Second)
	if !ok {
		t.Fatal("timeout waiting for replace event")
	}
	if !event.Op.Has(OpCreate) {
		t.Errorf("event.Op = %v, want create", event.Op)
	}
}

func TestMonitor_Remove(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "settings.json")
	if err := os.WriteFile(target, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	m, err := NewMonitor(target, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewMonitor error = %v", err)
	}
	defer m.Close()

	if err := os.Remove(target); err != nil {
		t.Fatalf("Remove error = %v", err)
	}

	event, ok := waitForEvent(t, m, 2*time.Second)
	if !ok {
		t.Fatal("timeout waiting for remove event")
	}
	if !event.Op.Has(OpRemove) {
		t.Errorf("event.Op = %v, want remove", event.Op)
	}
}

func TestMonitor_CloseIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "settings.json")

	m, err := NewMonitor(target)
	if err != nil {
		t.Fatalf("NewMonitor error = %v", err)
	}

	if err := m.Close(); err != nil {
		t.Errorf("Close error = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close again error = %v", err)
	}

	if _, ok := <-m.Events(); ok {
		t.Error("events channel should be closed after Close")
	}
}
