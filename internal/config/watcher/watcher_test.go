package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const waitFor = 2 * time.Second

func newTestWatcher(t *testing.T, opts ...Option) (*Watcher, chan Event) {
	t.Helper()
	w, err := New(append([]Option{WithDelay(20 * time.Millisecond)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	events := make(chan Event, 16)
	w.OnChange(func(ev Event) { events <- ev })
	return w, events
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func expectEvent(t *testing.T, events chan Event, path string) Event {
	t.Helper()
	deadline := time.After(waitFor)
	for {
		select {
		case ev := <-events:
			if ev.Path == path {
				return ev
			}
		case <-deadline:
			t.Fatalf("no event for %s", path)
			return Event{}
		}
	}
}

func expectNone(t *testing.T, events chan Event) {
	t.Helper()
	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codecore.toml")
	other := filepath.Join(dir, "other.toml")
	write(t, path, "a")
	write(t, other, "a")

	w, events := newTestWatcher(t)
	if err := w.Add(path); err != nil {
		t.Fatalf("Add: %v", err)
	}

	write(t, other, "b")
	expectNone(t, events)

	write(t, path, "b")
	ev := expectEvent(t, events, path)
	if !ev.Op.Has(OpWrite) {
		t.Errorf("Op = %v, want write", ev.Op)
	}
}

func TestWatchDirectory(t *testing.T) {
	dir := t.TempDir()
	w, events := newTestWatcher(t)
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add: %v", err)
	}

	path := filepath.Join(dir, "lang.yaml")
	write(t, path, "name: x")
	ev := expectEvent(t, events, path)
	if !ev.Op.Has(OpCreate) && !ev.Op.Has(OpWrite) {
		t.Errorf("Op = %v", ev.Op)
	}
}

func TestBurstIsCoalesced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codecore.toml")
	write(t, path, "0")

	w, events := newTestWatcher(t, WithDelay(100*time.Millisecond))
	if err := w.Add(path); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		write(t, path, strings.Repeat("x", i+1))
	}
	expectEvent(t, events, path)
	expectNone(t, events)
}

func TestFilter(t *testing.T) {
	dir := t.TempDir()
	w, events := newTestWatcher(t, WithFilter(func(p string) bool {
		return filepath.Ext(p) == ".yaml"
	}))
	if err := w.Add(dir); err != nil {
		t.Fatal(err)
	}

	write(t, filepath.Join(dir, "notes.txt"), "x")
	expectNone(t, events)

	path := filepath.Join(dir, "go.yaml")
	write(t, path, "x")
	expectEvent(t, events, path)
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codecore.toml")
	write(t, path, "a")

	w, events := newTestWatcher(t)
	if err := w.Add(path); err != nil {
		t.Fatal(err)
	}
	if err := w.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := w.Watched(); len(got) != 0 {
		t.Errorf("Watched = %v", got)
	}
	write(t, path, "b")
	expectNone(t, events)
}

func TestAddMissingPath(t *testing.T) {
	w, _ := newTestWatcher(t)
	err := w.Add(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, ErrPathNotExist) {
		t.Fatalf("err = %v, want ErrPathNotExist", err)
	}
}

func TestClose(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := w.Add(t.TempDir()); !errors.Is(err, ErrClosed) {
		t.Fatalf("Add after Close = %v, want ErrClosed", err)
	}
}

func TestOpString(t *testing.T) {
	tests := map[Op]string{
		0:                   "none",
		OpWrite:             "write",
		OpCreate | OpWrite:  "write|create",
		OpRemove | OpRename: "remove|rename",
	}
	for op, want := range tests {
		if got := op.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", op, got, want)
		}
	}
}
