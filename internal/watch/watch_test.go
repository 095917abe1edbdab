package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func write(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func next(t *testing.T, w *Watcher) string {
	t.Helper()
	select {
	case name := <-w.Events:
		return name
	case err := <-w.Errors:
		t.Fatal(err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for an event")
	}
	return ""
}

func TestWatcher_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	other := filepath.Join(dir, "other.yaml")
	write(t, path, "bodies: []\n")

	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	write(t, other, "bodies: []\n")
	write(t, path, "engine: {sleeping: true}\n")
	if got := next(t, w); got != path {
		t.Errorf("Expected %s, got %s", path, got)
	}
}

func TestWatcher_Dir(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	write(t, filepath.Join(dir, "notes.txt"), "ignored")
	path := filepath.Join(dir, "chain.yml")
	write(t, path, "bodies: []\n")
	if got := next(t, w); got != path {
		t.Errorf("Expected %s, got %s", path, got)
	}
}

func TestWatcher_Close(t *testing.T) {
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-w.Events; ok {
		t.Error("Expected Events to be closed")
	}
	if _, ok := <-w.Errors; ok {
		t.Error("Expected Errors to be closed")
	}
	if err := w.Close(); err != nil {
		t.Error("Expected a second Close to be a no-op")
	}
}

func TestWatcher_Missing(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing path")
	}
}
