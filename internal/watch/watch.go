// Package watch reports changes to scene files.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is the minimum time between two events for the same file.
const Debounce = 100 * time.Millisecond

// Watcher sends the path of every changed scene file on Events. Files are watched
// through their directory so editors that replace the file on save are still seen.
// Events and Errors are closed once the watcher stops.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error

	files   map[string]bool
	dirs    map[string]bool
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// New watches each path. A file path reports changes to that file only; a directory
// reports changes to any YAML file inside it.
func New(paths ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		files:   map[string]bool{},
		dirs:    map[string]bool{},
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	watched := map[string]bool{}
	for _, path := range paths {
		path = filepath.Clean(path)
		info, err := os.Stat(path)
		if err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watching %s: %w", path, err)
		}
		dir := path
		if info.IsDir() {
			watcher.dirs[path] = true
		} else {
			watcher.files[path] = true
			dir = filepath.Dir(path)
		}
		if watched[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		watched[dir] = true
	}

	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and waits for Events and Errors to be closed.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if !w.matches(name) {
				continue
			}
			now := time.Now()
			if t, ok := last[name]; ok && now.Sub(t) < Debounce {
				continue
			}
			last[name] = now
			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.closeCh:
				return
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) matches(name string) bool {
	if w.files[name] {
		return true
	}
	return w.dirs[filepath.Dir(name)] && isSceneFile(name)
}

func isSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
