// Package evidence finds candidate files for the upload modes and watches
// the evidence directory for new arrivals.
package evidence

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/HafizAtif90/ai-guardian/analysis"
	"github.com/HafizAtif90/ai-guardian/submit"
)

// File is one candidate evidence file.
type File struct {
	Path string
	Name string
	Size int64
}

// ListFiles returns the files under dir whose type the given mode accepts,
// sorted newest first.
func ListFiles(dir string, mode analysis.Mode) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read evidence directory: %w", err)
	}

	type dated struct {
		file File
		mod  int64
	}
	var found []dated
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !submit.Accepts(mode, submit.DetectMIME(entry.Name())) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, dated{
			file: File{Path: filepath.Join(dir, entry.Name()), Name: entry.Name(), Size: info.Size()},
			mod:  info.ModTime().UnixNano(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].mod > found[j].mod
	})

	files := make([]File, len(found))
	for i, d := range found {
		files[i] = d.file
	}
	return files, nil
}

// Event reports a change in the evidence directory.
type Event struct {
	Path string
}

// Watcher emits an Event whenever a file is created or written under the
// evidence directory, so open file pickers can refresh.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan Event
	logger  *zap.Logger
}

// NewWatcher starts watching dir. Close the watcher when the picker closes.
func NewWatcher(dir string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		watcher: fsw,
		events:  make(chan Event, 16),
		logger:  logger,
	}
	go w.run()
	return w, nil
}

// Events returns the channel of directory changes.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops the watcher and closes the event channel.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) run() {
	defer close(w.events)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case w.events <- Event{Path: event.Name}:
			default:
				// Drop when the consumer is behind; pickers re-list anyway.
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("evidence watcher error", zap.Error(err))
		}
	}
}
