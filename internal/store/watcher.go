package store

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce is how long a file must stay quiet before a change is emitted.
const debounce = 100 * time.Millisecond

// Change reports that the watched data file was written, created, renamed
// over, or removed.
type Change struct {
	Path    string
	Removed bool
}

// Watcher watches a single data file for changes made by other processes.
// It watches the parent directory, since atomic saves replace the file
// rather than writing it in place.
type Watcher struct {
	Path    string
	Changes <-chan Change

	changes chan Change
	done    chan struct{}
	watcher *fsnotify.Watcher
	log     *zap.Logger
}

// NewWatcher creates a watcher for the file at path.
func NewWatcher(path string, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Path:    abs,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
		log:     log,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var (
		pending bool
		removed bool
		last    time.Time
	)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if pending {
					w.emit(removed)
				}
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				pending, removed, last = true, false, time.Now()
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				pending, removed, last = true, true, time.Now()
			}

		case <-ticker.C:
			if pending && time.Since(last) >= debounce {
				w.emit(removed)
				pending = false
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Debug("watch error", zap.String("path", w.Path), zap.Error(err))
		}
	}
}

func (w *Watcher) emit(removed bool) {
	select {
	case w.changes <- Change{Path: w.Path, Removed: removed}:
	default:
		// A change is already queued; the reader reloads full state anyway.
	}
}
