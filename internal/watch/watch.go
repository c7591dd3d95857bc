// Package watch feeds edits made to a file on disk into an editing session,
// and writes the session's reformatted text back.
package watch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"jsonedit/internal/logging"
	"jsonedit/internal/session"
	"jsonedit/internal/storage"
)

// Editor receives file contents as edits.
type Editor interface {
	Change(text string)
}

// Config configures a Watcher.
type Config struct {
	Path   string
	Logger *log.Logger
}

// Watcher observes a single file. The parent directory is watched so that
// editors which save by renaming a temp file are noticed too.
type Watcher struct {
	path   string
	editor Editor
	logger *log.Logger
	fsw    *fsnotify.Watcher

	mu      sync.Mutex
	seen    string
	started bool

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher for cfg.Path. Call Start to begin delivering edits.
func New(cfg Config, editor Editor) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, errors.New("watch: path is empty")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Watcher{
		path:   abs,
		editor: editor,
		logger: logger,
		fsw:    fsw,
		done:   make(chan struct{}),
	}, nil
}

// Start records the current file content as already seen and begins
// watching. The file must exist.
func (w *Watcher) Start() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return errors.New("watch: already started")
	}
	w.seen = string(data)
	w.started = true
	go w.loop()
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.fsw.Close()
		w.mu.Lock()
		started := w.started
		w.mu.Unlock()
		if !started {
			close(w.done)
		}
	})
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "path", w.path, "err", err)
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		// The file may be mid-replace; the next event will retry.
		w.logger.Debug("reload skipped", "path", w.path, "err", err)
		return
	}
	text := string(data)

	w.mu.Lock()
	if text == w.seen {
		w.mu.Unlock()
		return
	}
	w.seen = text
	w.mu.Unlock()

	w.logger.Debug("file changed", "path", w.path, "bytes", len(data))
	w.editor.Change(text)
}

// HandleChange writes the session text back to the file when it differs from
// what the file last held, as happens after autoformatting. It is meant to
// be used as the session's OnChange callback.
func (w *Watcher) HandleChange(snap session.Snapshot) {
	if !snap.Valid {
		return
	}
	w.mu.Lock()
	if snap.Text == w.seen {
		w.mu.Unlock()
		return
	}
	w.seen = snap.Text
	w.mu.Unlock()

	// A truncate-and-write would let the loop read a half-written file.
	if err := storage.AtomicWriteFile(w.path, []byte(snap.Text), 0o644); err != nil {
		w.logger.Error("write back failed", "path", w.path, "err", err)
		return
	}
	w.logger.Info("reformatted", "path", w.path)
}
