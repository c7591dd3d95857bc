// Package session holds the state of one editing session: the current text,
// whether it is valid JSON, the theme tag and the history log. Edits arrive
// through Change and are debounced; explicit actions apply immediately.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"jsonedit/internal/convert"
	"jsonedit/internal/history"
	"jsonedit/internal/jsonvalue"
	"jsonedit/internal/logging"
	"jsonedit/internal/sanitize"
)

// DefaultDebounce is the quiet period after the last edit before it is
// processed.
const DefaultDebounce = 500 * time.Millisecond

var (
	// ErrInvalidJSON is returned by actions that need the current text to parse.
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrUnknownEntry is returned by Restore for an id not in the log.
	ErrUnknownEntry = errors.New("unknown history entry")
	// ErrHistoryNotSaved wraps a failed history write. The edit that caused
	// it has still been applied.
	ErrHistoryNotSaved = errors.New("history not saved")
)

// Timer is the part of *time.Timer the session uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d, like time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Options configures a Session.
type Options struct {
	Debounce   time.Duration
	AutoFormat bool
	Indent     string
	Theme      string

	// OnChange is called after every applied edit, outside the session lock.
	OnChange func(Snapshot)

	AfterFunc AfterFunc
	Logger    *log.Logger
}

// Snapshot is a copy of the session state.
type Snapshot struct {
	Text    string
	Valid   bool
	Theme   string
	Output  string
	History history.Log

	// Err is set when the edit could not be recorded in history.
	Err error
}

// Session is safe for concurrent use.
type Session struct {
	store *history.Store
	opts  Options

	mu      sync.Mutex
	text    string
	valid   bool
	theme   string
	output  string
	log     history.Log
	pending string
	armed   bool
	timer   Timer
	gen     uint64
}

// New returns a session with an empty text and the history loaded from store.
func New(store *history.Store, opts Options) *Session {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Session{
		store: store,
		opts:  opts,
		theme: opts.Theme,
		log:   store.Load(),
	}
}

// Change records an edit. Only the latest text of a burst is processed, once
// no further edit arrives within the debounce interval.
func (s *Session) Change(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = text
	s.armed = true
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.opts.AfterFunc(s.opts.Debounce, func() { s.fire(gen) })
}

func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	// A timer that could not be stopped in time may still run; gen tells
	// it apart from the current one.
	if gen != s.gen || !s.armed {
		s.mu.Unlock()
		return
	}
	text := s.pending
	s.disarmLocked()
	snap := s.applyLocked(text, s.opts.AutoFormat)
	s.mu.Unlock()

	s.notify(snap)
}

// Flush processes a pending edit immediately. It reports whether there was
// one.
func (s *Session) Flush() bool {
	s.mu.Lock()
	if !s.armed {
		s.mu.Unlock()
		return false
	}
	text := s.pending
	s.disarmLocked()
	snap := s.applyLocked(text, s.opts.AutoFormat)
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// Close drops a pending edit without processing it.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
}

// baseLocked is the latest raw text: a pending edit wins over the applied
// text.
func (s *Session) baseLocked() string {
	if s.armed {
		return s.pending
	}
	return s.text
}

func (s *Session) disarmLocked() {
	s.gen++
	s.armed = false
	s.pending = ""
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// applyLocked makes text current, recomputes validity and records it.
func (s *Session) applyLocked(text string, format bool) Snapshot {
	v, perr := jsonvalue.Parse(text)
	s.valid = perr == nil
	if s.valid && format {
		text = v.Indent(s.opts.Indent)
	}
	s.text = text

	var err error
	if s.valid {
		err = s.recordLocked(text)
	}
	snap := s.snapshotLocked()
	snap.History = s.log.Clone()
	snap.Err = err
	return snap
}

func (s *Session) recordLocked(text string) error {
	next, added, err := s.store.Record(text, s.log)
	if err != nil {
		s.opts.Logger.Error("history not saved", "err", err)
		return fmt.Errorf("%w: %w", ErrHistoryNotSaved, err)
	}
	s.log = next
	if added {
		s.opts.Logger.Debug("history entry added", "entries", len(next))
	}
	return nil
}

func (s *Session) notify(snap Snapshot) {
	if s.opts.OnChange != nil {
		s.opts.OnChange(snap)
	}
}

// SetText replaces the whole text without debouncing and drops any pending
// edit. The returned error only reports a failed history write
// (ErrHistoryNotSaved); the text is applied either way.
func (s *Session) SetText(text string) error {
	s.mu.Lock()
	s.disarmLocked()
	snap := s.applyLocked(text, false)
	s.mu.Unlock()

	s.notify(snap)
	return snap.Err
}

// Format pretty-prints the current text. Like every explicit action it works
// on a pending edit when there is one, and applies it.
func (s *Session) Format() (string, error) {
	return s.rewrite(func(v jsonvalue.Value) string { return v.Indent(s.opts.Indent) })
}

// Minify strips insignificant whitespace from the current text.
func (s *Session) Minify() (string, error) {
	return s.rewrite(jsonvalue.Value.Compact)
}

func (s *Session) rewrite(fn func(jsonvalue.Value) string) (string, error) {
	s.mu.Lock()
	v, err := jsonvalue.Parse(s.baseLocked())
	if err != nil {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	s.disarmLocked()
	snap := s.applyLocked(fn(v), false)
	s.mu.Unlock()

	s.notify(snap)
	return snap.Text, snap.Err
}

// Sanitize applies a text sanitizer to the current text. Sanitizers accept
// any text, valid JSON or not.
func (s *Session) Sanitize(kind sanitize.Kind) (string, error) {
	s.mu.Lock()
	text := sanitize.Apply(kind, s.baseLocked())
	s.disarmLocked()
	snap := s.applyLocked(text, false)
	s.mu.Unlock()

	s.notify(snap)
	return snap.Text, snap.Err
}

// Convert renders the current text in another format. The result becomes the
// session output; on invalid input the previous output is kept.
func (s *Session) Convert(f convert.Format) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := jsonvalue.Parse(s.baseLocked())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	s.output = convert.Convert(v, f)
	return s.output, nil
}

// Restore makes the content of a history entry the current text.
func (s *Session) Restore(id int64) error {
	s.mu.Lock()
	e, ok := s.log.Find(id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEntry, id)
	}
	return s.SetText(e.Content)
}

// ClearHistory empties the log. On failure the log is left as it was.
func (s *Session) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared, err := s.store.Clear()
	if err != nil {
		return err
	}
	s.log = cleared
	return nil
}

// SetTheme changes the cosmetic theme tag.
func (s *Session) SetTheme(theme string) {
	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
}

// History returns a copy of the log, newest first.
func (s *Session) History() history.Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Clone()
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshotLocked()
	snap.History = s.log.Clone()
	return snap
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Text:   s.text,
		Valid:  s.valid,
		Theme:  s.theme,
		Output: s.output,
	}
}

// Text returns the current text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Valid reports whether the current text parses as JSON.
func (s *Session) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid
}
