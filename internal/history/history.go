// Package history keeps a bounded, newest-first log of accepted editor
// contents and persists it through a storage backend.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"jsonedit/internal/jsonvalue"
	"jsonedit/internal/logging"
	"jsonedit/internal/storage"
)

const (
	// DefaultKey is the storage key the log is persisted under.
	DefaultKey = "history.json"
	// DefaultLimit is the maximum number of entries kept.
	DefaultLimit = 100

	timestampLayout = "2006-01-02T15:04:05.000Z"
	previewMaxRunes = 30
)

// Entry is one snapshot of editor content. Entries are never modified after
// creation.
type Entry struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
	Preview   string `json:"preview"`
}

// Time parses the entry timestamp. The zero time is returned when it is
// malformed.
func (e Entry) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Log is an ordered list of entries, newest first.
type Log []Entry

// Newest returns the most recent entry.
func (l Log) Newest() (Entry, bool) {
	if len(l) == 0 {
		return Entry{}, false
	}
	return l[0], true
}

// Find returns the entry with the given id.
func (l Log) Find(id int64) (Entry, bool) {
	for _, e := range l {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Clone returns a copy that shares no backing array with l.
func (l Log) Clone() Log {
	out := make(Log, len(l))
	copy(out, l)
	return out
}

// Options configures a Store.
type Options struct {
	Key    string
	Limit  int
	Now    func() time.Time
	Logger *log.Logger
}

// Store reads and writes the history log through a backend.
type Store struct {
	backend storage.Backend
	key     string
	limit   int
	now     func() time.Time
	logger  *log.Logger
}

// New returns a Store persisting to backend. Zero-valued options fall back to
// DefaultKey, DefaultLimit, time.Now and a discarding logger.
func New(backend storage.Backend, opts Options) *Store {
	s := &Store{
		backend: backend,
		key:     opts.Key,
		limit:   opts.Limit,
		now:     opts.Now,
		logger:  opts.Logger,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.limit <= 0 {
		s.limit = DefaultLimit
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	return s
}

// Limit returns the capacity of the log.
func (s *Store) Limit() int { return s.limit }

// Load returns the persisted log. Missing, unreadable or malformed data
// yields an empty log; the cause is only logged.
func (s *Store) Load() Log {
	data, err := s.backend.Read(s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("history unreadable, starting empty", "key", s.key, "err", err)
		}
		return Log{}
	}

	var entries Log
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		s.logger.Warn("history malformed, starting empty", "key", s.key, "err", err)
		return Log{}
	}
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	return entries
}

// Accepts reports whether content is eligible for recording: valid JSON
// whose top level is a non-empty object or array.
func Accepts(content string) bool {
	v, err := jsonvalue.Parse(content)
	return err == nil && v.IsNonEmptyContainer()
}

// Record prepends content to current and persists the result. It reports
// false without writing when content is not eligible or equals the newest
// entry. When the write fails current is returned unchanged together with the
// error, so the caller's log never runs ahead of what is stored.
func (s *Store) Record(content string, current Log) (Log, bool, error) {
	if !Accepts(content) {
		return current, false, nil
	}
	if newest, ok := current.Newest(); ok && newest.Content == content {
		return current, false, nil
	}

	now := s.now()
	id := now.UnixMilli()
	if newest, ok := current.Newest(); ok && id <= newest.ID {
		id = newest.ID + 1
	}

	entry := Entry{
		ID:        id,
		Timestamp: now.UTC().Format(timestampLayout),
		Content:   content,
		Preview:   Preview(content),
	}

	size := len(current) + 1
	if size > s.limit {
		size = s.limit
	}
	next := make(Log, 0, size)
	next = append(next, entry)
	next = append(next, current[:size-1]...)

	if err := s.write(next); err != nil {
		return current, false, err
	}
	s.logger.Debug("history recorded", "id", entry.ID, "entries", len(next))
	return next, true, nil
}

// Clear persists an empty log.
func (s *Store) Clear() (Log, error) {
	if err := s.write(Log{}); err != nil {
		return nil, err
	}
	return Log{}, nil
}

func (s *Store) write(entries Log) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.backend.Write(s.key, data); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

// Preview summarises content by its first key/value pair, for example
// `name: "abc"`. Serialized values longer than 30 characters are cut and
// suffixed with "...". Arrays use element indexes as keys.
func Preview(content string) string {
	v, err := jsonvalue.Parse(content)
	if err != nil {
		return "Invalid JSON"
	}

	var (
		key   string
		first jsonvalue.Value
	)
	switch {
	case v.Kind == jsonvalue.Object && len(v.Members) > 0:
		key, first = v.Members[0].Key, v.Members[0].Value
	case v.Kind == jsonvalue.Array && len(v.Items) > 0:
		key, first = strconv.Itoa(0), v.Items[0]
	default:
		return "Empty JSON"
	}

	serialized := []rune(first.Compact())
	if len(serialized) > previewMaxRunes {
		return key + ": " + string(serialized[:previewMaxRunes]) + "..."
	}
	return key + ": " + string(serialized)
}
