package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsonedit/internal/convert"
	"jsonedit/internal/history"
	"jsonedit/internal/sanitize"
	"jsonedit/internal/storage"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) active() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

// fireAll runs every timer, stopped or not, the way a timer that lost the
// race with Stop would.
func (s *fakeScheduler) fireAll() {
	for _, t := range s.timers {
		t.f()
	}
}

type harness struct {
	session   *Session
	backend   *storage.MemoryBackend
	scheduler *fakeScheduler
	changes   []Snapshot
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{
		backend:   storage.NewMemoryBackend(),
		scheduler: &fakeScheduler{},
	}
	opts.AfterFunc = h.scheduler.AfterFunc
	opts.OnChange = func(s Snapshot) { h.changes = append(h.changes, s) }
	h.session = New(history.New(h.backend, history.Options{}), opts)
	return h
}

func TestChangeDebouncesToLatestText(t *testing.T) {
	h := newHarness(t, Options{})

	h.session.Change(`{"a":`)
	h.session.Change(`{"a":1`)
	h.session.Change(`{"a":1}`)

	active := h.scheduler.active()
	require.Len(t, active, 1, "only one timer is pending at a time")
	assert.Equal(t, DefaultDebounce, active[0].d)
	assert.Empty(t, h.changes)

	h.scheduler.fireAll()

	require.Len(t, h.changes, 1, "stale timers must not fire")
	snap := h.changes[0]
	assert.Equal(t, `{"a":1}`, snap.Text)
	assert.True(t, snap.Valid)
	require.Len(t, snap.History, 1)
	assert.Equal(t, `{"a":1}`, snap.History[0].Content)
}

func TestChangeWithInvalidTextSkipsHistory(t *testing.T) {
	h := newHarness(t, Options{})

	h.session.Change(`{"a":`)
	h.scheduler.fireAll()

	require.Len(t, h.changes, 1)
	assert.False(t, h.changes[0].Valid)
	assert.Equal(t, `{"a":`, h.session.Text())
	assert.Empty(t, h.session.History())
}

func TestChangeAutoFormats(t *testing.T) {
	h := newHarness(t, Options{AutoFormat: true, Indent: "    "})

	h.session.Change(`{"b":1,"a":[true]}`)
	h.scheduler.fireAll()

	want := "{\n    \"b\": 1,\n    \"a\": [\n        true\n    ]\n}"
	assert.Equal(t, want, h.session.Text())
	require.Len(t, h.session.History(), 1)
	assert.Equal(t, want, h.session.History()[0].Content)
}

func TestFlushAndClose(t *testing.T) {
	h := newHarness(t, Options{})
	assert.False(t, h.session.Flush())

	h.session.Change(`[1]`)
	assert.True(t, h.session.Flush())
	assert.Equal(t, `[1]`, h.session.Text())
	assert.Empty(t, h.scheduler.active())

	h.session.Change(`[2]`)
	h.session.Close()
	h.scheduler.fireAll()
	assert.Equal(t, `[1]`, h.session.Text())
	assert.Len(t, h.changes, 1)
}

func TestRealTimerDebounce(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	s := New(history.New(storage.NewMemoryBackend(), history.Options{}), Options{
		Debounce: 20 * time.Millisecond,
		OnChange: func(snap Snapshot) {
			mu.Lock()
			seen = append(seen, snap.Text)
			mu.Unlock()
		},
	})
	defer s.Close()

	s.Change(`[1]`)
	s.Change(`[1,2]`)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{`[1,2]`}, seen)
}

func TestFormatAndMinify(t *testing.T) {
	h := newHarness(t, Options{})
	require.NoError(t, h.session.SetText(`{ "z" : 1 , "a" : [ ] }`))

	out, err := h.session.Format()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"z\": 1,\n  \"a\": []\n}", out)

	out, err = h.session.Minify()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[]}`, out)
	assert.Equal(t, out, h.session.Text())

	log := h.session.History()
	require.Len(t, log, 3)
	assert.Equal(t, `{"z":1,"a":[]}`, log[0].Content)
}

func TestInvalidActionsLeaveStateUnchanged(t *testing.T) {
	h := newHarness(t, Options{})
	require.NoError(t, h.session.SetText(`{"a":1}`))
	_, err := h.session.Convert(convert.YAML)
	require.NoError(t, err)

	require.NoError(t, h.session.SetText(`{"a":`))
	before := h.session.Snapshot()

	_, err = h.session.Format()
	assert.ErrorIs(t, err, ErrInvalidJSON)
	_, err = h.session.Minify()
	assert.ErrorIs(t, err, ErrInvalidJSON)
	_, err = h.session.Convert(convert.XML)
	assert.ErrorIs(t, err, ErrInvalidJSON)

	after := h.session.Snapshot()
	assert.Equal(t, before, after)
	assert.Equal(t, "a: 1\n", after.Output)
}

func TestExplicitActionUsesPendingEdit(t *testing.T) {
	h := newHarness(t, Options{})
	require.NoError(t, h.session.SetText(`{"a":1}`))

	h.session.Change(`{"a":1,"b":2}`)
	out, err := h.session.Format()
	require.NoError(t, err)

	want := "{\n  \"a\": 1,\n  \"b\": 2\n}"
	assert.Equal(t, want, out)
	assert.Equal(t, want, h.session.Text())
	assert.Empty(t, h.scheduler.active(), "the pending edit is consumed")

	h.scheduler.fireAll()
	assert.Len(t, h.changes, 2, "the cancelled timer must not apply the edit again")
	assert.Equal(t, want, h.session.Text())
}

func TestPendingEditReachesEveryAction(t *testing.T) {
	h := newHarness(t, Options{})

	h.session.Change("[1,\n2]")
	out, err := h.session.Convert(convert.YAML)
	require.NoError(t, err)
	assert.Equal(t, "- 1\n- 2\n", out)

	matches, err := h.session.Find("2", false)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].Line)

	out, err = h.session.Sanitize(sanitize.LineBreaks)
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", out)
	assert.False(t, h.session.Flush())
}

func TestInvalidPendingEditStaysPending(t *testing.T) {
	h := newHarness(t, Options{})
	require.NoError(t, h.session.SetText(`[1]`))

	h.session.Change(`[1,`)
	_, err := h.session.Minify()
	assert.ErrorIs(t, err, ErrInvalidJSON)
	assert.Equal(t, `[1]`, h.session.Text())

	assert.True(t, h.session.Flush())
	assert.Equal(t, `[1,`, h.session.Text())
	assert.False(t, h.session.Valid())
}

func TestSanitizeAcceptsInvalidText(t *testing.T) {
	h := newHarness(t, Options{})
	require.NoError(t, h.session.SetText("{\"a\":1 /* note */}\n"))
	require.False(t, h.session.Valid())

	out, err := h.session.Sanitize(sanitize.Comments)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1 }\n", out)
	assert.True(t, h.session.Valid())
	assert.Len(t, h.session.History(), 1)
}

func TestRestoreAndClearHistory(t *testing.T) {
	h := newHarness(t, Options{})
	require.NoError(t, h.session.SetText(`{"v":1}`))
	require.NoError(t, h.session.SetText(`{"v":2}`))

	log := h.session.History()
	require.Len(t, log, 2)
	oldest := log[1]

	require.NoError(t, h.session.Restore(oldest.ID))
	assert.Equal(t, `{"v":1}`, h.session.Text())
	assert.Len(t, h.session.History(), 3)

	assert.ErrorIs(t, h.session.Restore(-1), ErrUnknownEntry)

	require.NoError(t, h.session.ClearHistory())
	assert.Empty(t, h.session.History())
}

func TestHistoryWriteFailureIsReported(t *testing.T) {
	h := newHarness(t, Options{})
	require.NoError(t, h.session.SetText(`{"v":1}`))

	boom := errors.New("read-only")
	h.backend.FailWrites = boom

	err := h.session.SetText(`{"v":2}`)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrHistoryNotSaved)
	assert.Equal(t, `{"v":2}`, h.session.Text(), "text applies even when history fails")
	assert.Len(t, h.session.History(), 1)
	assert.ErrorIs(t, h.changes[len(h.changes)-1].Err, boom)

	assert.ErrorIs(t, h.session.ClearHistory(), boom)
	assert.Len(t, h.session.History(), 1)
}

func TestNewLoadsHistory(t *testing.T) {
	backend := storage.NewMemoryBackend()
	store := history.New(backend, history.Options{})
	_, _, err := store.Record(`[1]`, history.Log{})
	require.NoError(t, err)

	s := New(store, Options{Theme: "dark"})
	assert.Len(t, s.History(), 1)
	assert.Equal(t, "dark", s.Snapshot().Theme)

	s.SetTheme("light")
	assert.Equal(t, "light", s.Snapshot().Theme)
}

func TestFind(t *testing.T) {
	h := newHarness(t, Options{})
	require.NoError(t, h.session.SetText("{\n  \"név\": \"x\",\n  \"x\": 1\n}"))

	matches, err := h.session.Find(`"x"`, false)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, Match{Offset: 12, Line: 2, Column: 10, Text: `"x"`}, matches[0])
	assert.Equal(t, 3, matches[1].Line)
	assert.Equal(t, 3, matches[1].Column)

	matches, err = h.session.Find(`\d+`, true)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "1", matches[0].Text)

	matches, err = h.session.Find("", false)
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = h.session.Find("(", true)
	assert.Error(t, err)
}
