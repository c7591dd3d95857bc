package view

import (
	"bytes"
	"strings"
	"testing"

	"jsonedit/internal/history"
)

func sampleEntries() []history.Entry {
	return []history.Entry{
		{ID: 1741944413589, Timestamp: "2025-03-14T09:26:53.589Z", Content: `{"name":"alpha","tags":["x"]}`},
		{ID: 1741944400000, Timestamp: "2025-03-14T09:26:40.000Z", Content: `[1,2]`},
	}
}

func TestRunFormatRaw(t *testing.T) {
	var buf bytes.Buffer
	if err := Run(Options{Entries: sampleEntries(), Format: "raw", Out: &buf}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	want := "{\"name\":\"alpha\",\"tags\":[\"x\"]}\n[1,2]\n"
	if buf.String() != want {
		t.Fatalf("raw output mismatch\nwant:\n%q\n\ngot:\n%q", want, buf.String())
	}
}

func TestRunFormatText(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Entries: sampleEntries(), Out: &buf, ForceNoColor: true, MaxEntries: 1}
	if err := Run(opts); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "[#001] 1741944413589 | 2025-03-14T09:26:53.589Z" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if strings.Trim(lines[1], "-") != "" || len(lines[1]) != len(lines[0]) {
		t.Fatalf("underline should match header width: %q", lines[1])
	}
	if lines[2] != "| {" || lines[3] != `|   "name": "alpha",` {
		t.Fatalf("body should be pretty JSON with a gutter: %q", lines[2:])
	}
	if strings.Contains(buf.String(), "1741944400000") {
		t.Fatalf("MaxEntries should keep only the newest entry:\n%s", buf.String())
	}
}

func TestRunFormatTextColor(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Entries: sampleEntries()[:1], Out: &buf, ForceColor: true, Theme: "dark"}
	if err := Run(opts); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[1;97m#001"+ansiReset) {
		t.Fatalf("expected dark palette index color:\n%q", buf.String())
	}
}

func TestRunFormatCard(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Entries: sampleEntries(), Format: "card", Wrap: 60, Out: &buf}
	if err := Run(opts); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if !strings.HasPrefix(lines[0], "  ╭") {
		t.Fatalf("card should start with a rounded corner: %q", lines[0])
	}
	for _, line := range lines {
		if w := visibleWidth(line); w > 60 {
			t.Fatalf("line exceeds width 60 (%d): %q", w, line)
		}
	}
	if !strings.Contains(buf.String(), "1741944413589 · 2025-03-14T09:26:53.589Z") {
		t.Fatalf("card header missing:\n%s", buf.String())
	}
}

func TestRunUnsupportedFormat(t *testing.T) {
	if err := Run(Options{Format: "html", Out: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("界界界ab", 4)
	want := []string{"界界", "界ab"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("wrapText: got %q, want %q", got, want)
	}
}

func TestTruncateToWidthKeepsColor(t *testing.T) {
	in := "\x1b[31mabcdef" + ansiReset
	got := truncateToWidth(in, 3)
	if visibleWidth(got) != 3 || !strings.HasPrefix(got, "\x1b[31m") {
		t.Fatalf("truncateToWidth: got %q", got)
	}
}
