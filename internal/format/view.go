package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"jsonedit/internal/history"
)

// RenderEntryLines returns the body lines for a history entry. JSON content
// is pretty-printed; anything else is word-wrapped.
func RenderEntryLines(entry history.Entry, wrapWidth int) []string {
	body := formatJSON(entry.Content)
	if body == entry.Content {
		body = wrapBody(strings.TrimSpace(entry.Content), wrapWidth)
	}
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n")
}

// RenderEntry converts an entry into a printable string with a one-line header.
func RenderEntry(entry history.Entry, wrapWidth int) string {
	return fmt.Sprintf("[%s][%d]\n%s", entry.Timestamp, entry.ID, strings.Join(RenderEntryLines(entry, wrapWidth), "\n"))
}

func wrapBody(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)

	return strings.Join(lines, "\n")
}

// formatJSON indents raw, keeping key order. Invalid JSON is returned as is.
func formatJSON(raw string) string {
	if raw == "" {
		return raw
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err == nil {
		return buf.String()
	}
	return raw
}
