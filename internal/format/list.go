// Package format provides formatting and rendering functions for history
// and configuration data.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"

	"jsonedit/internal/history"
)

// previewWidth bounds the preview column of the history table in cells.
const previewWidth = 48

// WriteHistory writes history entries to w in the requested format.
func WriteHistory(w io.Writer, entries []history.Entry, includeHeader bool, format string) error {
	format = strings.ToLower(format)
	switch format {
	case "", "table":
		return writeHistoryTable(w, entries, includeHeader)
	case "plain":
		return writeHistoryPlain(w, entries, includeHeader)
	case "json":
		return writeJSON(w, entries)
	case "jsonl":
		return writeHistoryJSONL(w, entries)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeHistoryPlain(w io.Writer, entries []history.Entry, includeHeader bool) error {
	if includeHeader {
		if _, err := fmt.Fprintln(w, "id\ttimestamp\tsize\tpreview"); err != nil {
			return err
		}
	}

	for _, e := range entries {
		line := fmt.Sprintf(
			"%d\t%s\t%d\t%s",
			e.ID,
			e.Timestamp,
			len(e.Content),
			escapeNewlines(e.Preview),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeHistoryJSONL(w io.Writer, entries []history.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

func escapeNewlines(text string) string {
	return strings.ReplaceAll(text, "\n", "\\n")
}

// clip shortens s to at most width terminal cells.
func clip(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = true
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true
	return tw
}

func writeHistoryTable(w io.Writer, entries []history.Entry, includeHeader bool) error {
	tw := newTable(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
	})

	if includeHeader {
		tw.AppendHeader(table.Row{"ID", "Timestamp", "Size", "Preview"})
	}

	for _, e := range entries {
		tw.AppendRow(table.Row{
			e.ID,
			e.Timestamp,
			len(e.Content),
			clip(escapeNewlines(e.Preview), previewWidth),
		})
	}

	if len(entries) == 0 {
		tw.AppendRow(table.Row{"-", "-", 0, "(no history)"})
	}

	_ = tw.Render()
	return nil
}
