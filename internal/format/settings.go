package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"jsonedit/internal/config"
)

// WriteSettings writes resolved configuration keys with their sources.
func WriteSettings(w io.Writer, settings []config.Setting, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		tw := newTable(w)
		tw.Style().Options.SeparateRows = false
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
			{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 60},
			{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		})
		tw.AppendHeader(table.Row{"Key", "Value", "Source"})
		for _, s := range settings {
			tw.AppendRow(table.Row{s.Key, fmt.Sprintf("%q", s.Value), string(s.Source)})
		}
		_ = tw.Render()
		return nil
	case "plain":
		for _, s := range settings {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", s.Key, s.Value, s.Source); err != nil {
				return err
			}
		}
		return nil
	case "json":
		out := make(map[string]string, len(settings))
		for _, s := range settings {
			out[s.Key] = s.Value
		}
		return writeJSON(w, out)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
