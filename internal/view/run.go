// Package view renders history entries for the terminal.
package view

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"jsonedit/internal/format"
	"jsonedit/internal/history"
)

// Options defines the configurable parameters for rendering a view.
type Options struct {
	Entries      []history.Entry
	Format       string
	Wrap         int
	MaxEntries   int
	Theme        string
	ForceColor   bool
	ForceNoColor bool
	Out          io.Writer
	OutFile      *os.File
}

// Run renders entries according to the provided options. Entries are shown
// in the order given; MaxEntries keeps the first n.
func Run(opts Options) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	entries := opts.Entries
	if opts.MaxEntries > 0 && len(entries) > opts.MaxEntries {
		entries = entries[:opts.MaxEntries]
	}

	formatMode := strings.ToLower(opts.Format)
	if formatMode == "" {
		formatMode = "text"
	}

	switch formatMode {
	case "text":
		p := resolvePalette(opts)
		for idx, e := range entries {
			if idx > 0 {
				fmt.Fprintln(opts.Out)
			}
			printEntry(opts.Out, e, idx+1, opts.Wrap, p)
		}
		return nil

	case "raw":
		for _, e := range entries {
			if _, err := fmt.Fprintln(opts.Out, e.Content); err != nil {
				return err
			}
		}
		return nil

	case "card":
		p := resolvePalette(opts)
		width := determineWidth(opts.OutFile, opts.Wrap)
		lines := renderCards(entries, width, p)
		if opts.OutFile != nil && isatty.IsTerminal(opts.OutFile.Fd()) {
			return pipeThroughPager(lines, p.enabled)
		}
		return writeLines(opts.Out, lines)

	default:
		return fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

func determineWidth(out *os.File, wrap int) int {
	if wrap > 0 {
		return wrap
	}
	if out != nil {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if colsStr := os.Getenv("COLUMNS"); colsStr != "" {
		if v, err := strconv.Atoi(colsStr); err == nil && v > 0 {
			return v
		}
	}
	return 80
}

func pipeThroughPager(lines []string, colorEnabled bool) error {
	text := strings.Join(lines, "\n")
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	pagerCmd := os.Getenv("PAGER")
	var cmd *exec.Cmd
	if pagerCmd == "" {
		args := []string{"less"}
		if colorEnabled {
			args = append(args, "-R")
		}
		cmd = exec.Command(args[0], args[1:]...) // #nosec G204
	} else {
		cmd = exec.Command("sh", "-c", pagerCmd) // #nosec G204
	}

	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create pager pipe: %w", err)
	}
	go func() {
		defer stdin.Close()
		io.WriteString(stdin, text) //nolint:errcheck
	}()

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run pager: %w", err)
	}

	return nil
}

func writeLines(out io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func printEntry(out io.Writer, e history.Entry, index int, wrap int, p palette) {
	ts := e.Timestamp
	if ts == "" {
		ts = "-"
	}
	idText := strconv.FormatInt(e.ID, 10)
	headerPlain := fmt.Sprintf("[#%03d] %s | %s", index, idText, ts)

	indexText := p.paint(p.index, fmt.Sprintf("#%03d", index))
	separator := p.paint(p.separator, "|")
	header := fmt.Sprintf("[%s] %s %s %s", indexText, p.paint(p.id, idText), separator, p.paint(p.timestamp, ts))
	fmt.Fprintln(out, header)
	fmt.Fprintln(out, strings.Repeat("-", len(headerPlain)))

	lines := format.RenderEntryLines(e, wrap)
	if len(lines) == 0 {
		fmt.Fprintf(out, "%s %s\n", separator, "(no content)")
		return
	}
	for _, line := range lines {
		if line == "" {
			fmt.Fprintln(out, separator)
			continue
		}
		fmt.Fprintf(out, "%s %s\n", separator, line)
	}
}

const ansiReset = "\x1b[0m"

// palette holds the ANSI codes for one theme. A disabled palette paints
// nothing.
type palette struct {
	enabled   bool
	index     string
	id        string
	timestamp string
	separator string
}

var palettes = map[string]palette{
	"light": {index: "\x1b[1;30m", id: "\x1b[38;5;25m", timestamp: "\x1b[38;5;242m", separator: "\x1b[38;5;248m"},
	"dark":  {index: "\x1b[1;97m", id: "\x1b[38;5;44m", timestamp: "\x1b[38;5;245m", separator: "\x1b[38;5;240m"},
}

func (p palette) paint(code, text string) string {
	if !p.enabled || code == "" {
		return text
	}
	return code + text + ansiReset
}

func resolvePalette(opts Options) palette {
	p, ok := palettes[strings.ToLower(opts.Theme)]
	if !ok {
		p = palettes["light"]
	}
	p.enabled = resolveColorChoice(opts)
	return p
}

func resolveColorChoice(opts Options) bool {
	if opts.ForceColor {
		return true
	}
	if opts.ForceNoColor {
		return false
	}
	return shouldUseColorAuto(opts.Out)
}

func shouldUseColorAuto(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
