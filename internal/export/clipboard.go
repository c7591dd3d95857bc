// Package export sends editor output outside the process: to the system
// clipboard or to files in a downloads directory.
package export

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no clipboard utility is installed.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Clipboard accepts text for the user to paste elsewhere.
type Clipboard interface {
	WriteText(text string) error
}

// SystemClipboard writes to the desktop clipboard. When Command is set it is
// run through the shell with the text on stdin instead.
type SystemClipboard struct {
	Command string
	ctx     context.Context
}

// NewSystemClipboard returns a clipboard that honours an override command.
func NewSystemClipboard(ctx context.Context, command string) *SystemClipboard {
	return &SystemClipboard{Command: command, ctx: ctx}
}

func (c *SystemClipboard) WriteText(text string) error {
	if c.Command != "" {
		return c.runCommand(text)
	}
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

func (c *SystemClipboard) runCommand(text string) error {
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/c", c.Command)
	} else {
		cmd = exec.CommandContext(ctx, "/bin/sh", "-c", c.Command)
	}
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("clipboard command %q: %w: %s", c.Command, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// MemoryClipboard keeps the last written text. It is used when no system
// clipboard should be touched.
type MemoryClipboard struct {
	Text string
}

func (c *MemoryClipboard) WriteText(text string) error {
	c.Text = text
	return nil
}
