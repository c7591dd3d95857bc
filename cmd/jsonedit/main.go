// Package main provides the jsonedit CLI: formatting, conversion and
// cleanup of JSON text with a local edit history.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"jsonedit/internal/config"
	"jsonedit/internal/export"
	"jsonedit/internal/history"
	"jsonedit/internal/logging"
	"jsonedit/internal/session"
	"jsonedit/internal/storage"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jsonedit: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	noHistory  bool

	// Flags named after config keys (with dashes) override the config.
	store      string
	dataDir    string
	indent     string
	theme      string
	logLevel   string
	logFormat  string
	autoFormat bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "jsonedit",
		Short:         "Format, convert and clean up JSON text, with a local edit history",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "read configuration from this file only")
	flags.BoolVar(&opts.noHistory, "no-history", false, "do not read or write the edit history")
	flags.StringVar(&opts.store, "store", "", "history store: "+strings.Join(storage.Kinds(), ", "))
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory holding the history store")
	flags.StringVar(&opts.indent, "indent", "", "indent unit: a number of spaces, \"tab\", or a literal string")
	flags.StringVar(&opts.theme, "theme", "", "color theme for rendered output: light or dark")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text, json, logfmt")
	flags.BoolVar(&opts.autoFormat, "auto-format", false, "pretty-print valid text after each edit")

	cmd.AddCommand(newFormatCmd(opts))
	cmd.AddCommand(newMinifyCmd(opts))
	cmd.AddCommand(newEscapeCmd(opts))
	cmd.AddCommand(newStripCmd(opts))
	cmd.AddCommand(newConvertCmd(opts))
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newFindCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newWatchCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}

// app is the per-invocation wiring of configuration, logging and storage.
type app struct {
	cfg     *config.WithSources
	logger  *log.Logger
	backend storage.Backend
	store   *history.Store
	stderr  io.Writer
}

func loadApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	flagValues := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		for _, k := range config.Keys() {
			if k == key {
				flagValues[key] = f.Value.String()
			}
		}
	})

	cfg, err := config.Load(config.LoadOptions{File: opts.configFile, Flags: flagValues})
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		stderr: cmd.ErrOrStderr(),
		logger: logging.New(cmd.ErrOrStderr(), logging.Options{
			Level:      cfg.Config.LogLevel,
			Format:     cfg.Config.LogFormat,
			Timestamps: cfg.Config.LogTimestamps,
		}),
	}

	kind := storage.Kind(cfg.Config.Store)
	if opts.noHistory {
		kind = storage.KindMemory
	}
	a.backend, err = storage.Open(kind, storage.Options{Dir: cfg.Config.DataDir})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", kind, err)
	}
	a.logger.Debug("store opened", "kind", kind, "dir", cfg.Config.DataDir)

	a.store = history.New(a.backend, history.Options{
		Key:    cfg.Config.HistoryKey,
		Limit:  cfg.Config.HistoryLimit,
		Logger: a.logger,
	})
	return a, nil
}

func (a *app) Close() {
	if a.backend == nil {
		return
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("closing store", "err", err)
	}
}

func (a *app) newSession(onChange func(session.Snapshot)) *session.Session {
	c := a.cfg.Config
	return session.New(a.store, session.Options{
		Debounce:   time.Duration(c.DebounceMS) * time.Millisecond,
		AutoFormat: c.AutoFormat,
		Indent:     c.IndentText(),
		Theme:      c.Theme,
		OnChange:   onChange,
		Logger:     a.logger,
	})
}

func (a *app) clipboard(ctx context.Context) export.Clipboard {
	return export.NewSystemClipboard(ctx, a.cfg.Config.ClipboardCmd)
}

func (a *app) downloads() export.Downloads {
	return export.Downloads{Dir: a.cfg.Config.DownloadsDir}
}

// readInput returns the content of the file named by args[0], or stdin when
// there is no argument or it is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// outputOptions are the flags that send a command's result somewhere other
// than stdout.
type outputOptions struct {
	copy   bool
	save   bool
	output string

	// ext names the --save file type; empty means txt.
	ext string
}

func (o *outputOptions) register(flags *pflag.FlagSet) {
	flags.BoolVar(&o.copy, "copy", false, "also copy the result to the clipboard")
	flags.BoolVar(&o.save, "save", false, "also save the result as a .txt file in the downloads directory")
	flags.StringVarP(&o.output, "output", "o", "", "write the result to this file instead of stdout")
}

func (a *app) emit(cmd *cobra.Command, text string, o outputOptions) error {
	if o.output != "" {
		if err := storage.AtomicWriteFile(o.output, []byte(text), 0o644); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		if _, err := io.WriteString(out, text); err != nil {
			return err
		}
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(out)
		}
	}

	if o.copy {
		if err := a.clipboard(cmd.Context()).WriteText(text); err != nil {
			return err
		}
		a.logger.Info("copied to clipboard", "bytes", len(text))
	}
	if o.save {
		path, err := a.downloads().WriteTextAs(text, o.ext)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stderr, "saved %s\n", path)
	}
	return nil
}

// runAction loads input into a session, applies action and emits its result.
// A history store that cannot be written only costs a warning.
func runAction(cmd *cobra.Command, args []string, opts *rootOptions, out outputOptions, action func(*session.Session) (string, error)) error {
	a, err := loadApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	sess := a.newSession(nil)
	defer sess.Close()
	if err := sess.SetText(text); err != nil {
		a.logger.Warn("input not recorded", "err", err)
	}

	result, err := action(sess)
	switch {
	case errors.Is(err, session.ErrHistoryNotSaved):
		a.logger.Warn("result not recorded", "err", err)
	case errors.Is(err, session.ErrInvalidJSON) && len(args) > 0:
		return fmt.Errorf("%s: %w", filepath.Base(args[0]), err)
	case err != nil:
		return err
	}
	return a.emit(cmd, result, out)
}
