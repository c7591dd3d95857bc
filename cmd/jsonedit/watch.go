package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jsonedit/internal/session"
	"jsonedit/internal/watch"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Follow edits to a file, recording valid versions and reformatting them when auto-format is on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var w *watch.Watcher
			sess := a.newSession(func(snap session.Snapshot) {
				if w != nil {
					w.HandleChange(snap)
				}
				if snap.Err != nil {
					return
				}
				if snap.Valid {
					a.logger.Info("valid", "bytes", len(snap.Text), "history", len(snap.History))
				} else {
					a.logger.Warn("invalid JSON", "bytes", len(snap.Text))
				}
			})
			defer sess.Close()
			// Loaded before the watcher exists so the initial text is never
			// written back.
			_ = sess.SetText(text)

			w, err = watch.New(watch.Config{Path: args[0], Logger: a.logger}, sess)
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			a.logger.Info("watching", "path", args[0], "debounce_ms", a.cfg.Config.DebounceMS)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			sess.Flush()
			return w.Stop()
		},
	}
}
