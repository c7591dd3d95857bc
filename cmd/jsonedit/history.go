package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"jsonedit/internal/format"
	"jsonedit/internal/history"
	"jsonedit/internal/session"
	"jsonedit/internal/view"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage the edit history",
	}
	cmd.AddCommand(newHistoryListCmd(opts))
	cmd.AddCommand(newHistoryShowCmd(opts))
	cmd.AddCommand(newHistoryRecordCmd(opts))
	cmd.AddCommand(newHistoryRestoreCmd(opts))
	cmd.AddCommand(newHistoryClearCmd(opts))
	return cmd
}

func parseEntryID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid history id %q", arg)
	}
	return id, nil
}

func newHistoryListCmd(opts *rootOptions) *cobra.Command {
	var (
		formatFlag string
		noHeader   bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List history entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			entries := a.store.Load()
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			return format.WriteHistory(cmd.OutOrStdout(), entries, !noHeader, formatFlag)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&formatFlag, "format", "table", "output format: table, plain, json, or jsonl")
	flags.BoolVar(&noHeader, "no-header", false, "omit header row for plain output")
	flags.IntVar(&limit, "limit", 0, "limit number of entries listed (0 means no limit)")
	return cmd
}

func newHistoryShowCmd(opts *rootOptions) *cobra.Command {
	var (
		formatFlag   string
		wrap         int
		maxEntries   int
		forceColor   bool
		forceNoColor bool
	)

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Render one history entry, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if forceColor && forceNoColor {
				return errors.New("--color and --no-color cannot be used together")
			}

			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			entries := []history.Entry(a.store.Load())
			if len(args) == 1 {
				id, err := parseEntryID(args[0])
				if err != nil {
					return err
				}
				e, ok := history.Log(entries).Find(id)
				if !ok {
					return fmt.Errorf("no history entry with id %d", id)
				}
				entries = []history.Entry{e}
			}

			out := cmd.OutOrStdout()
			outFile, _ := out.(*os.File)
			return view.Run(view.Options{
				Entries:      entries,
				Format:       formatFlag,
				Wrap:         wrap,
				MaxEntries:   maxEntries,
				Theme:        a.cfg.Config.Theme,
				ForceColor:   forceColor,
				ForceNoColor: forceNoColor,
				Out:          out,
				OutFile:      outFile,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&formatFlag, "format", "text", "output format: text, card, or raw")
	flags.IntVar(&wrap, "wrap", 0, "wrap content at the given column width")
	flags.IntVar(&maxEntries, "max", 0, "show only the N newest entries (0 means no limit)")
	flags.BoolVar(&forceColor, "color", false, "force-enable ANSI colors even when stdout is not a TTY")
	flags.BoolVar(&forceNoColor, "no-color", false, "disable ANSI colors regardless of terminal detection")
	return cmd
}

func newHistoryRecordCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record [file]",
		Short: "Add valid JSON text to the history without changing it",
		Args:  cobra.MaximumNArgs(1),
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

			if !history.Accepts(text) {
				return errors.New("not recorded: only non-empty JSON objects and arrays are kept")
			}

			sess := a.newSession(nil)
			defer sess.Close()
			before, hadBefore := sess.History().Newest()
			if err := sess.SetText(text); err != nil {
				return err
			}

			after, _ := sess.History().Newest()
			if hadBefore && after.ID == before.ID {
				fmt.Fprintln(cmd.OutOrStdout(), "unchanged: matches the newest entry")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %d\n", after.ID)
			return nil
		},
	}
	return cmd
}

func newHistoryRestoreCmd(opts *rootOptions) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Print the content of a history entry and make it the newest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}

			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			sess := a.newSession(nil)
			defer sess.Close()
			if err := sess.Restore(id); errors.Is(err, session.ErrHistoryNotSaved) {
				a.logger.Warn("restored entry not recorded", "err", err)
			} else if err != nil {
				return err
			}
			return a.emit(cmd, sess.Text(), out)
		},
	}
	out.register(cmd.Flags())
	return cmd
}

func newHistoryClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every history entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			sess := a.newSession(nil)
			defer sess.Close()
			n := len(sess.History())
			if err := sess.ClearHistory(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d entries\n", n)
			return nil
		},
	}
}
