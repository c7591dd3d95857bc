package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jsonedit/internal/config"
	"jsonedit/internal/format"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := format.WriteSettings(cmd.OutOrStdout(), a.cfg.Settings(), formatFlag); err != nil {
				return err
			}
			if formatFlag != "json" {
				for _, f := range a.cfg.Files {
					fmt.Fprintf(cmd.ErrOrStderr(), "loaded %s\n", f)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "environment overrides use the %s prefix\n", config.EnvPrefix)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&formatFlag, "format", "table", "output format: table, plain, or json")
	return cmd
}
