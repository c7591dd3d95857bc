package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jsonedit/internal/export"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save text or a data-URL image to the downloads directory",
	}
	cmd.AddCommand(newExportTextCmd(opts))
	cmd.AddCommand(newExportImageCmd(opts))
	return cmd
}

func newExportTextCmd(opts *rootOptions) *cobra.Command {
	var copyText bool

	cmd := &cobra.Command{
		Use:   "text [file]",
		Short: "Save text as <timestamp>.txt",
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
			path, err := a.downloads().WriteText(text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)

			if copyText {
				return a.clipboard(cmd.Context()).WriteText(text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyText, "copy", false, "also copy the text to the clipboard")
	return cmd
}

func newExportImageCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "image [file]",
		Short: "Decode a data:image/...;base64 URL and save it as <timestamp>.<ext>",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			dataURL, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			path, err := a.downloads().WriteImage(strings.TrimSpace(dataURL))
			if errors.Is(err, export.ErrNotImageDataURL) {
				return fmt.Errorf("%w: expected data:image/<type>;base64,<payload>", err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
