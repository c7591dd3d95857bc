package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jsonedit/internal/convert"
	"jsonedit/internal/sanitize"
	"jsonedit/internal/session"
	"jsonedit/internal/validate"
)

func newFormatCmd(opts *rootOptions) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Pretty-print JSON, keeping key order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, args, opts, out, (*session.Session).Format)
		},
	}
	out.register(cmd.Flags())
	return cmd
}

func newMinifyCmd(opts *rootOptions) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "minify [file]",
		Short: "Remove insignificant whitespace from JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, args, opts, out, (*session.Session).Minify)
		},
	}
	out.register(cmd.Flags())
	return cmd
}

func newEscapeCmd(opts *rootOptions) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "escape [file]",
		Short: "Escape text for use inside a JSON string literal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, args, opts, out, func(s *session.Session) (string, error) {
				return s.Sanitize(sanitize.Quote)
			})
		},
	}
	out.register(cmd.Flags())
	return cmd
}

func newStripCmd(opts *rootOptions) *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:       "strip comments|newlines|escapes [file]",
		Short:     "Remove comments, line breaks or backslash escapes",
		Long:      "Remove comments, line breaks or backslash escapes. The text does not need to be valid JSON and string contents are not protected.",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{string(sanitize.Comments), string(sanitize.LineBreaks), string(sanitize.Escapes)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := sanitize.ParseKind(args[0])
			if err != nil {
				return err
			}
			return runAction(cmd, args[1:], opts, out, func(s *session.Session) (string, error) {
				return s.Sanitize(kind)
			})
		},
	}
	out.register(cmd.Flags())
	return cmd
}

func newConvertCmd(opts *rootOptions) *cobra.Command {
	var (
		out outputOptions
		to  string
	)

	names := make([]string, 0, len(convert.Formats()))
	for _, f := range convert.Formats() {
		names = append(names, string(f))
	}

	cmd := &cobra.Command{
		Use:   "convert --to xml|yaml|ts [file]",
		Short: "Convert JSON to XML, YAML or TypeScript interfaces",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := convert.ParseFormat(to)
			if err != nil {
				return err
			}
			out.ext = f.Extension()
			return runAction(cmd, args, opts, out, func(s *session.Session) (string, error) {
				return s.Convert(f)
			})
		},
	}
	out.register(cmd.Flags())
	cmd.Flags().StringVarP(&to, "to", "t", string(convert.YAML), "target format: "+strings.Join(names, ", "))
	cmd.Flags().Lookup("save").Usage = "also save the result in the downloads directory, named for the target format"
	return cmd
}

func newValidateCmd() *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check JSON syntax and, optionally, a JSON Schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			res := validate.Check(text)
			if !res.Valid {
				return fmt.Errorf("invalid JSON: %s", res)
			}
			if schemaPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), res)
				return nil
			}

			violations, err := validate.AgainstSchema(text, schemaPath)
			if err != nil {
				return err
			}
			for _, v := range violations {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			if len(violations) > 0 {
				return fmt.Errorf("%d schema violation(s)", len(violations))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid JSON, conforms to schema")
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "JSON Schema file to validate against")
	return cmd
}

func newFindCmd(opts *rootOptions) *cobra.Command {
	var regex bool

	cmd := &cobra.Command{
		Use:   "find <query> [file]",
		Short: "List occurrences of text or a regular expression",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			text, err := readInput(cmd, args[1:])
			if err != nil {
				return err
			}
			sess := a.newSession(nil)
			defer sess.Close()
			_ = sess.SetText(text)

			matches, err := sess.Find(args[0], regex)
			if err != nil {
				return err
			}
			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%d:%d: %s\n", m.Line, m.Column, m.Text)
			}
			if len(matches) == 0 {
				return fmt.Errorf("no match for %q", args[0])
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&regex, "regex", "E", false, "treat the query as a regular expression")
	return cmd
}
