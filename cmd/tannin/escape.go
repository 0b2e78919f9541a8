package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tannin-dev/tannin/pkg/render"
)

func escapeCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "escape [file]",
		Short: "HTML-escape text",
		Long: `Read text from a file or stdin and write it with the six
HTML-reserved characters (< > & " ' /) replaced by entities.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			data, err := readInput(name)
			if err != nil {
				return err
			}

			var b strings.Builder
			if err := render.EscapeHTML(&b, string(data)); err != nil {
				return err
			}
			return writeOutput(outPath, []byte(b.String()))
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write output to this file (atomically) instead of stdout")

	return cmd
}

func unescapeCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "unescape [file]",
		Short: "Decode JSON-style escape sequences",
		Long: `Read text from a file or stdin and decode JSON-style backslash
escapes, including \uXXXX sequences and UTF-16 surrogate pairs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			data, err := readInput(name)
			if err != nil {
				return err
			}

			decoded, err := render.Unescape(string(data))
			if err != nil {
				return err
			}
			return writeOutput(outPath, []byte(decoded))
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write output to this file (atomically) instead of stdout")

	return cmd
}
