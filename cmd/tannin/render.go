package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tannin-dev/tannin/pkg/render"
	"github.com/tannin-dev/tannin/pkg/store"
)

func renderCmd() *cobra.Command {
	var (
		storedName string
		valuesPath string
		escapeTag  string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Interpolate a template with escaped output",
		Long: `Render a template from a file, stdin, or the template store
(--name), substituting {{ ... }} variable blocks with values from a
JSON file (--values) and escaping each substitution for the selected
output context.

The escape mode is taken from --escape when given, otherwise from the
stored template's configured mode, otherwise from the configuration
default. Stored templates remember the mode their author selected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup()
			if err != nil {
				return err
			}

			if storedName != "" && len(args) > 0 {
				return fmt.Errorf("pass either a template file or --name, not both")
			}

			source, esc, err := loadSource(cmd, config, logger, storedName, args)
			if err != nil {
				return err
			}
			if escapeTag != "" {
				if esc, err = render.ParseAutoEscape(escapeTag); err != nil {
					return err
				}
			}

			vars := map[string]render.Value{}
			if valuesPath != "" {
				data, err := readInput(valuesPath)
				if err != nil {
					return err
				}
				var raw map[string]any
				if err := json.Unmarshal(data, &raw); err != nil {
					return fmt.Errorf("failed to parse values file: %w", err)
				}
				for k, v := range raw {
					vars[k] = render.FromAny(v)
				}
			}

			var buf bytes.Buffer
			if err := render.Interpolate(&buf, source, vars, esc); err != nil {
				return err
			}
			logger.Debug("Template rendered",
				slog.String("escape", esc.String()),
				slog.Int("bytes", buf.Len()),
			)
			return writeOutput(outPath, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&storedName, "name", "n", "", "Render a template from the store instead of a file")
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON file with template variables")
	cmd.Flags().StringVarP(&escapeTag, "escape", "e", "", "Escape mode: none, html, json (overrides template and config)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write output to this file (atomically) instead of stdout")

	return cmd
}

// loadSource resolves the template source and its escape mode, either from
// the store or from a file/stdin with the configured default mode.
func loadSource(cmd *cobra.Command, config *Config, logger *slog.Logger, storedName string, args []string) (string, render.AutoEscape, error) {
	defaultEsc, err := render.ParseAutoEscape(config.DefaultEscape)
	if err != nil {
		return "", render.AutoEscape{}, fmt.Errorf("invalid default_escape in config: %w", err)
	}

	if storedName == "" {
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		data, err := readInput(name)
		if err != nil {
			return "", render.AutoEscape{}, err
		}
		return string(data), defaultEsc, nil
	}

	db, err := initDB(config.DatabasePath)
	if err != nil {
		return "", render.AutoEscape{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := store.SetupSchema(db); err != nil {
		return "", render.AutoEscape{}, err
	}
	s, err := store.New(db)
	if err != nil {
		return "", render.AutoEscape{}, err
	}
	defer s.Close()
	s.SetLogger(logger)

	tmpl, err := s.Get(cmd.Context(), storedName)
	if err != nil {
		return "", render.AutoEscape{}, err
	}
	return tmpl.Source, tmpl.Escape, nil
}
