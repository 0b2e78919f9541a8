package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tannin-dev/tannin/pkg/render"
	"github.com/tannin-dev/tannin/pkg/store"
)

func templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage the template store",
		Long: `Manage the SQLite-backed template store. Each template is stored
together with the escape mode its author selected for it.`,
	}

	cmd.AddCommand(
		templatePutCmd(),
		templateGetCmd(),
		templateListCmd(),
		templateRmCmd(),
	)

	return cmd
}

// openStore opens the configured database and builds a Store on it. The
// returned cleanup closes both.
func openStore(config *Config, logger *slog.Logger) (*store.Store, func(), error) {
	db, err := initDB(config.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	s, err := store.New(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	s.SetLogger(logger)

	cleanup := func() {
		s.Close()
		_ = db.Close()
	}
	return s, cleanup, nil
}

func templatePutCmd() *cobra.Command {
	var escapeTag string

	cmd := &cobra.Command{
		Use:   "put <name> [file]",
		Short: "Store a template",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup()
			if err != nil {
				return err
			}

			esc, err := render.ParseAutoEscape(escapeTag)
			if err != nil {
				return err
			}

			var file string
			if len(args) == 2 {
				file = args[1]
			}
			source, err := readInput(file)
			if err != nil {
				return err
			}

			s, cleanup, err := openStore(config, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			return s.Put(cmd.Context(), args[0], string(source), esc)
		},
	}

	cmd.Flags().StringVarP(&escapeTag, "escape", "e", "html", "Escape mode stored with the template: none, html, json, custom:<name>")

	return cmd
}

func templateGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print a stored template's source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup()
			if err != nil {
				return err
			}

			s, cleanup, err := openStore(config, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			tmpl, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(tmpl.Source)
			return nil
		},
	}
}

func templateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup()
			if err != nil {
				return err
			}

			s, cleanup, err := openStore(config, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			infos, err := s.List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tESCAPE\tUPDATED")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, info.Escape, info.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func templateRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a stored template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup()
			if err != nil {
				return err
			}

			s, cleanup, err := openStore(config, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			return s.Remove(cmd.Context(), args[0])
		},
	}
}
