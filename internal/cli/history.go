package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jwulff/folio/internal/audit"
	"github.com/jwulff/folio/internal/db"
	"github.com/jwulff/folio/internal/ui"
	"github.com/spf13/cobra"
)

// withStore runs fn against the history store named by opts.
func withStore(opts *rootOptions, fn func(*db.Store) error) error {
	e, err := opts.setup()
	if err != nil {
		return err
	}
	defer e.close()
	store, err := e.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"ls"},
		Short:   "List saved audits, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *db.Store) error {
				out := cmd.OutOrStdout()
				corrupt, err := s.CorruptPayload()
				if err != nil {
					return err
				}
				if corrupt != nil {
					fmt.Fprintf(cmd.ErrOrStderr(),
						"warning: an unreadable history was set aside on %s; run 'folio history recover' to save it\n",
						corrupt.UpdatedAt.Local().Format(time.DateTime))
				}

				audits := s.Audits()
				if len(audits) == 0 {
					fmt.Fprintln(out, "No saved audits.")
					return nil
				}
				saved, err := s.LastSaved()
				if err != nil {
					return err
				}
				if !saved.IsZero() {
					fmt.Fprintf(out, "%d audit(s), last saved %s\n\n", len(audits), saved.Local().Format(time.DateTime))
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tFILE\tPROGRAM\tDATE\tSCORE\tVERDICT")
				for _, a := range audits {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\t%s\n",
						a.ID, a.FileName, a.Program, a.Date, a.Report.OverallScore, a.Report.Verdict())
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print one saved audit as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *db.Store) error {
				rec, ok := s.Get(args[0])
				if !ok {
					return audit.ErrValidation.WithMessagef("no audit with id %s", args[0])
				}
				fmt.Fprint(cmd.OutOrStdout(), ui.FullReportMarkdown(rec))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a saved audit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *db.Store) error {
				before := len(s.Audits())
				remaining, err := s.Remove(args[0])
				if err != nil {
					return err
				}
				if len(remaining) == before {
					fmt.Fprintf(cmd.OutOrStdout(), "No audit with id %s.\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%d left).\n", args[0], len(remaining))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export [file]",
		Short: "Write the history as JSON to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *db.Store) error {
				if len(args) == 0 || args[0] == "-" {
					return s.Export(cmd.OutOrStdout())
				}
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("create export: %w", err)
				}
				if err := s.Export(f); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Merge audits from a JSON export, skipping ids already present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *db.Store) error {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open import: %w", err)
				}
				defer f.Close()
				added, skipped, err := s.Import(f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d audit(s).\n", added)
				if skipped > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d invalid record(s).\n", skipped)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "recover [file]",
		Short: "Write a history payload that failed to load, for repair and re-import",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *db.Store) error {
				corrupt, err := s.CorruptPayload()
				if err != nil {
					return err
				}
				if corrupt == nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "No unreadable history to recover.")
					return nil
				}
				if len(args) == 0 || args[0] == "-" {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), corrupt.Value)
					return err
				}
				if err := os.WriteFile(args[0], []byte(corrupt.Value), 0o600); err != nil {
					return fmt.Errorf("write recovered history: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s.\n", len(corrupt.Value), args[0])
				return nil
			})
		},
	})

	return cmd
}
