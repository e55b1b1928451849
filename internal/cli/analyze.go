package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwulff/folio/internal/audit"
	"github.com/jwulff/folio/internal/gateway"
	"github.com/jwulff/folio/internal/ui"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		program    string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Audit a portfolio and save the result to history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := audit.ParseProgram(program)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args, false)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return audit.ErrValidation.WithMessage("portfolio text is empty")
			}

			e, err := opts.setup()
			if err != nil {
				return err
			}
			defer e.close()

			gen, err := e.generator(cmd.Context())
			if err != nil {
				return err
			}
			defer gen.Close()

			ctx, cancel := e.callContext(cmd.Context())
			defer cancel()
			report, err := gateway.NewAnalyzer(gen, e.cfg.AnalysisModel, e.log).Analyze(ctx, text, p)
			if err != nil {
				return err
			}

			store, err := e.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			rec, saveErr := store.Append(*report, p)
			if saveErr != nil {
				// Still print what we got.
				rec = audit.SavedAudit{Program: p, Report: *report}
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(rec); err != nil {
					return err
				}
			} else {
				fmt.Fprint(out, ui.FullReportMarkdown(rec))
			}
			return saveErr
		},
	}
	cmd.Flags().StringVarP(&program, "program", "p", string(audit.ProgramFTC), "competition program (FTC, FRC, FLL)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the saved record as JSON")
	return cmd
}
