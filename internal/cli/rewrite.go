package cli

import (
	"fmt"
	"strings"

	"github.com/jwulff/folio/internal/audit"
	"github.com/jwulff/folio/internal/gateway"
	"github.com/spf13/cobra"
)

func newRewriteCmd(opts *rootOptions) *cobra.Command {
	var tone string
	cmd := &cobra.Command{
		Use:   "rewrite [text...|-]",
		Short: "Rewrite one paragraph in a chosen tone",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := audit.ParseTone(tone)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args, true)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return audit.ErrValidation.WithMessage("paragraph is empty")
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
			out, err := gateway.NewRewriter(gen, e.cfg.RewriteModel, e.log).Rewrite(ctx, text, t)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&tone, "tone", "t", string(audit.ToneStrong), "strong, judge-friendly or concise")
	return cmd
}
