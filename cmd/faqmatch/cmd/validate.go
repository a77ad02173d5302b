package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/ui"
	"github.com/Aman-CERP/faqmatch/internal/validation"
)

// validateOptions holds CLI flags for validate.
type validateOptions struct {
	minPass float64
	format  string
}

func newValidateCmd(g *globals) *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate <queries.yaml>",
		Short: "Check answers against known questions",
		Long: `Ask every question in a queries file and check the answers.

Questions under "match" must be answered by the entry named in "expected".
Questions under "fallback" must get the fallback message. Run this after
editing the FAQ list or changing the matcher settings.`,
		Example: `  faqmatch validate queries.yaml
  faqmatch validate queries.yaml --min-pass 90 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), cmd, g, args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.minPass, "min-pass", 100, "Minimum pass rate in percent")
	cmd.Flags().StringVarP(&opts.format, "format", "f", ui.FormatText, "Output format: text, json")

	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, g *globals, path string, opts validateOptions) error {
	if opts.format != ui.FormatText && opts.format != ui.FormatJSON {
		return apperrors.ValidationError(fmt.Sprintf("unknown output format %q (supported: text, json)", opts.format), nil)
	}

	queries, err := validation.LoadQueries(path)
	if err != nil {
		if opts.format == ui.FormatJSON {
			return g.failJSON(cmd.ErrOrStderr(), err)
		}
		return err
	}

	engine := g.loadEngine(ctx, cmd.ErrOrStderr())
	defer func() { _ = engine.Close() }()

	res := validation.NewValidator(engine).RunAll(ctx, queries)

	if opts.format == ui.FormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printValidation(ui.NewPrinter(cmd.OutOrStdout()), res)
	}

	if res.PassRate() < opts.minPass {
		err := apperrors.ValidationError(
			fmt.Sprintf("pass rate %.0f%% is below the minimum %.0f%%", res.PassRate(), opts.minPass), nil)
		if opts.format == ui.FormatJSON {
			return g.failJSON(cmd.ErrOrStderr(), err)
		}
		return err
	}
	return nil
}

func printValidation(p *ui.Printer, res *validation.Result) {
	for _, tr := range append(res.Match, res.Fallback...) {
		label := fmt.Sprintf("%s %s: %q", tr.Spec.ID, tr.Spec.Kind, tr.Spec.Question)
		switch {
		case tr.Error != "":
			p.Error(label)
			p.Infof("error: %s", tr.Error)
		case tr.Passed:
			p.Successf("%s (%.2f)", label, tr.Score)
		default:
			p.Warning(label)
			if tr.Answered != "" {
				p.Infof("answered: %s (%.2f)", tr.Answered, tr.Score)
			} else {
				p.Infof("fell back (%.2f)", tr.Score)
			}
			if tr.Spec.Expected != "" {
				p.Infof("expected: %s", tr.Spec.Expected)
			}
		}
	}
	p.Status("", fmt.Sprintf("match %d/%d, fallback %d/%d (%.0f%%)",
		res.MatchPass, res.MatchTotal, res.FallbackPass, res.FallbackTotal, res.PassRate()))
}
