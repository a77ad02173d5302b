package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/search"
	"github.com/Aman-CERP/faqmatch/internal/ui"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	limit  int
	format string
}

func newSearchCmd(g *globals) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <terms...>",
		Short: "Keyword search over the FAQ list",
		Long: `Find FAQ entries containing the given words, ranked by keyword
relevance. Word forms are matched ("hostels" finds "hostel").

This is for browsing the list; 'faqmatch ask' decides the answer.`,
		Example: `  faqmatch search scholarship
  faqmatch search tuition fees --limit 3 --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, g, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", search.DefaultSearchLimit, "Maximum number of results")
	cmd.Flags().StringVarP(&opts.format, "format", "f", ui.FormatText, "Output format: text, json")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, g *globals, query string, opts searchOptions) error {
	if opts.limit < 1 || opts.limit > search.MaxSearchLimit {
		return apperrors.ValidationError("--limit must be between 1 and 50", nil)
	}
	r, err := ui.NewRenderer(cmd.OutOrStdout(), opts.format)
	if err != nil {
		return apperrors.ValidationError(err.Error(), nil)
	}

	engine := g.loadEngine(ctx, cmd.ErrOrStderr())
	defer func() { _ = engine.Close() }()

	hits, err := engine.Search(ctx, query, opts.limit)
	if err != nil {
		if opts.format == ui.FormatJSON {
			return g.failJSON(cmd.ErrOrStderr(), err)
		}
		return err
	}
	return r.Hits(query, hits)
}
