package cmd

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/search"
	"github.com/Aman-CERP/faqmatch/internal/ui"
)

func newAskCmd(g *globals) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Answer one question",
		Long: `Answer a question from the FAQ list and print the best entry with
related questions. Below the confidence threshold the fallback message is
printed together with the closest entries.`,
		Example: `  faqmatch ask when is the application deadline
  faqmatch ask "is there a hostel?" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd.Context(), cmd, g, strings.Join(args, " "), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", ui.FormatText, "Output format: text, json")

	return cmd
}

func runAsk(ctx context.Context, cmd *cobra.Command, g *globals, question, format string) error {
	r, err := ui.NewRenderer(cmd.OutOrStdout(), format)
	if err != nil {
		return apperrors.ValidationError(err.Error(), nil)
	}

	engine := g.loadEngine(ctx, cmd.ErrOrStderr())
	defer func() { _ = engine.Close() }()

	res, err := engine.Ask(ctx, question)
	if err != nil {
		if format == ui.FormatJSON {
			return g.failJSON(cmd.ErrOrStderr(), err)
		}
		return err
	}
	return r.Answer(ui.NewAnswer(question, res, g.messages()))
}

// loadEngine builds an engine and loads the corpus. A failed load is
// reported on w and leaves the engine empty, so questions get the
// unavailable message just as they do from the server.
func (g *globals) loadEngine(ctx context.Context, w io.Writer) *search.Engine {
	engine := g.newEngine(g.logToFile(), nil)
	if err := engine.Reload(ctx); err != nil {
		ui.NewPrinter(w).Warningf("FAQ data not loaded from %s: %s", g.cfg.Corpus.Path, errMessage(err))
	}
	return engine
}

func (g *globals) messages() ui.Messages {
	return ui.Messages{
		Fallback:    g.cfg.Messages.Fallback,
		Unavailable: g.cfg.Messages.Unavailable,
	}
}

// errMessage returns the AppError message without code or hint.
func errMessage(err error) string {
	var ae *apperrors.AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
