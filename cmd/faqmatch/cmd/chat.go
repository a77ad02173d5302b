package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/ui"
)

func newChatCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Ask questions interactively",
		Long: `Open an interactive chat over the FAQ list.

On a terminal this is a full-screen chat: type a question and press Enter,
press 1-9 on an empty line to ask one of the related questions, Esc quits.
When stdin or stdout is not a terminal, questions are read one per line
and answers printed as plain text.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context(), cmd, g)
		},
	}
}

func runChat(ctx context.Context, cmd *cobra.Command, g *globals) error {
	engine := g.loadEngine(ctx, cmd.ErrOrStderr())
	defer func() { _ = engine.Close() }()

	msgs := g.messages()
	ask := func(ctx context.Context, q string) (ui.Answer, error) {
		res, err := engine.Ask(ctx, q)
		if err != nil {
			return ui.Answer{}, err
		}
		return ui.NewAnswer(q, res, msgs), nil
	}

	if ui.Interactive(cmd.OutOrStdout()) && ui.IsInputTTY(cmd.InOrStdin()) {
		title := fmt.Sprintf("faqmatch · %d questions", engine.Stats().Entries)
		model := ui.NewChatModel(ctx, ask, title, ui.GetStyles(ui.DetectNoColor()))
		return ui.RunChat(ctx, model)
	}
	return chatLines(ctx, cmd, ask)
}

// chatLines answers one question per input line until EOF.
func chatLines(ctx context.Context, cmd *cobra.Command, ask ui.AskFunc) error {
	r, err := ui.NewRenderer(cmd.OutOrStdout(), ui.FormatText)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		q := strings.TrimSpace(sc.Text())
		if q == "" {
			continue
		}
		a, err := ask(ctx, q)
		if err != nil {
			if apperrors.IsInvalidInput(err) {
				continue
			}
			return err
		}
		if err := r.Answer(a); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	if err := sc.Err(); err != nil {
		return apperrors.IOError("failed to read questions", err)
	}
	return nil
}
