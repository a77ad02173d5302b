package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/faq"
	"github.com/Aman-CERP/faqmatch/internal/ui"
)

func newEntriesCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List, add and check FAQ entries",
		Example: `  faqmatch entries list
  faqmatch entries add --question "Is there a hostel?" --answer "Yes, for first-year students."
  faqmatch entries check`,
	}

	cmd.AddCommand(newEntriesListCmd(g))
	cmd.AddCommand(newEntriesAddCmd(g))
	cmd.AddCommand(newEntriesCheckCmd(g))

	return cmd
}

func newEntriesListCmd(g *globals) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every entry in file order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := ui.NewRenderer(cmd.OutOrStdout(), format)
			if err != nil {
				return apperrors.ValidationError(err.Error(), nil)
			}
			entries, err := faq.Load(g.cfg.Corpus.Path)
			if err != nil {
				return err
			}
			return r.Entries(entries)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", ui.FormatText, "Output format: text, json")

	return cmd
}

func newEntriesAddCmd(g *globals) *cobra.Command {
	var question, answer string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an entry to the FAQ file",
		Long: `Append a question and answer to the end of the FAQ file, creating the
file when it does not exist. A running server picks the change up through
its file watcher.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(answer) == "" {
				return apperrors.ValidationError("--answer must not be blank", nil)
			}
			path := g.cfg.Corpus.Path
			if err := faq.Append(path, faq.Entry{Question: question, Answer: answer}); err != nil {
				return err
			}
			p := ui.NewPrinter(cmd.OutOrStdout())
			p.Success("Added FAQ entry")
			p.Infof("File: %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&question, "question", "q", "", "Question text")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "Answer text")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")

	return cmd
}

func newEntriesCheckCmd(g *globals) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report entries that will match poorly",
		Long: `Load the FAQ file and report blank questions, blank answers and
repeated questions. Exits non-zero when problems are found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := ui.NewRenderer(cmd.OutOrStdout(), format)
			if err != nil {
				return apperrors.ValidationError(err.Error(), nil)
			}
			entries, err := faq.Load(g.cfg.Corpus.Path)
			if err != nil {
				return err
			}
			problems := faq.Check(entries)
			if err := r.Problems(problems); err != nil {
				return err
			}
			if len(problems) > 0 {
				return apperrors.ValidationError(fmt.Sprintf("%d of %d entries have problems", len(problems), len(entries)), nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", ui.FormatText, "Output format: text, json")

	return cmd
}
