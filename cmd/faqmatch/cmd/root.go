// Package cmd provides the CLI commands for faqmatch.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/faqmatch/internal/config"
	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/index"
	"github.com/Aman-CERP/faqmatch/internal/logging"
	"github.com/Aman-CERP/faqmatch/internal/match"
	"github.com/Aman-CERP/faqmatch/internal/search"
	"github.com/Aman-CERP/faqmatch/internal/telemetry"
	"github.com/Aman-CERP/faqmatch/pkg/version"
)

// globals is the state shared by every subcommand: persistent flags and the
// configuration loaded before the subcommand runs.
type globals struct {
	debug bool
	faqs  string

	cfg     *config.Config
	cleanup func()
}

// NewRootCmd creates the root command for the faqmatch CLI.
func NewRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   "faqmatch",
		Short: "Answer questions from a FAQ list",
		Long: `faqmatch answers free-text questions by finding the closest entry in a
list of frequently asked questions (TF-IDF over word 1-3-grams, cosine
similarity). Low-confidence questions get a fallback message and the
closest entries as suggestions.

The FAQ list is a JSON or YAML array of {question, answer} objects, or a
SQLite database with a faqs table.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			g.close()
			return nil
		},
	}

	cmd.SetVersionTemplate("faqmatch version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging to ~/.faqmatch/logs/")
	cmd.PersistentFlags().StringVar(&g.faqs, "faqs", "", "FAQ source file (overrides corpus.path)")

	cmd.AddCommand(newServeCmd(g))
	cmd.AddCommand(newMCPCmd(g))
	cmd.AddCommand(newAskCmd(g))
	cmd.AddCommand(newChatCmd(g))
	cmd.AddCommand(newSearchCmd(g))
	cmd.AddCommand(newEntriesCmd(g))
	cmd.AddCommand(newValidateCmd(g))
	cmd.AddCommand(newConfigCmd(g))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		debug, _ := root.PersistentFlags().GetBool("debug")
		printError(os.Stderr, err, debug)
	}
	return err
}

// reportedError is an error a command already wrote in its output format.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// printError writes err for the terminal unless the command reported it already.
func printError(w io.Writer, err error, debug bool) {
	var reported *reportedError
	if errors.As(err, &reported) {
		return
	}
	fmt.Fprint(w, apperrors.FormatForCLI(err, debug))
}

// failJSON writes err to w as a JSON error report for --format json and
// returns it marked as reported.
func (g *globals) failJSON(w io.Writer, err error) error {
	data, ferr := apperrors.FormatJSON(err, g.debug)
	if ferr != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return &reportedError{err: err}
}

// setup loads configuration for the working directory and applies the
// persistent flags on top of it.
func (g *globals) setup(_ *cobra.Command) error {
	dir, err := os.Getwd()
	if err != nil {
		return apperrors.IOError("cannot determine working directory", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if g.faqs != "" {
		path, err := filepath.Abs(g.faqs)
		if err != nil {
			return apperrors.New(apperrors.ErrCodeInvalidPath, "invalid --faqs path", err)
		}
		cfg.Corpus.Path = path
	}
	if g.debug {
		cfg.Server.LogLevel = "debug"
	}
	g.cfg = cfg
	return nil
}

// logToFile sends logs to the rotating log file only, keeping terminal
// output clean for one-shot commands. Without --debug nothing is logged.
func (g *globals) logToFile() *slog.Logger {
	if !g.debug {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		slog.SetDefault(logger)
		return logger
	}
	cfg := logging.DebugConfig()
	cfg.WriteToStderr = false
	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return slog.Default()
	}
	g.cleanup = cleanup
	slog.SetDefault(logger)
	return logger
}

func (g *globals) close() {
	if g.cleanup != nil {
		g.cleanup()
		g.cleanup = nil
	}
}

// newEngine builds a search engine over the configured corpus. It does not load it.
func (g *globals) newEngine(logger *slog.Logger, metrics *telemetry.Metrics) *search.Engine {
	m := g.cfg.Matcher
	return search.New(
		search.WithSource(g.cfg.Corpus.Path),
		search.WithAnalyzerOptions(
			index.WithNgramRange(m.NgramMin, m.NgramMax),
			index.WithStopWords(m.StopWords, m.ExtraStopWords...),
		),
		search.WithMatcher(match.New(
			match.WithThreshold(m.Threshold),
			match.WithMaxSuggestions(m.MaxSuggestions),
		)),
		search.WithCacheSize(m.CacheSize),
		search.WithMetrics(metrics),
		search.WithLogger(logger),
	)
}
