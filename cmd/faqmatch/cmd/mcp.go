package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/faqmatch/internal/logging"
	faqmcp "github.com/Aman-CERP/faqmatch/internal/mcp"
	"github.com/Aman-CERP/faqmatch/internal/telemetry"
)

func newMCPCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long: `Expose the FAQ list to MCP clients over stdin/stdout.

Tools: ask_faq, search_faqs, list_faqs.
Resources: faqmatch://entries, faqmatch://metrics.

stdout carries JSON-RPC only; logs go to ~/.faqmatch/logs/server.log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runMCP(ctx, g)
		},
	}
}

func runMCP(ctx context.Context, g *globals) error {
	cleanup, err := logging.SetupStdio(g.cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	defer cleanup()
	logger := slog.Default()

	engine := g.newEngine(logger, telemetry.NewMetrics())
	defer func() { _ = engine.Close() }()

	if err := engine.Reload(ctx); err != nil {
		logger.Warn("initial faq load failed, serving without a corpus",
			slog.String("path", g.cfg.Corpus.Path),
			slog.String("error", err.Error()))
	}

	srv, err := faqmcp.NewServer(engine, g.cfg)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}
