package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/faqmatch/internal/logging"
	"github.com/Aman-CERP/faqmatch/internal/search"
	"github.com/Aman-CERP/faqmatch/internal/server"
	"github.com/Aman-CERP/faqmatch/internal/telemetry"
	"github.com/Aman-CERP/faqmatch/internal/watcher"
)

// serveOptions holds CLI flags for serve.
type serveOptions struct {
	addr    string
	noWatch bool
}

func newServeCmd(g *globals) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP chat server",
		Long: `Serve the chat page and JSON API.

Endpoints:
  POST /api/chat     {"question": "..."} → answer, score, suggestions
  GET  /faqs.json    the raw FAQ list
  GET  /api/search   keyword search (?q=...&limit=...)
  GET  /api/stats    corpus and query counters
  GET  /healthz      liveness and corpus state

The FAQ file is watched and reloaded on change unless --no-watch is set.
If the first load fails the server still starts and answers every
question with the "not available" message until a reload succeeds.`,
		Example: `  faqmatch serve
  faqmatch serve --addr :8080 --faqs data/faqs.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (default server.host:server.port)")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "Do not reload the FAQ file when it changes")

	return cmd
}

func runServe(ctx context.Context, g *globals, opts serveOptions) error {
	cfg := g.cfg

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Server.LogLevel
	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return err
	}
	defer cleanup()
	slog.SetDefault(logger)

	metrics := telemetry.NewMetrics()
	engine := g.newEngine(logger, metrics)
	defer func() { _ = engine.Close() }()

	if err := engine.Reload(ctx); err != nil {
		logger.Warn("initial faq load failed, serving without a corpus",
			slog.String("path", cfg.Corpus.Path),
			slog.String("error", err.Error()))
	}

	addr := opts.addr
	if addr == "" {
		addr = cfg.Addr()
	}
	srv := server.New(engine, server.Options{
		Addr:               addr,
		StaticDir:          cfg.Server.StaticDir,
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		MaxBodyBytes:       cfg.Server.MaxBodyBytes,
		FallbackMessage:    cfg.Messages.Fallback,
		UnavailableMessage: cfg.Messages.Unavailable,
		Logger:             logger,
	})

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return srv.ListenAndServe(gctx)
	})
	if cfg.Corpus.Watch && !opts.noWatch {
		grp.Go(func() error {
			watchCorpus(gctx, engine, cfg.Corpus.Path, watcher.Options{
				Debounce: cfg.WatchDebounceDuration(),
				Logger:   logger,
			})
			return nil
		})
	}

	err = grp.Wait()
	logger.Info("faqmatch stopped")
	return err
}

// watchCorpus reloads engine whenever path changes. A failed watch leaves
// the server running on the corpus it has.
func watchCorpus(ctx context.Context, engine *search.Engine, path string, opts watcher.Options) {
	opts = opts.WithDefaults()
	logger := opts.Logger
	w := watcher.New(opts)
	err := w.Watch(ctx, path, func(ctx context.Context, ev watcher.FileEvent) {
		if ev.Operation == watcher.OpDelete || ev.Operation == watcher.OpRename {
			logger.Warn("faq file removed, keeping current corpus", slog.String("path", ev.Path))
			return
		}
		logger.Info("faq file changed, reloading",
			slog.String("path", ev.Path),
			slog.String("operation", ev.Operation.String()))
		// Reload logs its own failure and keeps the old snapshot.
		_ = engine.Reload(ctx)
	})
	if err != nil {
		logger.Error("faq watcher stopped", slog.String("path", path), slog.String("error", err.Error()))
	}
}
