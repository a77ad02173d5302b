// Package server exposes the FAQ engine over HTTP: the chat endpoint used by
// the web page, the raw FAQ list, keyword search, stats and a health check.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/faq"
	"github.com/Aman-CERP/faqmatch/internal/match"
	"github.com/Aman-CERP/faqmatch/internal/search"
	"github.com/Aman-CERP/faqmatch/internal/telemetry"
)

// Engine is the subset of *search.Engine the server needs.
type Engine interface {
	Ask(ctx context.Context, question string) (*match.Result, error)
	Search(ctx context.Context, query string, limit int) ([]search.Hit, error)
	Entries() []faq.Entry
	Stats() search.Stats
	Metrics() *telemetry.Metrics
}

// Options configures the HTTP server.
type Options struct {
	Addr string
	// StaticDir replaces the embedded page when set.
	StaticDir      string
	AllowedOrigins []string
	MaxBodyBytes   int64

	FallbackMessage    string
	UnavailableMessage string

	Logger *slog.Logger
	// Now is the clock used for response timestamps. Defaults to time.Now.
	Now func() time.Time
}

const shutdownTimeout = 10 * time.Second

// Server serves the FAQ engine over HTTP.
type Server struct {
	engine  Engine
	opts    Options
	logger  *slog.Logger
	handler http.Handler
}

// New creates a server. Call Handler for tests or ListenAndServe to run it.
func New(engine Engine, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 64 << 10
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{engine: engine, opts: opts, logger: opts.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /faqs.json", s.handleFAQs)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /", s.staticHandler())

	s.handler = chain(mux,
		requestID,
		s.accessLog,
		s.recoverPanics,
		cors(opts.AllowedOrigins),
		limitBody(opts.MaxBodyBytes),
	)
	return s
}

// Handler returns the full handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return apperrors.New(apperrors.ErrCodeAddressInUse, "address already in use: "+s.opts.Addr, err).
				WithSuggestion("Stop the other process or pass --addr with a free port")
		}
		return apperrors.New(apperrors.ErrCodeNetworkUnavailable, "failed to listen on "+s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled. Requests in flight at that
// point keep their context and finish within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	base := context.WithoutCancel(ctx)
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
		BaseContext:       func(net.Listener) context.Context { return base },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", slog.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(base, shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) timestamp() string {
	return s.opts.Now().UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
