package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/faq"
	"github.com/Aman-CERP/faqmatch/internal/index"
	"github.com/Aman-CERP/faqmatch/internal/match"
	"github.com/Aman-CERP/faqmatch/internal/telemetry"
)

// DefaultCacheSize is the number of results kept per snapshot.
const DefaultCacheSize = 1024

// closeGrace is how long a replaced keyword index stays open for in-flight searches.
const closeGrace = 5 * time.Second

// Stats describes the live snapshot.
type Stats struct {
	Generation uint64    `json:"generation"`
	Entries    int       `json:"entries"`
	Vocabulary int       `json:"vocabulary"`
	Available  bool      `json:"available"`
	Source     string    `json:"source,omitempty"`
	LoadedAt   time.Time `json:"loaded_at"`
	Threshold  float64   `json:"threshold"`
	NgramMin   int       `json:"ngram_min"`
	NgramMax   int       `json:"ngram_max"`
}

// snapshot is immutable once published.
type snapshot struct {
	generation uint64
	index      *index.Index
	keyword    *KeywordIndex
	cache      *lru.Cache[string, *match.Result]
	loadedAt   time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the FAQ file used by Reload.
func WithSource(path string) Option {
	return func(e *Engine) {
		e.source = path
	}
}

// WithAnalyzerOptions configures the text analysis used to build indexes.
func WithAnalyzerOptions(opts ...index.AnalyzerOption) Option {
	return func(e *Engine) {
		e.analyzerOpts = append(e.analyzerOpts, opts...)
	}
}

// WithMatcher replaces the default confidence policy.
func WithMatcher(m *match.Matcher) Option {
	return func(e *Engine) {
		if m != nil {
			e.matcher = m
		}
	}
}

// WithCacheSize sets the per-snapshot result cache size. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.cacheSize = n
		}
	}
}

// WithMetrics records query and reload telemetry into m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithRetry sets the policy for re-reading the source during Reload.
func WithRetry(cfg apperrors.RetryConfig) Option {
	return func(e *Engine) {
		e.retry = cfg
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine answers questions against the current FAQ corpus.
// It is safe for concurrent use. Queries never block on a reload.
type Engine struct {
	current atomic.Pointer[snapshot]

	// mu serialises writers; readers only load current.
	mu         sync.Mutex
	generation uint64
	closed     bool

	source       string
	analyzerOpts []index.AnalyzerOption
	matcher      *match.Matcher
	cacheSize    int
	metrics      *telemetry.Metrics
	retry        apperrors.RetryConfig
	logger       *slog.Logger
}

// New creates an engine with an empty corpus. Until Load or Reload
// succeeds every question gets the unavailable result.
func New(opts ...Option) *Engine {
	e := &Engine{
		matcher:   match.New(),
		cacheSize: DefaultCacheSize,
		retry:     apperrors.DefaultRetryConfig(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	// The empty snapshot has no keyword index and no cache.
	e.current.Store(&snapshot{index: index.Build(nil, e.analyzerOpts...), loadedAt: time.Now()})
	return e
}

// Load builds a snapshot from entries and makes it current.
func (e *Engine) Load(ctx context.Context, entries []faq.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	snap, err := e.build(entries)
	if err != nil {
		e.metrics.RecordReload(e.Generation(), 0, err)
		return err
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		if snap.keyword != nil {
			_ = snap.keyword.Close()
		}
		return apperrors.InternalError("engine is closed", nil)
	}
	e.generation++
	snap.generation = e.generation
	old := e.current.Swap(snap)
	e.mu.Unlock()

	e.retire(old)
	e.metrics.RecordReload(snap.generation, snap.index.Len(), nil)

	vocab := 0
	if v := snap.index.Vocabulary(); v != nil {
		vocab = v.Len()
	}
	e.logger.Info("faq corpus loaded",
		slog.Uint64("generation", snap.generation),
		slog.Int("entries", snap.index.Len()),
		slog.Int("vocabulary", vocab),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Reload re-reads the configured source and swaps in a new snapshot.
// Corrupt reads are retried because editors often write files in two steps.
// On failure the previous snapshot stays current.
func (e *Engine) Reload(ctx context.Context) error {
	if e.source == "" {
		return apperrors.ConfigError("no FAQ source configured", nil).
			WithSuggestion("Pass --faqs or set corpus.path in .faqmatch.yaml")
	}

	entries, err := apperrors.RetryWithResult(ctx, e.retry, func() ([]faq.Entry, error) {
		return faq.Load(e.source)
	})
	if err != nil {
		e.metrics.RecordReload(e.Generation(), 0, err)
		e.logger.Warn("faq reload failed, keeping previous corpus",
			slog.String("path", e.source),
			slog.String("error", err.Error()))
		return err
	}
	return e.Load(ctx, entries)
}

// Ask answers query against the current snapshot.
// The returned result is owned by the caller.
func (e *Engine) Ask(ctx context.Context, query string) (*match.Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := e.current.Load()
	key := strings.TrimSpace(query)

	if snap.cache != nil && key != "" {
		if res, ok := snap.cache.Get(key); ok {
			e.record(res, snap.generation, time.Since(start), true)
			return cloneResult(res), nil
		}
	}

	res, err := e.matcher.Match(snap.index, query)
	if err != nil {
		if apperrors.IsInvalidInput(err) {
			e.metrics.Record(telemetry.QueryEvent{
				Outcome:    telemetry.OutcomeInvalid,
				BestIndex:  -1,
				Latency:    time.Since(start),
				Generation: snap.generation,
			})
		}
		return nil, err
	}

	if snap.cache != nil {
		snap.cache.Add(key, res)
	}
	e.record(res, snap.generation, time.Since(start), false)
	return cloneResult(res), nil
}

// Search runs a keyword search over the current corpus.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	snap := e.current.Load()
	if snap.keyword == nil {
		return []Hit{}, nil
	}
	hits, err := snap.keyword.Search(ctx, query, limit)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeSearchFailed, "keyword search failed", err)
	}
	return hits, nil
}

// Entries returns a copy of the current corpus in index order.
func (e *Engine) Entries() []faq.Entry {
	return e.current.Load().index.Entries()
}

// Generation returns the number of successful loads so far.
func (e *Engine) Generation() uint64 {
	return e.current.Load().generation
}

// Source returns the configured FAQ file, if any.
func (e *Engine) Source() string {
	return e.source
}

// Metrics returns the telemetry sink, which may be nil.
func (e *Engine) Metrics() *telemetry.Metrics {
	return e.metrics
}

// Stats describes the current snapshot.
func (e *Engine) Stats() Stats {
	snap := e.current.Load()
	lo, hi := snap.index.Analyzer().NgramRange()
	st := Stats{
		Generation: snap.generation,
		Entries:    snap.index.Len(),
		Available:  snap.index.Available(),
		Source:     e.source,
		LoadedAt:   snap.loadedAt,
		Threshold:  e.matcher.Threshold(),
		NgramMin:   lo,
		NgramMax:   hi,
	}
	if v := snap.index.Vocabulary(); v != nil {
		st.Vocabulary = v.Len()
	}
	return st
}

// Close releases the keyword index. Queries after Close still work
// against the last snapshot's TF-IDF index, but Search returns no hits.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	old := e.current.Swap(&snapshot{
		generation: e.generation,
		index:      e.current.Load().index,
		loadedAt:   time.Now(),
	})
	if old.keyword != nil {
		return old.keyword.Close()
	}
	return nil
}

func (e *Engine) build(entries []faq.Entry) (*snapshot, error) {
	idx := index.Build(entries, e.analyzerOpts...)

	snap := &snapshot{index: idx, loadedAt: time.Now()}
	if idx.Len() == 0 {
		return snap, nil
	}

	kw, err := NewKeywordIndex(idx.Entries())
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeIndexFailed, "failed to build keyword index", err)
	}
	snap.keyword = kw

	if e.cacheSize > 0 {
		cache, err := lru.New[string, *match.Result](e.cacheSize)
		if err != nil {
			_ = kw.Close()
			return nil, apperrors.InternalError(fmt.Sprintf("failed to create result cache of size %d", e.cacheSize), err)
		}
		snap.cache = cache
	}
	return snap, nil
}

// retire closes a replaced snapshot's keyword index once in-flight searches are done.
func (e *Engine) retire(old *snapshot) {
	if old == nil || old.keyword == nil {
		return
	}
	kw := old.keyword
	time.AfterFunc(closeGrace, func() {
		if err := kw.Close(); err != nil {
			e.logger.Debug("failed to close retired keyword index", slog.String("error", err.Error()))
		}
	})
}

func (e *Engine) record(res *match.Result, generation uint64, latency time.Duration, cached bool) {
	outcome := telemetry.OutcomeMatched
	switch {
	case res.Unavailable:
		outcome = telemetry.OutcomeUnavailable
	case res.Fallback:
		outcome = telemetry.OutcomeFallback
	}
	e.metrics.Record(telemetry.QueryEvent{
		Outcome:    outcome,
		BestIndex:  res.BestIndex,
		Latency:    latency,
		Cached:     cached,
		Generation: generation,
	})
}

func cloneResult(r *match.Result) *match.Result {
	c := *r
	if r.Best != nil {
		best := *r.Best
		c.Best = &best
	}
	c.Suggestions = append(make([]match.Suggestion, 0, len(r.Suggestions)), r.Suggestions...)
	return &c
}
