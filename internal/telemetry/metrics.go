// Package telemetry keeps in-memory counters about answered questions.
// Query text is never recorded: only outcomes, latencies and which entry won.
package telemetry

import (
	"sort"
	"sync"
	"time"
)

// Outcome classifies a single question.
type Outcome string

const (
	OutcomeMatched     Outcome = "matched"
	OutcomeFallback    Outcome = "fallback"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeInvalid     Outcome = "invalid"
)

// LatencyBucket represents a latency histogram bucket.
type LatencyBucket string

const (
	BucketP1    LatencyBucket = "p1"    // <1ms
	BucketP10   LatencyBucket = "p10"   // 1-10ms
	BucketP50   LatencyBucket = "p50"   // 10-50ms
	BucketP100  LatencyBucket = "p100"  // 50-100ms
	BucketP500  LatencyBucket = "p500"  // 100-500ms
	BucketP1000 LatencyBucket = "p1000" // >=500ms
)

// LatencyToBucket converts a duration to its histogram bucket.
func LatencyToBucket(d time.Duration) LatencyBucket {
	switch {
	case d < time.Millisecond:
		return BucketP1
	case d < 10*time.Millisecond:
		return BucketP10
	case d < 50*time.Millisecond:
		return BucketP50
	case d < 100*time.Millisecond:
		return BucketP100
	case d < 500*time.Millisecond:
		return BucketP500
	default:
		return BucketP1000
	}
}

// QueryEvent is one question as seen by telemetry.
type QueryEvent struct {
	Outcome Outcome
	// BestIndex is the answered entry, or -1.
	BestIndex int
	Latency   time.Duration
	// Cached is set when the result came from the result cache.
	Cached bool
	// Generation is the corpus snapshot that answered. BestIndex is only
	// meaningful within it.
	Generation uint64
}

// EntryHits is how often one entry was given as the answer.
type EntryHits struct {
	Index int   `json:"index"`
	Hits  int64 `json:"hits"`
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Since               time.Time               `json:"since"`
	TotalQueries        int64                   `json:"total_queries"`
	Outcomes            map[Outcome]int64       `json:"outcomes"`
	CacheHits           int64                   `json:"cache_hits"`
	LatencyDistribution map[LatencyBucket]int64 `json:"latency_distribution"`
	TopEntries          []EntryHits             `json:"top_entries"`
	Reloads             int64                   `json:"reloads"`
	ReloadFailures      int64                   `json:"reload_failures"`
	LastReload          time.Time               `json:"last_reload,omitempty"`
	Generation          uint64                  `json:"generation"`
	Entries             int                     `json:"entries"`
}

// FallbackRate is the share of answerable questions that fell back.
func (s Snapshot) FallbackRate() float64 {
	answered := s.Outcomes[OutcomeMatched] + s.Outcomes[OutcomeFallback]
	if answered == 0 {
		return 0
	}
	return float64(s.Outcomes[OutcomeFallback]) / float64(answered)
}

// maxTopEntries bounds Snapshot.TopEntries.
const maxTopEntries = 10

// Metrics aggregates QueryEvents. Safe for concurrent use.
type Metrics struct {
	mu             sync.Mutex
	since          time.Time
	total          int64
	outcomes       map[Outcome]int64
	cacheHits      int64
	latency        map[LatencyBucket]int64
	hits           map[int]int64
	hitsGen        uint64
	reloads        int64
	reloadFailures int64
	lastReload     time.Time
	generation     uint64
	entries        int
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{
		since:    time.Now().UTC(),
		outcomes: make(map[Outcome]int64),
		latency:  make(map[LatencyBucket]int64),
		hits:     make(map[int]int64),
	}
}

// Record adds one question. Nil receivers ignore the call.
func (m *Metrics) Record(e QueryEvent) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	m.outcomes[e.Outcome]++
	if e.Cached {
		m.cacheHits++
	}
	if e.Outcome != OutcomeInvalid {
		m.latency[LatencyToBucket(e.Latency)]++
	}
	if e.Outcome == OutcomeMatched && e.BestIndex >= 0 {
		m.advanceHits(e.Generation)
		// Answers from a replaced corpus point at old positions.
		if e.Generation == m.hitsGen {
			m.hits[e.BestIndex]++
		}
	}
}

// advanceHits starts per-entry counts afresh for a newer corpus generation.
// Callers hold mu.
func (m *Metrics) advanceHits(generation uint64) {
	if generation > m.hitsGen {
		m.hits = make(map[int]int64)
		m.hitsGen = generation
	}
}

// RecordReload notes a corpus (re)load. A successful reload to a newer
// generation resets per-entry hit counts.
func (m *Metrics) RecordReload(generation uint64, entries int, err error) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.reloadFailures++
		return
	}
	m.reloads++
	m.lastReload = time.Now().UTC()
	m.generation = generation
	m.entries = entries
	m.advanceHits(generation)
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{Outcomes: map[Outcome]int64{}, LatencyDistribution: map[LatencyBucket]int64{}, TopEntries: []EntryHits{}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		Since:               m.since,
		TotalQueries:        m.total,
		Outcomes:            make(map[Outcome]int64, len(m.outcomes)),
		CacheHits:           m.cacheHits,
		LatencyDistribution: make(map[LatencyBucket]int64, len(m.latency)),
		TopEntries:          make([]EntryHits, 0, len(m.hits)),
		Reloads:             m.reloads,
		ReloadFailures:      m.reloadFailures,
		LastReload:          m.lastReload,
		Generation:          m.generation,
		Entries:             m.entries,
	}
	for k, v := range m.outcomes {
		s.Outcomes[k] = v
	}
	for k, v := range m.latency {
		s.LatencyDistribution[k] = v
	}
	for i, n := range m.hits {
		s.TopEntries = append(s.TopEntries, EntryHits{Index: i, Hits: n})
	}
	sort.Slice(s.TopEntries, func(a, b int) bool {
		if s.TopEntries[a].Hits != s.TopEntries[b].Hits {
			return s.TopEntries[a].Hits > s.TopEntries[b].Hits
		}
		return s.TopEntries[a].Index < s.TopEntries[b].Index
	})
	if len(s.TopEntries) > maxTopEntries {
		s.TopEntries = s.TopEntries[:maxTopEntries]
	}
	return s
}
