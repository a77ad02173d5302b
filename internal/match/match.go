// Package match ranks FAQ entries against a query and applies the
// confidence policy that decides between an answer and a fallback.
//
// Matching is a pure function of the index and the query: it never mutates
// the index and returns identical results for identical inputs.
package match

import (
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/faq"
	"github.com/Aman-CERP/faqmatch/internal/index"
)

const (
	// DefaultThreshold is the lowest score still answered with the best entry.
	DefaultThreshold = 0.25
	// DefaultMaxSuggestions bounds the runner-up list.
	DefaultMaxSuggestions = 3
)

// Suggestion is a ranked candidate entry.
type Suggestion struct {
	Index int       `json:"index"`
	Entry faq.Entry `json:"entry"`
	Score float64   `json:"score"`
}

// Result is the outcome of a match.
//
// When Fallback is set Best is nil and BestIndex is -1, but Score still
// reports the top score and Suggestions are populated. When Unavailable is set the corpus was empty:
// Best is nil, BestIndex is -1, Score is 0 and there are no suggestions.
type Result struct {
	Best        *faq.Entry   `json:"best"`
	BestIndex   int          `json:"best_index"`
	Score       float64      `json:"score"`
	Suggestions []Suggestion `json:"suggestions"`
	Fallback    bool         `json:"fallback"`
	Unavailable bool         `json:"unavailable"`
}

// Matcher applies a threshold and suggestion bound to index lookups.
// The zero value is not usable; use New.
type Matcher struct {
	threshold      float64
	maxSuggestions int
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithThreshold sets the confidence threshold. Scores strictly below it fall back.
func WithThreshold(t float64) Option {
	return func(m *Matcher) {
		m.threshold = t
	}
}

// WithMaxSuggestions sets the maximum number of suggestions. Values below 1 are ignored.
func WithMaxSuggestions(n int) Option {
	return func(m *Matcher) {
		if n >= 1 {
			m.maxSuggestions = n
		}
	}
}

// New creates a Matcher with the defaults of 0.25 and 3 suggestions.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		threshold:      DefaultThreshold,
		maxSuggestions: DefaultMaxSuggestions,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Threshold returns the configured threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

var defaultMatcher = New()

// Match ranks idx against query with the default policy.
func Match(idx *index.Index, query string) (*Result, error) {
	return defaultMatcher.Match(idx, query)
}

// Match trims query, projects it into idx's vector space and ranks every entry.
// A blank query fails with ERR_404_QUERY_EMPTY. An index without a model
// yields the unavailable result for any non-blank query.
func (m *Matcher) Match(idx *index.Index, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.New(apperrors.ErrCodeQueryEmpty, "question is empty", nil).
			WithSuggestion("Ask a question in plain words, for example 'When is the application deadline?'")
	}
	if !idx.Available() {
		return Unavailable(), nil
	}
	return m.rank(idx, idx.Project(query)), nil
}

// MatchVector ranks idx against an already projected query vector.
// The vector must live in idx's space; otherwise ERR_402_DIMENSION_MISMATCH.
func (m *Matcher) MatchVector(idx *index.Index, q index.SparseVector) (*Result, error) {
	if !idx.Available() {
		return Unavailable(), nil
	}
	if dim := idx.Vocabulary().Len(); q.Dim != dim {
		return nil, apperrors.New(apperrors.ErrCodeDimensionMismatch, "query vector does not match the index", nil).
			WithDetail("want", strconv.Itoa(dim)).
			WithDetail("got", strconv.Itoa(q.Dim))
	}
	return m.rank(idx, q), nil
}

// Unavailable returns the result used when there is no corpus.
func Unavailable() *Result {
	return &Result{
		BestIndex:   -1,
		Suggestions: []Suggestion{},
		Fallback:    true,
		Unavailable: true,
	}
}

func (m *Matcher) rank(idx *index.Index, q index.SparseVector) *Result {
	n := idx.Len()
	scores := make([]float64, n)
	order := make([]int, n)
	for i := 0; i < n; i++ {
		scores[i] = index.Cosine(q, idx.Vector(i))
		order[i] = i
	}

	// Stable: equal scores keep corpus order, so the lower index wins ties.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	k := min(m.maxSuggestions, n)
	suggestions := make([]Suggestion, k)
	for r := 0; r < k; r++ {
		i := order[r]
		suggestions[r] = Suggestion{Index: i, Entry: idx.Entry(i), Score: scores[i]}
	}

	top := order[0]
	res := &Result{
		BestIndex:   -1,
		Score:       scores[top],
		Suggestions: suggestions,
	}
	if res.Score < m.threshold {
		res.Fallback = true
		return res
	}
	best := idx.Entry(top)
	res.Best = &best
	res.BestIndex = top
	return res
}
