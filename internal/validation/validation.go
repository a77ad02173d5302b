// Package validation checks answer quality against a list of known questions.
//
// Queries are data-driven, loaded from a YAML file, so the list can grow with
// the FAQ without a rebuild:
//
//	match:
//	  - id: M1
//	    question: When is the deadline to apply?
//	    expected: What is the application deadline?
//	fallback:
//	  - id: F1
//	    question: Do you sell zeppelin tickets?
//
// A match query passes when the expected entry is the confident answer. A
// fallback query passes when no entry is confident; if it names an expected
// entry, that entry must also be among the suggestions.
package validation

import (
	"context"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/match"
)

// Kind says which outcome a query expects.
type Kind string

const (
	KindMatch    Kind = "match"
	KindFallback Kind = "fallback"
)

// QuerySpec defines a test question with its expected answer.
type QuerySpec struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	Question string `yaml:"question" json:"question"`
	// Expected is the question text of the entry that should answer.
	Expected string `yaml:"expected,omitempty" json:"expected,omitempty"`
	Notes    string `yaml:"notes,omitempty" json:"notes,omitempty"`
	Kind     Kind   `yaml:"-" json:"kind"`
}

// QueryConfig holds all validation queries loaded from YAML.
type QueryConfig struct {
	Match    []QuerySpec `yaml:"match"`
	Fallback []QuerySpec `yaml:"fallback"`
}

// LoadQueries reads validation queries from path.
func LoadQueries(path string) (*QueryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.New(apperrors.ErrCodeFileNotFound, "queries file not found", err).
				WithDetail("path", path)
		}
		return nil, apperrors.New(apperrors.ErrCodeFilePermission, "cannot read queries file", err).
			WithDetail("path", path)
	}

	var cfg QueryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeFileCorrupt, "failed to parse queries YAML", err).
			WithDetail("path", path)
	}

	for i := range cfg.Match {
		cfg.Match[i].Kind = KindMatch
		if strings.TrimSpace(cfg.Match[i].Expected) == "" {
			return nil, apperrors.ValidationError("match query "+cfg.Match[i].ID+" has no expected entry", nil)
		}
	}
	for i := range cfg.Fallback {
		cfg.Fallback[i].Kind = KindFallback
	}
	return &cfg, nil
}

// Asker answers a question.
type Asker interface {
	Ask(ctx context.Context, question string) (*match.Result, error)
}

// TestResult captures the outcome of a single query.
type TestResult struct {
	Spec     QuerySpec     `json:"spec"`
	Passed   bool          `json:"passed"`
	Duration time.Duration `json:"duration_ns"`
	// Answered is the question of the confident entry, empty on fallback.
	Answered    string   `json:"answered,omitempty"`
	Score       float64  `json:"score"`
	Suggestions []string `json:"suggestions"`
	// MatchedAt is the rank of the expected entry among the suggestions, -1 if absent.
	MatchedAt int    `json:"matched_at"`
	Error     string `json:"error,omitempty"`
}

// Result captures a full validation run.
type Result struct {
	Timestamp     time.Time    `json:"timestamp"`
	Match         []TestResult `json:"match"`
	Fallback      []TestResult `json:"fallback"`
	MatchPass     int          `json:"match_pass"`
	MatchTotal    int          `json:"match_total"`
	FallbackPass  int          `json:"fallback_pass"`
	FallbackTotal int          `json:"fallback_total"`
}

// Passed returns the number of passing queries.
func (r *Result) Passed() int { return r.MatchPass + r.FallbackPass }

// Total returns the number of queries run.
func (r *Result) Total() int { return r.MatchTotal + r.FallbackTotal }

// PassRate returns the share of passing queries in percent. An empty run is 100.
func (r *Result) PassRate() float64 {
	if r.Total() == 0 {
		return 100
	}
	return float64(r.Passed()) / float64(r.Total()) * 100
}

// Validator runs validation queries against an engine.
type Validator struct {
	engine Asker
}

// NewValidator creates a validator.
func NewValidator(engine Asker) *Validator {
	return &Validator{engine: engine}
}

// RunQuery asks a single question and checks the outcome.
func (v *Validator) RunQuery(ctx context.Context, spec QuerySpec) TestResult {
	start := time.Now()
	result := TestResult{
		Spec:        spec,
		MatchedAt:   -1,
		Suggestions: []string{},
	}

	res, err := v.engine.Ask(ctx, spec.Question)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Score = res.Score
	if res.Best != nil && !res.Fallback {
		result.Answered = res.Best.Question
	}
	for i, s := range res.Suggestions {
		result.Suggestions = append(result.Suggestions, s.Entry.Question)
		if result.MatchedAt < 0 && spec.Expected != "" && sameQuestion(s.Entry.Question, spec.Expected) {
			result.MatchedAt = i
		}
	}

	switch spec.Kind {
	case KindFallback:
		result.Passed = res.Fallback && (spec.Expected == "" || result.MatchedAt >= 0)
	default:
		result.Passed = !res.Fallback && sameQuestion(result.Answered, spec.Expected)
	}
	return result
}

// RunAll executes every query in cfg.
func (v *Validator) RunAll(ctx context.Context, cfg *QueryConfig) *Result {
	result := &Result{
		Timestamp: time.Now(),
		Match:     []TestResult{},
		Fallback:  []TestResult{},
	}

	for _, spec := range cfg.Match {
		tr := v.RunQuery(ctx, spec)
		result.Match = append(result.Match, tr)
		result.MatchTotal++
		if tr.Passed {
			result.MatchPass++
		}
	}

	for _, spec := range cfg.Fallback {
		tr := v.RunQuery(ctx, spec)
		result.Fallback = append(result.Fallback, tr)
		result.FallbackTotal++
		if tr.Passed {
			result.FallbackPass++
		}
	}

	return result
}

// sameQuestion compares questions ignoring case and spacing.
func sameQuestion(a, b string) bool {
	norm := func(s string) string { return strings.ToLower(strings.Join(strings.Fields(s), " ")) }
	return norm(a) != "" && norm(a) == norm(b)
}
