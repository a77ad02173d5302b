package index

import (
	"strings"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/length"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
)

// Stop-word list names.
const (
	StopWordsEnglish = "english"
	StopWordsNone    = "none"
)

// minTokenRunes drops single-character tokens such as "a" or stray digits.
const minTokenRunes = 2

// Analyzer turns text into matching terms: UAX#29 word tokens, lowercased,
// short tokens and stop words removed, then joined into contiguous n-grams.
// An Analyzer is immutable and safe for concurrent use.
type Analyzer struct {
	tokenizer analysis.Tokenizer
	filters   []analysis.TokenFilter
	ngramMin  int
	ngramMax  int
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*analyzerConfig)

type analyzerConfig struct {
	ngramMin  int
	ngramMax  int
	stopWords string
	extra     []string
}

// WithNgramRange sets the inclusive n-gram range. Defaults to 1..3.
func WithNgramRange(min, max int) AnalyzerOption {
	return func(c *analyzerConfig) {
		c.ngramMin, c.ngramMax = min, max
	}
}

// WithStopWords selects the base stop list ("english" or "none") and adds
// extra words to it.
func WithStopWords(list string, extra ...string) AnalyzerOption {
	return func(c *analyzerConfig) {
		c.stopWords = list
		c.extra = extra
	}
}

// NewAnalyzer creates an Analyzer. Out-of-range n-gram settings are clamped
// to at least unigrams.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	cfg := analyzerConfig{ngramMin: 1, ngramMax: 3, stopWords: StopWordsEnglish}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ngramMin < 1 {
		cfg.ngramMin = 1
	}
	if cfg.ngramMax < cfg.ngramMin {
		cfg.ngramMax = cfg.ngramMin
	}

	stopTokens := analysis.NewTokenMap()
	if !strings.EqualFold(cfg.stopWords, StopWordsNone) {
		_ = stopTokens.LoadBytes(en.EnglishStopWords)
	}
	for _, w := range cfg.extra {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			stopTokens.AddToken(w)
		}
	}

	return &Analyzer{
		tokenizer: unicode.NewUnicodeTokenizer(),
		filters: []analysis.TokenFilter{
			lowercase.NewLowerCaseFilter(),
			length.NewLengthFilter(minTokenRunes, 0),
			stop.NewStopTokensFilter(stopTokens),
		},
		ngramMin: cfg.ngramMin,
		ngramMax: cfg.ngramMax,
	}
}

// Tokens returns the filtered word tokens of text in order.
func (a *Analyzer) Tokens(text string) []string {
	stream := a.tokenizer.Tokenize([]byte(text))
	for _, f := range a.filters {
		stream = f.Filter(stream)
	}

	tokens := make([]string, 0, len(stream))
	for _, tok := range stream {
		tokens = append(tokens, string(tok.Term))
	}
	return tokens
}

// Terms returns every n-gram of text, with repeats, in order of n then position.
func (a *Analyzer) Terms(text string) []string {
	tokens := a.Tokens(text)

	var terms []string
	for n := a.ngramMin; n <= a.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// NgramRange returns the configured inclusive n-gram range.
func (a *Analyzer) NgramRange() (min, max int) {
	return a.ngramMin, a.ngramMax
}
