// Package index builds the TF-IDF model of a FAQ corpus: a sorted vocabulary
// of word n-grams with smoothed idf weights, and one L2-normalised sparse
// vector per entry.
//
// An Index is immutable once built and is shared by concurrent queries
// without locking. Rebuilding produces a new Index.
package index

import (
	"fmt"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/faq"
)

// Index holds a corpus together with its vocabulary and entry vectors.
// vectors[i] belongs to entries[i].
type Index struct {
	entries  []faq.Entry
	analyzer *Analyzer
	vocab    *Vocabulary
	vectors  []SparseVector
}

// Build analyses every entry (question + " " + answer) and fits the model.
// An empty corpus yields an Index without a model; a corpus whose text has no
// usable terms yields a model with zero dimensions.
func Build(entries []faq.Entry, opts ...AnalyzerOption) *Index {
	ix := &Index{
		entries:  append([]faq.Entry(nil), entries...),
		analyzer: NewAnalyzer(opts...),
	}
	if len(entries) == 0 {
		return ix
	}

	docs := make([][]string, len(entries))
	for i, e := range entries {
		docs[i] = ix.analyzer.Terms(e.Text())
	}

	ix.vocab = fitVocabulary(docs)
	ix.vectors = make([]SparseVector, len(docs))
	for i, terms := range docs {
		ix.vectors[i] = ix.vocab.Vectorize(terms)
	}
	return ix
}

// FromVectors assembles an Index from a precomputed vocabulary and entry
// vectors, bypassing analysis of the entries. Queries are still projected
// with an analyzer built from opts.
//
// Every vector must have Dim equal to vocab.Len() and strictly ascending,
// in-range indices; otherwise ERR_402_DIMENSION_MISMATCH is returned.
func FromVectors(entries []faq.Entry, vocab *Vocabulary, vectors []SparseVector, opts ...AnalyzerOption) (*Index, error) {
	if len(entries) != len(vectors) {
		return nil, apperrors.New(apperrors.ErrCodeDimensionMismatch,
			fmt.Sprintf("%d entries but %d vectors", len(entries), len(vectors)), nil)
	}

	ix := &Index{
		entries:  append([]faq.Entry(nil), entries...),
		analyzer: NewAnalyzer(opts...),
	}
	if len(entries) == 0 {
		return ix, nil
	}
	if vocab == nil {
		return nil, apperrors.ValidationError("vocabulary is required for a non-empty corpus", nil)
	}

	for i, v := range vectors {
		if !v.valid(vocab.Len()) {
			return nil, apperrors.New(apperrors.ErrCodeDimensionMismatch,
				fmt.Sprintf("vector %d does not fit a %d-dimensional vocabulary", i, vocab.Len()), nil).
				WithDetail("dim", fmt.Sprint(v.Dim))
		}
	}

	ix.vocab = vocab
	ix.vectors = append([]SparseVector(nil), vectors...)
	return ix, nil
}

// Available reports whether the index has a model to match against.
// It is false exactly when the corpus is empty.
func (ix *Index) Available() bool {
	return ix != nil && ix.vocab != nil
}

// Len returns the number of entries.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Entry returns entry i.
func (ix *Index) Entry(i int) faq.Entry {
	return ix.entries[i]
}

// Entries returns a copy of all entries in corpus order.
func (ix *Index) Entries() []faq.Entry {
	if ix == nil {
		return nil
	}
	return append([]faq.Entry(nil), ix.entries...)
}

// Vector returns the vector of entry i.
func (ix *Index) Vector(i int) SparseVector {
	return ix.vectors[i]
}

// Vocabulary returns the model vocabulary, or nil when unavailable.
func (ix *Index) Vocabulary() *Vocabulary {
	return ix.vocab
}

// Analyzer returns the analyzer used for queries.
func (ix *Index) Analyzer() *Analyzer {
	return ix.analyzer
}

// Project maps text into the index's vector space. Terms the corpus never
// contained are ignored. Without a model the result is an empty vector.
func (ix *Index) Project(text string) SparseVector {
	if !ix.Available() {
		return SparseVector{}
	}
	return ix.vocab.Vectorize(ix.analyzer.Terms(text))
}
