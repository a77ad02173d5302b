package index

import (
	"fmt"
	"math"
	"sort"
)

// Vocabulary maps terms to dimensions and holds their inverse document
// frequencies. Dimension i is the i-th term in lexicographic order.
// A Vocabulary is read-only after construction.
type Vocabulary struct {
	terms  []string
	lookup map[string]int
	idf    []float64
}

// fitVocabulary collects the terms of every document and computes the
// smoothed idf ln((1+n)/(1+df)) + 1.
func fitVocabulary(docs [][]string) *Vocabulary {
	df := make(map[string]int)
	for _, terms := range docs {
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	lookup := make(map[string]int, len(terms))
	for i, t := range terms {
		lookup[t] = i
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	return &Vocabulary{terms: terms, lookup: lookup, idf: idf}
}

// NewVocabulary builds a Vocabulary from explicit terms and idf weights.
// Terms must be strictly ascending and idf must have one weight per term.
func NewVocabulary(terms []string, idf []float64) (*Vocabulary, error) {
	if len(terms) != len(idf) {
		return nil, fmt.Errorf("vocabulary has %d terms but %d idf weights", len(terms), len(idf))
	}
	lookup := make(map[string]int, len(terms))
	for i, t := range terms {
		if i > 0 && t <= terms[i-1] {
			return nil, fmt.Errorf("vocabulary terms must be strictly ascending at %d (%q)", i, t)
		}
		lookup[t] = i
	}
	return &Vocabulary{
		terms:  append([]string(nil), terms...),
		lookup: lookup,
		idf:    append([]float64(nil), idf...),
	}, nil
}

// Len returns the number of dimensions.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Lookup returns the dimension of term.
func (v *Vocabulary) Lookup(term string) (int, bool) {
	i, ok := v.lookup[term]
	return i, ok
}

// Term returns the term of dimension i.
func (v *Vocabulary) Term(i int) string {
	return v.terms[i]
}

// IDF returns the inverse document frequency of dimension i.
func (v *Vocabulary) IDF(i int) float64 {
	return v.idf[i]
}

// Terms returns a copy of all terms in dimension order.
func (v *Vocabulary) Terms() []string {
	return append([]string(nil), v.terms...)
}

// Vectorize weights the in-vocabulary terms by count × idf and L2-normalises
// the result. Unknown terms are ignored; no known terms yields the zero vector.
func (v *Vocabulary) Vectorize(terms []string) SparseVector {
	counts := make(map[int]int, len(terms))
	for _, t := range terms {
		if i, ok := v.lookup[t]; ok {
			counts[i]++
		}
	}

	vec := SparseVector{Dim: len(v.terms)}
	if len(counts) == 0 {
		return vec
	}

	vec.Indices = make([]int, 0, len(counts))
	for i := range counts {
		vec.Indices = append(vec.Indices, i)
	}
	sort.Ints(vec.Indices)

	vec.Values = make([]float64, len(vec.Indices))
	for k, i := range vec.Indices {
		vec.Values[k] = float64(counts[i]) * v.idf[i]
	}

	if norm := vec.Norm(); norm > 0 {
		for k := range vec.Values {
			vec.Values[k] /= norm
		}
	}
	return vec
}
