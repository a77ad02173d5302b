package index

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/faq"
)

func admissions() []faq.Entry {
	return []faq.Entry{
		{Question: "What is the application deadline?", Answer: "March 1st."},
		{Question: "What is the tuition cost?", Answer: "$20,000/year."},
	}
}

func TestAnalyzer_Tokens(t *testing.T) {
	a := NewAnalyzer()

	// Stop words, single letters and punctuation are dropped; case folded
	got := a.Tokens("What is the Application-Deadline? A b X 1st")
	assert.Equal(t, []string{"application", "deadline", "1st"}, got)
}

func TestAnalyzer_Terms_NgramsInOrder(t *testing.T) {
	a := NewAnalyzer(WithNgramRange(1, 3))

	got := a.Terms("campus hostel fees")
	assert.Equal(t, []string{
		"campus", "hostel", "fees",
		"campus hostel", "hostel fees",
		"campus hostel fees",
	}, got)
}

func TestAnalyzer_NgramsSpanRemovedStopWords(t *testing.T) {
	// N-grams are built after stop-word removal
	a := NewAnalyzer(WithNgramRange(2, 2))
	assert.Equal(t, []string{"deadline apply"}, a.Terms("the deadline to apply"))
}

func TestAnalyzer_StopWordOptions(t *testing.T) {
	none := NewAnalyzer(WithStopWords(StopWordsNone), WithNgramRange(1, 1))
	assert.Equal(t, []string{"what", "is", "the", "fee"}, none.Terms("What is the fee"))

	extra := NewAnalyzer(WithStopWords(StopWordsEnglish, "College", " fee "), WithNgramRange(1, 1))
	assert.Equal(t, []string{"hostel"}, extra.Terms("the college hostel fee"))
}

func TestAnalyzer_ClampsNgramRange(t *testing.T) {
	a := NewAnalyzer(WithNgramRange(0, -1))
	min, max := a.NgramRange()
	assert.Equal(t, 1, min)
	assert.Equal(t, 1, max)
}

func TestBuild_VocabularySortedWithSmoothedIDF(t *testing.T) {
	// Given: two documents sharing one term
	ix := Build([]faq.Entry{
		{Question: "alpha", Answer: "beta"},
		{Question: "alpha", Answer: "gamma"},
	}, WithNgramRange(1, 1))

	// Then: terms are sorted and idf = ln((1+n)/(1+df)) + 1
	vocab := ix.Vocabulary()
	require.NotNil(t, vocab)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, vocab.Terms())
	assert.True(t, sort.StringsAreSorted(vocab.Terms()))

	assert.InDelta(t, 1.0, vocab.IDF(0), 1e-12)
	assert.InDelta(t, math.Log(3.0/2.0)+1, vocab.IDF(1), 1e-12)

	i, ok := vocab.Lookup("gamma")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, "gamma", vocab.Term(i))
}

func TestBuild_VectorsAreNormalisedAndConsistent(t *testing.T) {
	ix := Build(admissions())
	require.True(t, ix.Available())
	require.Equal(t, 2, ix.Len())

	dim := ix.Vocabulary().Len()
	for i := 0; i < ix.Len(); i++ {
		v := ix.Vector(i)
		assert.Equal(t, dim, v.Dim)
		assert.InDelta(t, 1.0, v.Norm(), 1e-12)
		assert.True(t, sort.IntsAreSorted(v.Indices))
	}

	q := ix.Project("When is the deadline to apply?")
	assert.Equal(t, dim, q.Dim)
	q = ix.Project("completely unrelated words")
	assert.Equal(t, dim, q.Dim)
	assert.True(t, q.IsZero())
}

func TestBuild_AdmissionsExampleScores(t *testing.T) {
	// With the English stop list only "deadline" survives in the vocabulary,
	// and entry 0 has nine equally weighted terms.
	ix := Build(admissions())
	q := ix.Project("When is the deadline to apply?")

	assert.InDelta(t, 1.0/3.0, Cosine(q, ix.Vector(0)), 1e-12)
	assert.Equal(t, 0.0, Cosine(q, ix.Vector(1)))
}

func TestBuild_TermCountsWeighVectors(t *testing.T) {
	ix := Build([]faq.Entry{
		{Question: "fees fees fees", Answer: "hostel"},
		{Question: "library", Answer: ""},
	}, WithNgramRange(1, 1))

	v := ix.Vector(0)
	vocab := ix.Vocabulary()
	fees, _ := vocab.Lookup("fees")
	hostel, _ := vocab.Lookup("hostel")

	weights := map[int]float64{}
	for k, i := range v.Indices {
		weights[i] = v.Values[k]
	}
	assert.InDelta(t, 3.0, weights[fees]/weights[hostel], 1e-12)
}

func TestBuild_EmptyCorpus(t *testing.T) {
	ix := Build(nil)

	assert.False(t, ix.Available())
	assert.Equal(t, 0, ix.Len())
	assert.Nil(t, ix.Vocabulary())
	assert.Equal(t, SparseVector{}, ix.Project("anything"))
}

func TestBuild_CorpusWithoutTerms(t *testing.T) {
	ix := Build([]faq.Entry{{Question: "the", Answer: "a"}, {}})

	require.True(t, ix.Available())
	assert.Equal(t, 0, ix.Vocabulary().Len())
	assert.True(t, ix.Vector(0).IsZero())
	assert.True(t, ix.Project("the what").IsZero())
}

func TestBuild_CopiesInput(t *testing.T) {
	entries := admissions()
	ix := Build(entries)
	entries[0].Question = "mutated"

	assert.Equal(t, "What is the application deadline?", ix.Entry(0).Question)
	got := ix.Entries()
	got[1].Answer = "mutated"
	assert.Equal(t, "$20,000/year.", ix.Entry(1).Answer)
}

func TestBuild_Deterministic(t *testing.T) {
	a := Build(admissions())
	b := Build(admissions())

	assert.Equal(t, a.Vocabulary().Terms(), b.Vocabulary().Terms())
	for i := 0; i < a.Len(); i++ {
		assert.Equal(t, a.Vector(i), b.Vector(i))
	}
}

func TestFromVectors(t *testing.T) {
	vocab, err := NewVocabulary([]string{"a1", "b2"}, []float64{1, 1})
	require.NoError(t, err)

	entries := []faq.Entry{{Question: "x"}}
	good := SparseVector{Dim: 2, Indices: []int{0, 1}, Values: []float64{1, 2}}

	ix, err := FromVectors(entries, vocab, []SparseVector{good})
	require.NoError(t, err)
	assert.True(t, ix.Available())
	assert.Equal(t, good, ix.Vector(0))

	tests := []struct {
		name string
		vec  SparseVector
	}{
		{"wrong dim", SparseVector{Dim: 3, Indices: []int{0}, Values: []float64{1}}},
		{"index out of range", SparseVector{Dim: 2, Indices: []int{2}, Values: []float64{1}}},
		{"unsorted", SparseVector{Dim: 2, Indices: []int{1, 0}, Values: []float64{1, 1}}},
		{"length mismatch", SparseVector{Dim: 2, Indices: []int{0}, Values: nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromVectors(entries, vocab, []SparseVector{tt.vec})
			assert.Equal(t, apperrors.ErrCodeDimensionMismatch, apperrors.GetCode(err))
		})
	}

	_, err = FromVectors(entries, vocab, nil)
	assert.Equal(t, apperrors.ErrCodeDimensionMismatch, apperrors.GetCode(err))

	empty, err := FromVectors(nil, nil, nil)
	require.NoError(t, err)
	assert.False(t, empty.Available())
}

func TestNewVocabulary_Validation(t *testing.T) {
	_, err := NewVocabulary([]string{"b", "a"}, []float64{1, 1})
	assert.Error(t, err)
	_, err = NewVocabulary([]string{"a", "a"}, []float64{1, 1})
	assert.Error(t, err)
	_, err = NewVocabulary([]string{"a"}, nil)
	assert.Error(t, err)
}

func TestSparseVector_DotAndCosine(t *testing.T) {
	a := SparseVector{Dim: 5, Indices: []int{0, 2, 4}, Values: []float64{1, 2, 3}}
	b := SparseVector{Dim: 5, Indices: []int{1, 2, 4}, Values: []float64{5, 1, 1}}

	assert.Equal(t, 5.0, a.Dot(b))
	assert.Equal(t, a.Dot(b), b.Dot(a))
	assert.InDelta(t, 5.0/(math.Sqrt(14)*math.Sqrt(27)), Cosine(a, b), 1e-12)

	zero := SparseVector{Dim: 5}
	assert.True(t, zero.IsZero())
	assert.Equal(t, 0.0, Cosine(a, zero))
	assert.Equal(t, 0.0, Cosine(zero, zero))
}

func TestCosine_ClampedToUnitRange(t *testing.T) {
	v := SparseVector{Dim: 3, Indices: []int{0, 1, 2}, Values: []float64{0.1, 0.7, 0.3}}
	assert.LessOrEqual(t, Cosine(v, v), 1.0)
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-12)

	neg := SparseVector{Dim: 3, Indices: []int{0}, Values: []float64{-1}}
	pos := SparseVector{Dim: 3, Indices: []int{0}, Values: []float64{1}}
	assert.Equal(t, 0.0, Cosine(neg, pos))
}
