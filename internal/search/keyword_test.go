package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/faqmatch/internal/faq"
)

func TestKeywordIndex_Stemming(t *testing.T) {
	// Given: a keyword index over the campus corpus
	k, err := NewKeywordIndex(campus())
	require.NoError(t, err)
	defer k.Close()

	// When: searching with a different word form
	hits, err := k.Search(context.Background(), "hostels", 10)

	// Then: the hostel entry is found
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, 2, hits[0].Index)
}

func TestKeywordIndex_BlankQuery(t *testing.T) {
	k, err := NewKeywordIndex(campus())
	require.NoError(t, err)
	defer k.Close()

	hits, err := k.Search(context.Background(), "  ", 10)
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestKeywordIndex_NoMatch(t *testing.T) {
	k, err := NewKeywordIndex(campus())
	require.NoError(t, err)
	defer k.Close()

	hits, err := k.Search(context.Background(), "zeppelin", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestKeywordIndex_Limit(t *testing.T) {
	entries := make([]faq.Entry, 60)
	for i := range entries {
		entries[i] = faq.Entry{Question: fmt.Sprintf("Parking question %d?", i), Answer: "Parking is free."}
	}
	k, err := NewKeywordIndex(entries)
	require.NoError(t, err)
	defer k.Close()

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, DefaultSearchLimit},
		{"negative", -3, DefaultSearchLimit},
		{"explicit", 4, 4},
		{"capped", 500, MaxSearchLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := k.Search(context.Background(), "parking", tt.limit)
			require.NoError(t, err)
			assert.Len(t, hits, tt.want)
		})
	}
}

func TestKeywordIndex_EqualScoresKeepCorpusOrder(t *testing.T) {
	entries := []faq.Entry{
		{Question: "Parking?", Answer: "Free."},
		{Question: "Parking?", Answer: "Free."},
		{Question: "Parking?", Answer: "Free."},
	}
	k, err := NewKeywordIndex(entries)
	require.NoError(t, err)
	defer k.Close()

	hits, err := k.Search(context.Background(), "parking", 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	for i, h := range hits {
		assert.Equal(t, i, h.Index)
	}
}

func TestKeywordIndex_LimitKeepsEarliestOfEqualScores(t *testing.T) {
	// Given: more identical entries than the limit, past index 9
	entries := make([]faq.Entry, 25)
	for i := range entries {
		entries[i] = faq.Entry{Question: "Is parking free?", Answer: "Yes."}
	}
	k, err := NewKeywordIndex(entries)
	require.NoError(t, err)
	defer k.Close()

	// When: searching with a small limit
	hits, err := k.Search(context.Background(), "parking", 3)
	require.NoError(t, err)

	// Then: the first entries in corpus order are returned
	require.Len(t, hits, 3)
	for i, h := range hits {
		assert.Equal(t, i, h.Index)
	}

	// And: the order holds across the single-digit boundary
	hits, err = k.Search(context.Background(), "parking", 12)
	require.NoError(t, err)
	require.Len(t, hits, 12)
	for i, h := range hits {
		assert.Equal(t, i, h.Index)
	}
}
