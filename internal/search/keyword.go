package search

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"

	"github.com/Aman-CERP/faqmatch/internal/faq"
)

// Keyword search limits.
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

// Hit is a keyword search result.
type Hit struct {
	Index int       `json:"index"`
	Entry faq.Entry `json:"entry"`
	Score float64   `json:"score"`
}

// KeywordIndex is an in-memory bleve index over question and answer text.
// It uses the stemming English analyzer, so "applications" finds "apply".
type KeywordIndex struct {
	index   bleve.Index
	entries []faq.Entry
}

type keywordDoc struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// docID is the entry position zero-padded so that bleve's string order on
// _id matches corpus order.
func docID(i int) string {
	return fmt.Sprintf("%08d", i)
}

// NewKeywordIndex indexes entries; document IDs are entry positions.
func NewKeywordIndex(entries []faq.Entry) (*KeywordIndex, error) {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create keyword index: %w", err)
	}

	batch := idx.NewBatch()
	for i, e := range entries {
		if err := batch.Index(docID(i), keywordDoc{Question: e.Question, Answer: e.Answer}); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("failed to index entry %d: %w", i, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("failed to execute batch: %w", err)
	}

	return &KeywordIndex{index: idx, entries: append([]faq.Entry(nil), entries...)}, nil
}

// Search returns entries matching query, best first. Equal scores keep corpus order.
func (k *KeywordIndex) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" || len(k.entries) == 0 {
		return []Hit{}, nil
	}
	limit = clampLimit(limit)

	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = limit
	// Ties are broken inside bleve so the cut at limit keeps the earliest entries.
	req.SortBy([]string{"-_score", "_id"})

	res, err := k.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		i, err := strconv.Atoi(h.ID)
		if err != nil || i < 0 || i >= len(k.entries) {
			continue
		}
		hits = append(hits, Hit{Index: i, Entry: k.entries[i], Score: h.Score})
	}
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].Index < hits[b].Index
	})
	return hits, nil
}

// Close releases the bleve index.
func (k *KeywordIndex) Close() error {
	return k.index.Close()
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultSearchLimit
	case limit > MaxSearchLimit:
		return MaxSearchLimit
	default:
		return limit
	}
}
