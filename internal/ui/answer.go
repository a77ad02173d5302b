package ui

import (
	"github.com/Aman-CERP/faqmatch/internal/match"
)

// Answer is a match result as shown to a person: the canned message is
// already chosen for fallback and unavailable results.
type Answer struct {
	Asked       string       `json:"asked"`
	Answer      string       `json:"answer"`
	Question    string       `json:"question,omitempty"`
	Index       int          `json:"index"`
	Score       float64      `json:"score"`
	Suggestions []Suggestion `json:"suggestions"`
	Fallback    bool         `json:"fallback"`
	Unavailable bool         `json:"unavailable"`
}

// Suggestion is a ranked FAQ entry.
type Suggestion struct {
	Index    int     `json:"index"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
}

// Messages are the canned answers used when no entry is confident.
type Messages struct {
	Fallback    string
	Unavailable string
}

// NewAnswer converts a match result for display.
func NewAnswer(asked string, res *match.Result, msgs Messages) Answer {
	a := Answer{
		Asked:       asked,
		Index:       res.BestIndex,
		Score:       res.Score,
		Suggestions: make([]Suggestion, 0, len(res.Suggestions)),
		Fallback:    res.Fallback,
		Unavailable: res.Unavailable,
	}
	for _, s := range res.Suggestions {
		a.Suggestions = append(a.Suggestions, Suggestion{
			Index:    s.Index,
			Question: s.Entry.Question,
			Answer:   s.Entry.Answer,
			Score:    s.Score,
		})
	}
	switch {
	case res.Unavailable:
		a.Answer = msgs.Unavailable
	case res.Fallback:
		a.Answer = msgs.Fallback
	default:
		a.Answer = res.Best.Answer
		a.Question = res.Best.Question
	}
	return a
}
