package mcp

import "github.com/Aman-CERP/faqmatch/internal/search"

// AskInput defines the input schema for the ask_faq tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the FAQ"`
}

// SuggestionOutput is a ranked FAQ entry.
type SuggestionOutput struct {
	Index    int     `json:"index" jsonschema:"position of the entry in the FAQ file"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score" jsonschema:"cosine similarity between 0 and 1"`
}

// AskOutput defines the output schema for the ask_faq tool.
type AskOutput struct {
	// Answer is the matched answer, or the fallback/unavailable message.
	Answer string `json:"answer"`
	// Question is the matched FAQ question; empty on fallback.
	Question    string             `json:"question,omitempty"`
	Score       float64            `json:"score"`
	Suggestions []SuggestionOutput `json:"suggestions"`
	Fallback    bool               `json:"fallback" jsonschema:"true when no entry was confident enough"`
	Unavailable bool               `json:"unavailable" jsonschema:"true when no FAQ data is loaded"`
}

// SearchInput defines the input schema for the search_faqs tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"keywords to look for in questions and answers"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 10, max 50"`
}

// SearchOutput defines the output schema for the search_faqs tool.
type SearchOutput struct {
	Results []search.Hit `json:"results"`
}

// ListInput defines the input schema for the list_faqs tool (no parameters).
type ListInput struct{}

// EntryOutput is one FAQ entry with its position.
type EntryOutput struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ListOutput defines the output schema for the list_faqs tool.
type ListOutput struct {
	Entries []EntryOutput `json:"entries"`
	Total   int           `json:"total"`
}
