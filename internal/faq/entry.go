package faq

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Entry is one question/answer pair.
type Entry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Text is the document the matcher indexes for this entry.
func (e Entry) Text() string {
	return e.Question + " " + e.Answer
}

// entryFromMap builds an Entry from a decoded object.
// Missing keys and null become "", numbers and booleans keep their textual form,
// nested values become "".
func entryFromMap(m map[string]any) Entry {
	return Entry{
		Question: fieldString(m["question"]),
		Answer:   fieldString(m["answer"]),
	}
}

func fieldString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return ""
	}
}

// Problem is a data-quality finding reported by Check.
type Problem struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("entry %d: %s", p.Index, p.Message)
}

// Check reports entries that load fine but will match poorly: blank questions,
// blank answers and repeated questions. A clean corpus returns nil.
func Check(entries []Entry) []Problem {
	var problems []Problem
	seen := make(map[string]int, len(entries))

	for i, e := range entries {
		q := strings.ToLower(strings.Join(strings.Fields(e.Question), " "))
		if q == "" {
			problems = append(problems, Problem{Index: i, Message: "question is blank"})
		}
		if strings.TrimSpace(e.Answer) == "" {
			problems = append(problems, Problem{Index: i, Message: "answer is blank"})
		}
		if q == "" {
			continue
		}
		if first, ok := seen[q]; ok {
			problems = append(problems, Problem{
				Index:   i,
				Message: fmt.Sprintf("question duplicates entry %d", first),
			})
			continue
		}
		seen[q] = i
	}

	return problems
}
