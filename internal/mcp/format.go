package mcp

import (
	"fmt"
	"strings"

	"github.com/Aman-CERP/faqmatch/internal/search"
)

// FormatAnswer renders an ask_faq result as markdown.
func FormatAnswer(out AskOutput) string {
	var sb strings.Builder
	switch {
	case out.Unavailable:
		sb.WriteString(out.Answer)
		sb.WriteString("\n")
		return sb.String()
	case out.Fallback:
		fmt.Fprintf(&sb, "%s\n\n", out.Answer)
		if len(out.Suggestions) > 0 {
			sb.WriteString("## Related questions\n\n")
		}
	default:
		fmt.Fprintf(&sb, "**%s** (score: %.2f)\n\n%s\n\n", out.Question, out.Score, out.Answer)
		if len(out.Suggestions) > 1 {
			sb.WriteString("## See also\n\n")
		}
	}

	for i, sg := range out.Suggestions {
		if !out.Fallback && i == 0 {
			continue
		}
		fmt.Fprintf(&sb, "- %s (score: %.2f)\n", sg.Question, sg.Score)
	}
	return sb.String()
}

// FormatSearchResults renders keyword hits as markdown.
func FormatSearchResults(query string, hits []search.Hit) string {
	if len(hits) == 0 {
		return fmt.Sprintf("No FAQs found for \"%s\"", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## FAQs matching \"%s\"\n\n", query)
	fmt.Fprintf(&sb, "Found %d result", len(hits))
	if len(hits) != 1 {
		sb.WriteString("s")
	}
	sb.WriteString("\n\n")

	for i, h := range hits {
		fmt.Fprintf(&sb, "### %d. %s (score: %.2f)\n\n%s\n\n", i+1, h.Entry.Question, h.Score, h.Entry.Answer)
	}
	return sb.String()
}

// FormatEntries renders the FAQ list as markdown.
func FormatEntries(out ListOutput) string {
	if out.Total == 0 {
		return "No FAQ entries are loaded."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %d FAQ entries\n\n", out.Total)
	for _, e := range out.Entries {
		fmt.Fprintf(&sb, "%d. **%s** %s\n", e.Index+1, e.Question, e.Answer)
	}
	return sb.String()
}
