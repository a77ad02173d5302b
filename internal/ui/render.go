package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Aman-CERP/faqmatch/internal/faq"
	"github.com/Aman-CERP/faqmatch/internal/search"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Renderer writes command results.
type Renderer interface {
	Answer(a Answer) error
	Hits(query string, hits []search.Hit) error
	Entries(entries []faq.Entry) error
	Problems(problems []faq.Problem) error
}

// NewRenderer picks a renderer for format and w. Text output is styled only
// on interactive terminals without NO_COLOR.
func NewRenderer(w io.Writer, format string) (Renderer, error) {
	switch format {
	case FormatJSON:
		return &jsonRenderer{out: w}, nil
	case FormatText, "":
		noColor := !Interactive(w) || DetectNoColor()
		return &textRenderer{out: w, styles: GetStyles(noColor)}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (supported: text, json)", format)
	}
}

type textRenderer struct {
	out    io.Writer
	styles Styles
}

func (r *textRenderer) Answer(a Answer) error {
	_, err := io.WriteString(r.out, RenderAnswer(a, r.styles))
	return err
}

// RenderAnswer formats a single answer block.
func RenderAnswer(a Answer, st Styles) string {
	var sb strings.Builder
	switch {
	case a.Unavailable:
		fmt.Fprintf(&sb, "%s\n", st.Warning.Render(a.Answer))
		return sb.String()
	case a.Fallback:
		fmt.Fprintf(&sb, "%s\n", st.Warning.Render(a.Answer))
	default:
		fmt.Fprintf(&sb, "%s %s\n", st.Question.Render(a.Question), st.Score.Render(fmt.Sprintf("(%.2f)", a.Score)))
		fmt.Fprintf(&sb, "%s\n", st.Answer.Render(a.Answer))
	}

	related := a.Suggestions
	if !a.Fallback && len(related) > 0 {
		related = related[1:]
	}
	if len(related) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", st.Label.Render("Related questions:"))
		for _, s := range related {
			fmt.Fprintf(&sb, "  %s %s\n", st.Suggestion.Render("- "+s.Question), st.Dim.Render(fmt.Sprintf("(%.2f)", s.Score)))
		}
	}
	return sb.String()
}

func (r *textRenderer) Hits(query string, hits []search.Hit) error {
	if len(hits) == 0 {
		_, err := fmt.Fprintf(r.out, "No FAQs match %q\n", query)
		return err
	}
	var sb strings.Builder
	for i, h := range hits {
		fmt.Fprintf(&sb, "%s %s %s\n", r.styles.Label.Render(fmt.Sprintf("%2d.", i+1)), r.styles.Question.Render(h.Entry.Question), r.styles.Dim.Render(fmt.Sprintf("(%.2f)", h.Score)))
		fmt.Fprintf(&sb, "    %s\n", r.styles.Answer.Render(h.Entry.Answer))
	}
	_, err := io.WriteString(r.out, sb.String())
	return err
}

func (r *textRenderer) Entries(entries []faq.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(r.out, "No FAQ entries.")
		return err
	}
	var sb strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&sb, "%s %s\n    %s\n", r.styles.Label.Render(fmt.Sprintf("%3d.", i)), r.styles.Question.Render(e.Question), r.styles.Answer.Render(e.Answer))
	}
	_, err := io.WriteString(r.out, sb.String())
	return err
}

func (r *textRenderer) Problems(problems []faq.Problem) error {
	if len(problems) == 0 {
		_, err := fmt.Fprintln(r.out, r.styles.Success.Render("✅ No problems found"))
		return err
	}
	var sb strings.Builder
	for _, p := range problems {
		fmt.Fprintf(&sb, "%s %s\n", r.styles.Warning.Render("⚠️ "), p.String())
	}
	fmt.Fprintf(&sb, "%d problem", len(problems))
	if len(problems) != 1 {
		sb.WriteString("s")
	}
	sb.WriteString("\n")
	_, err := io.WriteString(r.out, sb.String())
	return err
}

type jsonRenderer struct {
	out io.Writer
}

func (r *jsonRenderer) encode(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *jsonRenderer) Answer(a Answer) error { return r.encode(a) }

func (r *jsonRenderer) Hits(query string, hits []search.Hit) error {
	if hits == nil {
		hits = []search.Hit{}
	}
	return r.encode(struct {
		Query string       `json:"query"`
		Hits  []search.Hit `json:"hits"`
	}{query, hits})
}

func (r *jsonRenderer) Entries(entries []faq.Entry) error {
	if entries == nil {
		entries = []faq.Entry{}
	}
	return r.encode(entries)
}

func (r *jsonRenderer) Problems(problems []faq.Problem) error {
	if problems == nil {
		problems = []faq.Problem{}
	}
	return r.encode(problems)
}
