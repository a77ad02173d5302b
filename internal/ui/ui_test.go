package ui

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/faqmatch/internal/faq"
	"github.com/Aman-CERP/faqmatch/internal/match"
	"github.com/Aman-CERP/faqmatch/internal/search"
)

var msgs = Messages{Fallback: "Not sure.", Unavailable: "No data."}

func matched() *match.Result {
	best := faq.Entry{Question: "What is the application deadline?", Answer: "March 1st."}
	return &match.Result{
		Best:      &best,
		BestIndex: 0,
		Score:     0.62,
		Suggestions: []match.Suggestion{
			{Index: 0, Entry: best, Score: 0.62},
			{Index: 1, Entry: faq.Entry{Question: "How much is tuition?", Answer: "$20,000."}, Score: 0.1},
		},
	}
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(nil))
	assert.False(t, IsTTY(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTTY(f))
}

func TestDetectNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, DetectNoColor())
}

func TestDetectCI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.True(t, DetectCI())
	assert.False(t, Interactive(&bytes.Buffer{}))
}

func TestNoColorStyles_RenderPlainText(t *testing.T) {
	styles := NoColorStyles()
	assert.Equal(t, "Test", styles.Header.Render("Test"))
	assert.Equal(t, "Test", styles.Warning.Render("Test"))
}

func TestDefaultStyles_HeaderContainsText(t *testing.T) {
	assert.Contains(t, DefaultStyles().Header.Render("Test"), "Test")
}

func TestNewAnswer(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		a := NewAnswer("deadline?", matched(), msgs)
		assert.Equal(t, "March 1st.", a.Answer)
		assert.Equal(t, "What is the application deadline?", a.Question)
		assert.Equal(t, 0, a.Index)
		assert.Len(t, a.Suggestions, 2)
	})

	t.Run("fallback", func(t *testing.T) {
		res := matched()
		res.Best, res.BestIndex, res.Fallback = nil, -1, true
		a := NewAnswer("zeppelin", res, msgs)
		assert.Equal(t, "Not sure.", a.Answer)
		assert.Empty(t, a.Question)
		assert.Equal(t, -1, a.Index)
	})

	t.Run("unavailable", func(t *testing.T) {
		a := NewAnswer("x", match.Unavailable(), msgs)
		assert.Equal(t, "No data.", a.Answer)
		assert.True(t, a.Unavailable)
		assert.NotNil(t, a.Suggestions)
	})
}

func TestTextRenderer(t *testing.T) {
	// Given: a text renderer writing to a buffer (never a TTY)
	buf := &bytes.Buffer{}
	r, err := NewRenderer(buf, FormatText)
	require.NoError(t, err)

	// When: rendering a matched answer
	require.NoError(t, r.Answer(NewAnswer("deadline?", matched(), msgs)))

	// Then: the plain output has the question, answer and related entries only
	out := buf.String()
	assert.Contains(t, out, "What is the application deadline? (0.62)\n")
	assert.Contains(t, out, "March 1st.\n")
	assert.Contains(t, out, "Related questions:")
	assert.Contains(t, out, "- How much is tuition? (0.10)")
	assert.NotContains(t, out, "\x1b[")
}

func TestTextRenderer_FallbackListsAllSuggestions(t *testing.T) {
	res := matched()
	res.Best, res.BestIndex, res.Fallback = nil, -1, true

	out := RenderAnswer(NewAnswer("q", res, msgs), NoColorStyles())
	assert.Contains(t, out, "Not sure.\n")
	assert.Contains(t, out, "- What is the application deadline?")
	assert.Contains(t, out, "- How much is tuition?")
}

func TestTextRenderer_Lists(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := NewRenderer(buf, "")
	require.NoError(t, err)

	require.NoError(t, r.Hits("zeppelin", nil))
	assert.Contains(t, buf.String(), `No FAQs match "zeppelin"`)

	buf.Reset()
	require.NoError(t, r.Hits("fees", []search.Hit{{Index: 2, Entry: faq.Entry{Question: "Fees?", Answer: "Low."}, Score: 1.25}}))
	assert.Contains(t, buf.String(), " 1. Fees? (1.25)")

	buf.Reset()
	require.NoError(t, r.Entries([]faq.Entry{{Question: "Q?", Answer: "A."}}))
	assert.Contains(t, buf.String(), "  0. Q?\n    A.")

	buf.Reset()
	require.NoError(t, r.Problems(nil))
	assert.Contains(t, buf.String(), "No problems found")

	buf.Reset()
	require.NoError(t, r.Problems([]faq.Problem{{Index: 1, Message: "blank answer"}}))
	assert.Contains(t, buf.String(), "entry 1: blank answer")
	assert.Contains(t, buf.String(), "1 problem\n")
}

func TestJSONRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	r, err := NewRenderer(buf, FormatJSON)
	require.NoError(t, err)

	require.NoError(t, r.Answer(NewAnswer("deadline?", matched(), msgs)))
	var a Answer
	require.NoError(t, json.Unmarshal(buf.Bytes(), &a))
	assert.Equal(t, "March 1st.", a.Answer)
	assert.Equal(t, "deadline?", a.Asked)

	buf.Reset()
	require.NoError(t, r.Entries(nil))
	assert.JSONEq(t, `[]`, buf.String())

	buf.Reset()
	require.NoError(t, r.Hits("x", nil))
	assert.JSONEq(t, `{"query":"x","hits":[]}`, buf.String())
}

func TestNewRenderer_UnknownFormat(t *testing.T) {
	_, err := NewRenderer(&bytes.Buffer{}, "xml")
	assert.Error(t, err)
}

func TestPrinter(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinter(buf)

	p.Success("Added entry")
	p.Warningf("%d problems", 2)
	p.Error("Failed")
	p.Infof("path: %s", "faqs.json")

	out := buf.String()
	assert.Contains(t, out, "✅ Added entry")
	assert.Contains(t, out, "⚠️  2 problems")
	assert.Contains(t, out, "❌ Failed")
	assert.Contains(t, out, "   path: faqs.json")
}
