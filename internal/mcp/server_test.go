package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/faqmatch/internal/config"
	"github.com/Aman-CERP/faqmatch/internal/faq"
	"github.com/Aman-CERP/faqmatch/internal/search"
	"github.com/Aman-CERP/faqmatch/internal/telemetry"
)

func campus() []faq.Entry {
	return []faq.Entry{
		{Question: "What is the application deadline?", Answer: "Applications close on March 1st."},
		{Question: "How much is tuition?", Answer: "Tuition is $20,000 per year."},
		{Question: "Is there a hostel on campus?", Answer: "Yes, hostel rooms are available for first-year students."},
		{Question: "Do you offer scholarships?", Answer: "Merit scholarships cover up to half of tuition."},
	}
}

func newTestServer(t *testing.T, entries []faq.Entry) *Server {
	t.Helper()
	e := search.New(search.WithMetrics(telemetry.NewMetrics()))
	t.Cleanup(func() { _ = e.Close() })
	if entries != nil {
		require.NoError(t, e.Load(context.Background(), entries))
	}
	s, err := NewServer(e, config.NewConfig())
	require.NoError(t, err)
	return s
}

func TestNewServer_RequiresEngine(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.Error(t, err)
}

func TestServer_Info(t *testing.T) {
	s := newTestServer(t, campus())

	name, _ := s.Info()
	assert.Equal(t, "faqmatch", name)

	names := make([]string, 0, 3)
	for _, tool := range s.ListTools() {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
	}
	assert.Equal(t, []string{"ask_faq", "search_faqs", "list_faqs"}, names)
}

func TestAskFAQ_Match(t *testing.T) {
	// Given: a server over the campus corpus
	s := newTestServer(t, campus())

	// When: asking about the deadline
	res, out, err := s.mcpAskHandler(context.Background(), nil, AskInput{Question: "When is the application deadline?"})

	// Then: the entry is returned with markdown text
	require.NoError(t, err)
	assert.False(t, out.Fallback)
	assert.Equal(t, "Applications close on March 1st.", out.Answer)
	assert.Equal(t, "What is the application deadline?", out.Question)
	assert.Len(t, out.Suggestions, 3)
	require.Len(t, res.Content, 1)
	assert.Contains(t, res.Content[0].(*mcp.TextContent).Text, "Applications close on March 1st.")
}

func TestAskFAQ_Fallback(t *testing.T) {
	s := newTestServer(t, campus())

	_, out, err := s.mcpAskHandler(context.Background(), nil, AskInput{Question: "zeppelin"})

	require.NoError(t, err)
	assert.True(t, out.Fallback)
	assert.False(t, out.Unavailable)
	assert.Equal(t, config.DefaultFallbackMessage, out.Answer)
	assert.Empty(t, out.Question)
	assert.Len(t, out.Suggestions, 3)
}

func TestAskFAQ_Unavailable(t *testing.T) {
	s := newTestServer(t, nil)

	_, out, err := s.mcpAskHandler(context.Background(), nil, AskInput{Question: "deadline"})

	require.NoError(t, err)
	assert.True(t, out.Unavailable)
	assert.Equal(t, config.DefaultUnavailableMessage, out.Answer)
	assert.NotNil(t, out.Suggestions)
	assert.Empty(t, out.Suggestions)
}

func TestAskFAQ_BlankQuestionIsInvalidParams(t *testing.T) {
	s := newTestServer(t, campus())

	for _, q := range []string{"", "   ", "\n\t"} {
		_, _, err := s.mcpAskHandler(context.Background(), nil, AskInput{Question: q})
		require.Error(t, err)
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrCodeInvalidParams, mcpErr.Code)
	}
}

func TestSearchFAQs(t *testing.T) {
	s := newTestServer(t, campus())

	res, out, err := s.mcpSearchHandler(context.Background(), nil, SearchInput{Query: "hostel", Limit: 2})
	require.NoError(t, err)
	require.NotEmpty(t, out.Results)
	assert.LessOrEqual(t, len(out.Results), 2)
	assert.Equal(t, 2, out.Results[0].Index)
	assert.Contains(t, res.Content[0].(*mcp.TextContent).Text, "Is there a hostel on campus?")

	_, _, err = s.mcpSearchHandler(context.Background(), nil, SearchInput{Query: " "})
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrCodeInvalidParams, mcpErr.Code)
}

func TestListFAQs(t *testing.T) {
	s := newTestServer(t, campus())

	_, out, err := s.mcpListHandler(context.Background(), nil, ListInput{})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Total)
	require.Len(t, out.Entries, 4)
	assert.Equal(t, 3, out.Entries[3].Index)
	assert.Equal(t, "Do you offer scholarships?", out.Entries[3].Question)

	empty := newTestServer(t, nil)
	res, out, err := empty.mcpListHandler(context.Background(), nil, ListInput{})
	require.NoError(t, err)
	assert.Zero(t, out.Total)
	assert.NotNil(t, out.Entries)
	assert.Equal(t, "No FAQ entries are loaded.", res.Content[0].(*mcp.TextContent).Text)
}

func TestResources(t *testing.T) {
	s := newTestServer(t, campus())
	_, _, err := s.mcpAskHandler(context.Background(), nil, AskInput{Question: "tuition"})
	require.NoError(t, err)

	t.Run("entries", func(t *testing.T) {
		res, err := s.handleEntriesResource(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, EntriesURI, res.Contents[0].URI)

		var out ListOutput
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &out))
		assert.Equal(t, 4, out.Total)
	})

	t.Run("metrics", func(t *testing.T) {
		res, err := s.handleMetricsResource(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "application/json", res.Contents[0].MIMEType)

		var out MetricsOutput
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &out))
		assert.Equal(t, int64(1), out.Queries.TotalQueries)
		assert.Equal(t, 4, out.Corpus.Entries)
	})
}

func TestServer_OverInMemoryTransport(t *testing.T) {
	// Given: a server connected to a client in memory
	s := newTestServer(t, campus())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	_, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	// When: listing tools
	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	// Then: all three tools are advertised
	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	assert.True(t, names["ask_faq"])
	assert.True(t, names["search_faqs"])
	assert.True(t, names["list_faqs"])

	// And: ask_faq answers
	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "ask_faq",
		Arguments: map[string]any{"question": "How much is tuition?"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	// And: resources can be read
	rr, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: EntriesURI})
	require.NoError(t, err)
	require.Len(t, rr.Contents, 1)
	assert.Contains(t, rr.Contents[0].Text, "hostel")
}
