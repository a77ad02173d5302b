package mcp

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/faqmatch/internal/config"
	"github.com/Aman-CERP/faqmatch/internal/faq"
	"github.com/Aman-CERP/faqmatch/internal/match"
	"github.com/Aman-CERP/faqmatch/internal/search"
	"github.com/Aman-CERP/faqmatch/internal/telemetry"
	"github.com/Aman-CERP/faqmatch/pkg/version"
)

// ServerName is the implementation name reported to clients.
const ServerName = "faqmatch"

// Engine is the subset of *search.Engine the MCP server needs.
type Engine interface {
	Ask(ctx context.Context, question string) (*match.Result, error)
	Search(ctx context.Context, query string, limit int) ([]search.Hit, error)
	Entries() []faq.Entry
	Stats() search.Stats
	Metrics() *telemetry.Metrics
}

// Server is the MCP server for faqmatch.
// It lets AI clients answer questions from the FAQ corpus.
type Server struct {
	mcp    *mcp.Server
	engine Engine
	config *config.Config
	logger *slog.Logger
}

// ToolInfo contains information about a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

var tools = []ToolInfo{
	{
		Name:        "ask_faq",
		Description: "Answer a question from the FAQ. Returns the best matching entry when it is confident, otherwise a fallback message with the closest questions.",
	},
	{
		Name:        "search_faqs",
		Description: "Keyword search over FAQ questions and answers. Use to browse related entries; ask_faq decides the answer.",
	},
	{
		Name:        "list_faqs",
		Description: "List every FAQ entry in file order.",
	},
}

// NewServer creates a new MCP server.
func NewServer(engine Engine, cfg *config.Config) (*Server, error) {
	if engine == nil {
		return nil, errors.New("search engine is required")
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}

	s := &Server{
		engine: engine,
		config: cfg,
		logger: slog.Default(),
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: version.Version,
		},
		nil,
	)

	s.registerTools()
	s.registerResources()
	return s, nil
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Info returns the server name and version.
func (s *Server) Info() (name, ver string) {
	return ServerName, version.Version
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	return append([]ToolInfo(nil), tools...)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[0].Name, Description: tools[0].Description}, s.mcpAskHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[1].Name, Description: tools[1].Description}, s.mcpSearchHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[2].Name, Description: tools[2].Description}, s.mcpListHandler)
	s.logger.Debug("MCP tools registered", slog.Int("count", len(tools)))
}

// mcpAskHandler is the MCP SDK handler for the ask_faq tool.
func (s *Server) mcpAskHandler(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (
	*mcp.CallToolResult,
	AskOutput,
	error,
) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, NewInvalidParamsError("question parameter is required and cannot be blank")
	}

	res, err := s.engine.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, MapError(err)
	}

	out := s.toAskOutput(res)
	return textResult(FormatAnswer(out)), out, nil
}

func (s *Server) toAskOutput(res *match.Result) AskOutput {
	out := AskOutput{
		Score:       res.Score,
		Suggestions: make([]SuggestionOutput, 0, len(res.Suggestions)),
		Fallback:    res.Fallback,
		Unavailable: res.Unavailable,
	}
	for _, sg := range res.Suggestions {
		out.Suggestions = append(out.Suggestions, SuggestionOutput{
			Index:    sg.Index,
			Question: sg.Entry.Question,
			Answer:   sg.Entry.Answer,
			Score:    sg.Score,
		})
	}

	switch {
	case res.Unavailable:
		out.Answer = s.config.Messages.Unavailable
	case res.Fallback:
		out.Answer = s.config.Messages.Fallback
	default:
		out.Answer = res.Best.Answer
		out.Question = res.Best.Question
	}
	return out
}

// mcpSearchHandler is the MCP SDK handler for the search_faqs tool.
func (s *Server) mcpSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, SearchOutput{}, NewInvalidParamsError("query parameter is required")
	}

	hits, err := s.engine.Search(ctx, query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, MapError(err)
	}
	return textResult(FormatSearchResults(query, hits)), SearchOutput{Results: hits}, nil
}

// mcpListHandler is the MCP SDK handler for the list_faqs tool.
func (s *Server) mcpListHandler(_ context.Context, _ *mcp.CallToolRequest, _ ListInput) (
	*mcp.CallToolResult,
	ListOutput,
	error,
) {
	out := listOutput(s.engine.Entries())
	return textResult(FormatEntries(out)), out, nil
}

func listOutput(entries []faq.Entry) ListOutput {
	out := ListOutput{Entries: make([]EntryOutput, len(entries)), Total: len(entries)}
	for i, e := range entries {
		out.Entries[i] = EntryOutput{Index: i, Question: e.Question, Answer: e.Answer}
	}
	return out
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// Serve runs the server over stdio until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("Starting MCP server", slog.String("transport", "stdio"))
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("MCP server stopped gracefully")
	return nil
}
