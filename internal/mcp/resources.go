package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/faqmatch/internal/search"
	"github.com/Aman-CERP/faqmatch/internal/telemetry"
)

// Resource URIs.
const (
	EntriesURI = "faqmatch://entries"
	MetricsURI = "faqmatch://metrics"
)

// MetricsOutput is the JSON structure for the metrics resource.
type MetricsOutput struct {
	Corpus  search.Stats       `json:"corpus"`
	Queries telemetry.Snapshot `json:"queries"`
	// FallbackRate is the share of answered questions that fell back.
	FallbackRate float64 `json:"fallback_rate"`
}

func (s *Server) registerResources() {
	s.mcp.AddResource(
		&mcp.Resource{
			Name:        "entries",
			URI:         EntriesURI,
			Description: "All FAQ entries in file order",
			MIMEType:    "application/json",
		},
		s.handleEntriesResource,
	)
	s.mcp.AddResource(
		&mcp.Resource{
			Name:        "metrics",
			URI:         MetricsURI,
			Description: "Corpus statistics and question telemetry",
			MIMEType:    "application/json",
		},
		s.handleMetricsResource,
	)
}

func (s *Server) handleEntriesResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(EntriesURI, listOutput(s.engine.Entries()))
}

func (s *Server) handleMetricsResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	snap := s.engine.Metrics().Snapshot()
	return jsonResource(MetricsURI, MetricsOutput{
		Corpus:       s.engine.Stats(),
		Queries:      snap,
		FallbackRate: snap.FallbackRate(),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, MapError(err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(content),
			},
		},
	}, nil
}
