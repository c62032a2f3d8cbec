package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/korpus-dev/korpus/internal/core/domain"
)

// Message is one turn of the caller's conversation history.
type Message struct {
	Role    string `json:"role" jsonschema:"the role of the message sender (e.g. user, assistant)"`
	Content string `json:"content" jsonschema:"the content of the message"`
}

// ContextInput is the input schema for the get_context tool.
type ContextInput struct {
	Messages         []Message         `json:"messages,omitempty" jsonschema:"the conversation history"`
	Query            string            `json:"query" jsonschema:"the current query to find context for"`
	MaxContextLength int               `json:"max_context_length,omitempty" jsonschema:"maximum length of context to return in bytes (default 1000)"`
	MetadataFilter   map[string]string `json:"metadata_filter,omitempty" jsonschema:"optional metadata filter, e.g. {\"space_key\": \"ENG\"}"`
}

// ContextOutput is the output schema for the get_context tool.
type ContextOutput struct {
	Context string                `json:"context"`
	Sources []domain.SourceRecord `json:"sources"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query          string            `json:"query" jsonschema:"the search query"`
	TopK           int               `json:"top_k,omitempty" jsonschema:"maximum number of results to return"`
	MetadataFilter map[string]string `json:"metadata_filter,omitempty" jsonschema:"optional metadata filter"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	Distance   float64 `json:"distance"`
	Similarity float64 `json:"similarity"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_context",
		Description: "Retrieve relevant wiki context for a query, assembled and length-bounded for prompting",
	}, s.handleGetContext)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the ingested wiki corpus and return ranked chunks with similarity scores",
	}, s.handleSearch)
}

// handleGetContext handles the get_context tool invocation.
// The conversation history is accepted for protocol compatibility; context
// selection uses only the query.
func (s *Server) handleGetContext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ContextInput,
) (*mcp.CallToolResult, ContextOutput, error) {
	resp, err := s.ports.Context.GetContext(ctx, input.Query, input.MaxContextLength, input.MetadataFilter)
	if err != nil {
		return nil, ContextOutput{}, sanitizeError("get_context", err)
	}

	return nil, ContextOutput{
		Context: resp.Context,
		Sources: resp.Sources,
	}, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.Retrieval.Search(ctx, input.Query, input.TopK, input.MetadataFilter)
	if err != nil {
		return nil, SearchOutput{}, sanitizeError("search", err)
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			ID:         results[i].ID,
			Title:      results[i].Metadata[domain.MetaTitle],
			URL:        results[i].Metadata[domain.MetaURL],
			Content:    results[i].Content,
			Distance:   results[i].Distance,
			Similarity: results[i].Similarity(),
		}
	}

	return nil, output, nil
}
