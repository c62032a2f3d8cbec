package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korpus-dev/korpus/internal/core/ports/driving"
)

func statsRequest() *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uriScheme + "stats",
		},
	}
}

func TestServer_handleStatsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stats JSON", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Context:   &mockContextService{},
			Retrieval: &mockRetrievalService{},
			Stats: &mockStatsService{
				stats: driving.Stats{
					Records:        42,
					Documents:      7,
					EmbeddingModel: "nomic-embed-text",
					Dimensions:     768,
				},
			},
		})

		result, err := server.handleStatsResource(ctx, statsRequest())
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var stats driving.Stats
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &stats))
		assert.Equal(t, 42, stats.Records)
		assert.Equal(t, 7, stats.Documents)
		assert.Equal(t, "nomic-embed-text", stats.EmbeddingModel)
	})

	t.Run("missing stats service yields empty object", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Context:   &mockContextService{},
			Retrieval: &mockRetrievalService{},
		})

		result, err := server.handleStatsResource(ctx, statsRequest())
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "{}", result.Contents[0].Text)
	})
}
