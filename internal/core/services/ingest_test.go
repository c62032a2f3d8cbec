package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	registrymem "github.com/korpus-dev/korpus/internal/adapters/driven/registry/memory"
	storemem "github.com/korpus-dev/korpus/internal/adapters/driven/vectorstore/memory"
	"github.com/korpus-dev/korpus/internal/chunker"
	"github.com/korpus-dev/korpus/internal/core/domain"
)

func newIngestFixture(t *testing.T) (*IngestService, *storemem.Store, *registrymem.Registry, *mockEmbedder) {
	t.Helper()

	ch, err := chunker.New(100, 10)
	require.NoError(t, err)

	embedder := newMockEmbedder()
	store := storemem.New()
	registry := registrymem.New()

	return NewIngestService(ch, embedder, store, registry), store, registry, embedder
}

func testDoc(id, content string) domain.Document {
	return domain.Document{
		ID:           id,
		Title:        "Title " + id,
		Content:      content,
		URL:          "https://wiki.example.com/display/ENG/" + id,
		SpaceKey:     "ENG",
		LastModified: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestIngest_StoresChunksWithMetadata(t *testing.T) {
	svc, store, registry, _ := newIngestFixture(t)
	ctx := context.Background()

	n, err := svc.Ingest(ctx, []domain.Document{testDoc("doc1", strings.Repeat("alpha beta. ", 30))})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Greater(t, count, 1)

	rec, err := store.Get(ctx, domain.ChunkID("doc1", 0))
	require.NoError(t, err)
	assert.Equal(t, "Title doc1", rec.Metadata[domain.MetaTitle])
	assert.Equal(t, "https://wiki.example.com/display/ENG/doc1", rec.Metadata[domain.MetaURL])
	assert.Equal(t, "ENG", rec.Metadata[domain.MetaSpaceKey])
	assert.Equal(t, "doc1", rec.Metadata[domain.MetaDocumentID])
	assert.Equal(t, "2025-03-01T10:00:00Z", rec.Metadata[domain.MetaLastModified])
	assert.Equal(t, "wiki", rec.Metadata[domain.MetaSource])

	saved, err := registry.Get(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, count, saved.ChunkCount)
	assert.NotEmpty(t, saved.ContentHash)
}

func TestIngest_SkipsUnchanged(t *testing.T) {
	svc, _, _, embedder := newIngestFixture(t)
	ctx := context.Background()

	doc := testDoc("doc1", "Some stable content.")

	n, err := svc.Ingest(ctx, []domain.Document{doc})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	embedCalls := len(embedder.calls)

	n, err = svc.Ingest(ctx, []domain.Document{doc})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, embedCalls, len(embedder.calls))
}

func TestIngest_ReingestRemovesStaleChunks(t *testing.T) {
	svc, store, registry, _ := newIngestFixture(t)
	ctx := context.Background()

	// Long document first, then a short revision
	n, err := svc.Ingest(ctx, []domain.Document{testDoc("doc1", strings.Repeat("first version text. ", 30))})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	before, err := store.Count(ctx)
	require.NoError(t, err)
	require.Greater(t, before, 1)

	n, err = svc.Ingest(ctx, []domain.Document{testDoc("doc1", "Short revision.")})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	after, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, after)

	rec, err := registry.Get(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ChunkCount)
}

func TestIngest_InvalidDocumentAbortsBatch(t *testing.T) {
	svc, store, _, _ := newIngestFixture(t)
	ctx := context.Background()

	docs := []domain.Document{
		{ID: "", Content: "no id"},
		testDoc("doc2", "Valid content."),
	}

	n, err := svc.Ingest(ctx, docs)
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var ingErr *domain.IngestError
	require.ErrorAs(t, err, &ingErr)

	// Nothing after the failing document was processed
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIngest_ContinueOnErrorCollects(t *testing.T) {
	svc, store, _, _ := newIngestFixture(t)
	svc.SetContinueOnError(true)
	ctx := context.Background()

	docs := []domain.Document{
		{ID: "bad1", Content: ""},
		testDoc("doc2", "Valid content."),
		{ID: "", Content: "no id"},
	}

	n, err := svc.Ingest(ctx, docs)
	require.Error(t, err)
	assert.Equal(t, 1, n)

	var ingErr *domain.IngestError
	require.ErrorAs(t, err, &ingErr)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngest_EmbedderFailure(t *testing.T) {
	svc, _, _, embedder := newIngestFixture(t)
	embedder.embedErr = errors.New("connection refused")
	ctx := context.Background()

	_, err := svc.Ingest(ctx, []domain.Document{testDoc("doc1", "Some content.")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbedding)

	var ingErr *domain.IngestError
	require.ErrorAs(t, err, &ingErr)
	assert.Equal(t, "doc1", ingErr.DocumentID)
}

func TestRemove(t *testing.T) {
	svc, store, registry, _ := newIngestFixture(t)
	ctx := context.Background()

	n, err := svc.Ingest(ctx, []domain.Document{testDoc("doc1", strings.Repeat("text to remove. ", 30))})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, svc.Remove(ctx, "doc1"))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = registry.Get(ctx, "doc1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemove_UnknownDocument(t *testing.T) {
	svc, _, _, _ := newIngestFixture(t)

	assert.NoError(t, svc.Remove(context.Background(), "never-ingested"))
}

func TestIngest_WithoutRegistry(t *testing.T) {
	ch, err := chunker.New(100, 10)
	require.NoError(t, err)

	embedder := newMockEmbedder()
	store := storemem.New()
	svc := NewIngestService(ch, embedder, store, nil)
	ctx := context.Background()

	doc := testDoc("doc1", "Some stable content.")

	n, err := svc.Ingest(ctx, []domain.Document{doc})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// No bookkeeping means no dedup: the same document embeds again.
	embedCalls := len(embedder.calls)
	n, err = svc.Ingest(ctx, []domain.Document{doc})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Greater(t, len(embedder.calls), embedCalls)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.NoError(t, svc.Remove(ctx, "doc1"))
}

func TestIngest_FileDocumentSourceTag(t *testing.T) {
	svc, store, _, _ := newIngestFixture(t)
	ctx := context.Background()

	doc := testDoc("notes.md", "Local file content.")
	doc.Type = "file"

	n, err := svc.Ingest(ctx, []domain.Document{doc})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	rec, err := store.Get(ctx, domain.ChunkID("notes.md", 0))
	require.NoError(t, err)
	assert.Equal(t, "file", rec.Metadata[domain.MetaSource])
}
