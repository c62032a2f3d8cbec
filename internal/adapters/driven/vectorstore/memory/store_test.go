package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korpus-dev/korpus/internal/core/domain"
)

func seedStore(t *testing.T) *Store {
	t.Helper()

	s := New()
	err := s.Upsert(context.Background(), []domain.StoredRecord{
		{ID: "doc1:0", Embedding: []float32{1, 0}, Content: "alpha", Metadata: map[string]string{"space_key": "ENG"}},
		{ID: "doc1:1", Embedding: []float32{0, 1}, Content: "beta", Metadata: map[string]string{"space_key": "ENG"}},
		{ID: "doc2:0", Embedding: []float32{1, 1}, Content: "gamma", Metadata: map[string]string{"space_key": "OPS"}},
	})
	require.NoError(t, err)
	return s
}

func TestStore_Query_OrdersByDistance(t *testing.T) {
	s := seedStore(t)

	results, err := s.Query(context.Background(), []float32{1, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "doc1:0", results[0].ID)
	assert.InDelta(t, 0, results[0].Distance, 1e-9)
	assert.Equal(t, "doc2:0", results[1].ID)
	assert.Equal(t, "doc1:1", results[2].ID)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Distance, results[i-1].Distance)
	}
}

func TestStore_Query_TiesBrokenByID(t *testing.T) {
	s := New()
	err := s.Upsert(context.Background(), []domain.StoredRecord{
		{ID: "b", Embedding: []float32{1, 0}},
		{ID: "a", Embedding: []float32{1, 0}},
		{ID: "c", Embedding: []float32{1, 0}},
	})
	require.NoError(t, err)

	for range 5 {
		results, err := s.Query(context.Background(), []float32{1, 0}, 3, nil)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "a", results[0].ID)
		assert.Equal(t, "b", results[1].ID)
		assert.Equal(t, "c", results[2].ID)
	}
}

func TestStore_Query_Filter(t *testing.T) {
	s := seedStore(t)

	results, err := s.Query(context.Background(), []float32{1, 0}, 10, map[string]string{"space_key": "OPS"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc2:0", results[0].ID)
}

func TestStore_Query_FewerThanTopK(t *testing.T) {
	s := seedStore(t)

	results, err := s.Query(context.Background(), []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestStore_Query_InvalidTopK(t *testing.T) {
	s := seedStore(t)

	_, err := s.Query(context.Background(), []float32{1, 0}, 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_Upsert_Replaces(t *testing.T) {
	s := seedStore(t)

	err := s.Upsert(context.Background(), []domain.StoredRecord{
		{ID: "doc1:0", Embedding: []float32{0, 1}, Content: "updated"},
	})
	require.NoError(t, err)

	r, err := s.Get(context.Background(), "doc1:0")
	require.NoError(t, err)
	assert.Equal(t, "updated", r.Content)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestStore_Delete(t *testing.T) {
	s := seedStore(t)

	err := s.Delete(context.Background(), []string{"doc1:0", "missing"})
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "doc1:0")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 0},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 1},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: 2},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 0}, want: 1},
		{name: "length mismatch", a: []float32{1}, b: []float32{1, 0}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineDistance(tt.a, tt.b), 1e-9)
		})
	}
}
