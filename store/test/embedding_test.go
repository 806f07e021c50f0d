package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binarylab/projecthub/store"
)

func TestTextEmbeddingStore(t *testing.T) {
	if getDriverFromEnv() != "postgres" {
		t.Skip("Text embedding tests only work with PostgreSQL + pgvector")
	}

	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	vector := make([]float32, 1024)
	for i := range vector {
		vector[i] = 0.1
	}

	upserted, err := ts.UpsertTextEmbedding(ctx, &store.TextEmbedding{
		ContentHash: "0f1e2d3c4b5a",
		Embedding:   vector,
		Model:       "text-embedding-3-small",
	})
	require.NoError(t, err)
	require.Greater(t, upserted.ID, int32(0))

	retrieved, err := ts.GetTextEmbedding(ctx, "0f1e2d3c4b5a", "text-embedding-3-small")
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	require.Equal(t, upserted.ID, retrieved.ID)
	require.Len(t, retrieved.Embedding, 1024)

	// Upsert for the same (hash, model) replaces the row.
	vector[0] = 0.9
	again, err := ts.UpsertTextEmbedding(ctx, &store.TextEmbedding{
		ContentHash: "0f1e2d3c4b5a",
		Embedding:   vector,
		Model:       "text-embedding-3-small",
	})
	require.NoError(t, err)
	require.Equal(t, upserted.ID, again.ID)
}
