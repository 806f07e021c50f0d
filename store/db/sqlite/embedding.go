package sqlite

import (
	"context"

	"github.com/pkg/errors"

	"github.com/binarylab/projecthub/store"
)

// Vector persistence requires PostgreSQL with the pgvector extension.
// On SQLite the embedding cache simply runs without cross-run persistence.

// UpsertTextEmbedding is NOT supported for SQLite.
func (d *DB) UpsertTextEmbedding(ctx context.Context, upsert *store.TextEmbedding) (*store.TextEmbedding, error) {
	return nil, errors.New("text embedding (vector storage) requires PostgreSQL with pgvector extension")
}

// ListTextEmbeddings is NOT supported for SQLite.
func (d *DB) ListTextEmbeddings(ctx context.Context, find *store.FindTextEmbedding) ([]*store.TextEmbedding, error) {
	return nil, errors.New("text embedding (vector storage) requires PostgreSQL with pgvector extension")
}

// DeleteTextEmbeddings is NOT supported for SQLite.
func (d *DB) DeleteTextEmbeddings(ctx context.Context, model string) error {
	// Return nil (success) so cleanup paths work on both drivers.
	return nil
}
