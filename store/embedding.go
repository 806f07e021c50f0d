package store

import "context"

// TextEmbedding is a persisted embedding vector keyed by content hash, so
// identical normalized text is embedded once across process restarts.
// PostgreSQL with pgvector only; purely an optimization layer.
type TextEmbedding struct {
	ID          int32
	ContentHash string // sha256 hex of the normalized text
	Embedding   []float32
	Model       string
	CreatedTs   int64
	UpdatedTs   int64
}

// FindTextEmbedding is the find condition for text embeddings.
type FindTextEmbedding struct {
	ContentHash *string
	Model       *string
}

func (s *Store) UpsertTextEmbedding(ctx context.Context, upsert *TextEmbedding) (*TextEmbedding, error) {
	return s.driver.UpsertTextEmbedding(ctx, upsert)
}

// GetTextEmbedding returns the stored embedding for the given content hash
// and model, or nil when absent.
func (s *Store) GetTextEmbedding(ctx context.Context, contentHash, model string) (*TextEmbedding, error) {
	list, err := s.driver.ListTextEmbeddings(ctx, &FindTextEmbedding{
		ContentHash: &contentHash,
		Model:       &model,
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) DeleteTextEmbeddings(ctx context.Context, model string) error {
	return s.driver.DeleteTextEmbeddings(ctx, model)
}
