package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/binarylab/projecthub/store"
)

// UpsertTextEmbedding inserts or updates a persisted embedding vector.
func (d *DB) UpsertTextEmbedding(ctx context.Context, upsert *store.TextEmbedding) (*store.TextEmbedding, error) {
	now := time.Now().Unix()
	if upsert.CreatedTs == 0 {
		upsert.CreatedTs = now
	}
	upsert.UpdatedTs = now

	stmt := `
		INSERT INTO text_embedding (content_hash, embedding, model, created_ts, updated_ts)
		VALUES (` + placeholders(5) + `)
		ON CONFLICT (content_hash, model)
		DO UPDATE SET
			embedding = EXCLUDED.embedding,
			updated_ts = EXCLUDED.updated_ts
		RETURNING id, created_ts, updated_ts
	`
	vector := pgvector.NewVector(upsert.Embedding)
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.ContentHash,
		vector,
		upsert.Model,
		upsert.CreatedTs,
		upsert.UpdatedTs,
	).Scan(&upsert.ID, &upsert.CreatedTs, &upsert.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert text embedding")
	}

	return upsert, nil
}

// ListTextEmbeddings lists persisted embedding vectors.
func (d *DB) ListTextEmbeddings(ctx context.Context, find *store.FindTextEmbedding) ([]*store.TextEmbedding, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ContentHash != nil {
		where, args = append(where, "content_hash = "+placeholder(len(args)+1)), append(args, *find.ContentHash)
	}
	if find.Model != nil {
		where, args = append(where, "model = "+placeholder(len(args)+1)), append(args, *find.Model)
	}

	query := `
		SELECT id, content_hash, embedding, model, created_ts, updated_ts
		FROM text_embedding
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list text embeddings")
	}
	defer rows.Close()

	list := []*store.TextEmbedding{}
	for rows.Next() {
		var embedding store.TextEmbedding
		var vector pgvector.Vector
		if err := rows.Scan(
			&embedding.ID,
			&embedding.ContentHash,
			&vector,
			&embedding.Model,
			&embedding.CreatedTs,
			&embedding.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan text embedding")
		}
		embedding.Embedding = vector.Slice()
		list = append(list, &embedding)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteTextEmbeddings removes all persisted vectors for a model, e.g. after
// switching embedding models.
func (d *DB) DeleteTextEmbeddings(ctx context.Context, model string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM text_embedding WHERE model = `+placeholder(1), model); err != nil {
		return errors.Wrap(err, "failed to delete text embeddings")
	}
	return nil
}
