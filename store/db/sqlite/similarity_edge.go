package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/binarylab/projecthub/store"
)

// UpsertSimilarityEdge inserts or replaces the edge for an ordered
// (project_id, similar_project_id) pair.
func (d *DB) UpsertSimilarityEdge(ctx context.Context, upsert *store.SimilarityEdge) (*store.SimilarityEdge, error) {
	if upsert.ComputedTs == 0 {
		upsert.ComputedTs = time.Now().Unix()
	}

	stmt := `
		INSERT INTO similarity_edge (project_id, similar_project_id, title_similarity, description_similarity, overall_similarity, algorithm, computed_ts)
		VALUES (` + placeholders(7) + `)
		ON CONFLICT (project_id, similar_project_id)
		DO UPDATE SET
			title_similarity = EXCLUDED.title_similarity,
			description_similarity = EXCLUDED.description_similarity,
			overall_similarity = EXCLUDED.overall_similarity,
			algorithm = EXCLUDED.algorithm,
			computed_ts = EXCLUDED.computed_ts
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.ProjectID,
		upsert.SimilarProjectID,
		upsert.TitleSimilarity,
		upsert.DescriptionSimilarity,
		upsert.OverallSimilarity,
		upsert.Algorithm,
		upsert.ComputedTs,
	).Scan(&upsert.ID); err != nil {
		return nil, errors.Wrap(err, "failed to upsert similarity edge")
	}

	return upsert, nil
}

func (d *DB) ListSimilarityEdges(ctx context.Context, find *store.FindSimilarityEdge) ([]*store.SimilarityEdge, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ProjectID != nil {
		where, args = append(where, "project_id = "+placeholder(len(args)+1)), append(args, *find.ProjectID)
	}
	if find.SimilarProjectID != nil {
		where, args = append(where, "similar_project_id = "+placeholder(len(args)+1)), append(args, *find.SimilarProjectID)
	}
	if find.MinOverall != nil {
		where, args = append(where, "overall_similarity >= "+placeholder(len(args)+1)), append(args, *find.MinOverall)
	}

	query := `
		SELECT id, project_id, similar_project_id, title_similarity, description_similarity, overall_similarity, algorithm, computed_ts
		FROM similarity_edge
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY overall_similarity DESC, similar_project_id ASC
	`
	if find.Limit != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list similarity edges")
	}
	defer rows.Close()

	list := []*store.SimilarityEdge{}
	for rows.Next() {
		var edge store.SimilarityEdge
		if err := rows.Scan(
			&edge.ID,
			&edge.ProjectID,
			&edge.SimilarProjectID,
			&edge.TitleSimilarity,
			&edge.DescriptionSimilarity,
			&edge.OverallSimilarity,
			&edge.Algorithm,
			&edge.ComputedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan similarity edge")
		}
		list = append(list, &edge)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) DeleteSimilarityEdges(ctx context.Context, delete *store.DeleteSimilarityEdge) error {
	stmt := `DELETE FROM similarity_edge WHERE project_id = ` + placeholder(1) + ` OR similar_project_id = ` + placeholder(2)
	if _, err := d.db.ExecContext(ctx, stmt, delete.ProjectID, delete.ProjectID); err != nil {
		return errors.Wrap(err, "failed to delete similarity edges")
	}
	return nil
}
