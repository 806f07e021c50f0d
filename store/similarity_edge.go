package store

import "context"

// SimilarityEdge is one weighted edge in the similarity graph: project
// (project_id) was found similar to an approved project
// (similar_project_id). At most one edge exists per ordered pair; re-detection
// replaces score and timestamp.
type SimilarityEdge struct {
	ID                    int32
	ProjectID             int32
	SimilarProjectID      int32
	TitleSimilarity       float64
	DescriptionSimilarity float64
	OverallSimilarity     float64
	Algorithm             string
	ComputedTs            int64
}

// FindSimilarityEdge is the find condition for similarity edges.
type FindSimilarityEdge struct {
	ProjectID        *int32
	SimilarProjectID *int32
	// MinOverall filters edges below the given overall similarity.
	MinOverall *float64
	Limit      *int
}

// DeleteSimilarityEdge removes all edges touching the given project, in
// either direction.
type DeleteSimilarityEdge struct {
	ProjectID int32
}

func (s *Store) UpsertSimilarityEdge(ctx context.Context, upsert *SimilarityEdge) (*SimilarityEdge, error) {
	return s.driver.UpsertSimilarityEdge(ctx, upsert)
}

// ListSimilarityEdges lists edges ordered by overall similarity descending.
func (s *Store) ListSimilarityEdges(ctx context.Context, find *FindSimilarityEdge) ([]*SimilarityEdge, error) {
	return s.driver.ListSimilarityEdges(ctx, find)
}

func (s *Store) DeleteSimilarityEdges(ctx context.Context, delete *DeleteSimilarityEdge) error {
	return s.driver.DeleteSimilarityEdges(ctx, delete)
}
