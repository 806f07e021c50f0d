package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binarylab/projecthub/store"
)

func TestSimilarityEdgeUpsert(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	source, err := createTestingProject(ctx, ts, "source", "source description", store.ProjectStatusPending)
	require.NoError(t, err)
	target, err := createTestingProject(ctx, ts, "target", "target description", store.ProjectStatusApproved)
	require.NoError(t, err)

	first, err := ts.UpsertSimilarityEdge(ctx, &store.SimilarityEdge{
		ProjectID:             source.ID,
		SimilarProjectID:      target.ID,
		TitleSimilarity:       0.73,
		DescriptionSimilarity: 0.70,
		OverallSimilarity:     0.71,
		Algorithm:             "LEXICAL",
		ComputedTs:            100,
	})
	require.NoError(t, err)
	require.Greater(t, first.ID, int32(0))

	// Re-detection replaces the edge in place.
	second, err := ts.UpsertSimilarityEdge(ctx, &store.SimilarityEdge{
		ProjectID:             source.ID,
		SimilarProjectID:      target.ID,
		TitleSimilarity:       0.88,
		DescriptionSimilarity: 0.91,
		OverallSimilarity:     0.90,
		Algorithm:             "SEMANTIC",
		ComputedTs:            200,
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "the (project, similar_project) pair is unique")

	edges, err := ts.ListSimilarityEdges(ctx, &store.FindSimilarityEdge{ProjectID: &source.ID})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	require.Equal(t, 0.90, edges[0].OverallSimilarity)
	require.Equal(t, "SEMANTIC", edges[0].Algorithm)
	require.Equal(t, int64(200), edges[0].ComputedTs)
}

func TestSimilarityEdgeOrderingAndFilter(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	source, err := createTestingProject(ctx, ts, "source", "source description", store.ProjectStatusPending)
	require.NoError(t, err)

	for i, overall := range []float64{0.72, 0.95, 0.81} {
		target, err := createTestingProject(ctx, ts, "target", "target description", store.ProjectStatusApproved)
		require.NoError(t, err)
		_, err = ts.UpsertSimilarityEdge(ctx, &store.SimilarityEdge{
			ProjectID:             source.ID,
			SimilarProjectID:      target.ID,
			TitleSimilarity:       overall,
			DescriptionSimilarity: overall,
			OverallSimilarity:     overall,
			Algorithm:             "LEXICAL",
			ComputedTs:            int64(i + 1),
		})
		require.NoError(t, err)
	}

	edges, err := ts.ListSimilarityEdges(ctx, &store.FindSimilarityEdge{ProjectID: &source.ID})
	require.NoError(t, err)
	require.Len(t, edges, 3)
	require.Equal(t, 0.95, edges[0].OverallSimilarity)
	require.Equal(t, 0.81, edges[1].OverallSimilarity)
	require.Equal(t, 0.72, edges[2].OverallSimilarity)

	minOverall := 0.80
	strong, err := ts.ListSimilarityEdges(ctx, &store.FindSimilarityEdge{ProjectID: &source.ID, MinOverall: &minOverall})
	require.NoError(t, err)
	require.Len(t, strong, 2)
}
