package test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/binarylab/projecthub/store"
)

func createTestingProject(ctx context.Context, ts *store.Store, title, description string, status store.ProjectStatus) (*store.Project, error) {
	return ts.CreateProject(ctx, &store.Project{
		UID:         uuid.NewString(),
		CreatorID:   1,
		Title:       title,
		Description: description,
		Status:      status,
	})
}

func TestProjectStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	created, err := createTestingProject(ctx, ts, "Campus FAQ chatbot", "Answers student questions.", store.ProjectStatusPending)
	require.NoError(t, err)
	require.Greater(t, created.ID, int32(0))
	require.NotZero(t, created.CreatedTs)
	require.False(t, created.IsFlaggedDuplicate)

	found, err := ts.GetProject(ctx, &store.FindProject{ID: &created.ID})
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, "Campus FAQ chatbot", found.Title)
	require.Equal(t, store.ProjectStatusPending, found.Status)

	// Status update moves the project into the approved corpus.
	approved := store.ProjectStatusApproved
	err = ts.UpdateProject(ctx, &store.UpdateProject{ID: created.ID, Status: &approved})
	require.NoError(t, err)

	list, err := ts.ListProjects(ctx, &store.FindProject{Status: &approved})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, created.ID, list[0].ID)
}

func TestProjectStoreExcludeID(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	first, err := createTestingProject(ctx, ts, "first", "first description", store.ProjectStatusApproved)
	require.NoError(t, err)
	second, err := createTestingProject(ctx, ts, "second", "second description", store.ProjectStatusApproved)
	require.NoError(t, err)

	approved := store.ProjectStatusApproved
	list, err := ts.ListProjects(ctx, &store.FindProject{Status: &approved, ExcludeID: &first.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, second.ID, list[0].ID)
}

func TestProjectStoreFlagging(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	created, err := createTestingProject(ctx, ts, "flag me", "a duplicate submission", store.ProjectStatusPending)
	require.NoError(t, err)

	flagged := true
	err = ts.UpdateProject(ctx, &store.UpdateProject{ID: created.ID, IsFlaggedDuplicate: &flagged})
	require.NoError(t, err)

	found, err := ts.GetProject(ctx, &store.FindProject{ID: &created.ID})
	require.NoError(t, err)
	require.NotNil(t, found)
	require.True(t, found.IsFlaggedDuplicate)
}

func TestProjectStoreDeleteCascadesEdges(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	source, err := createTestingProject(ctx, ts, "source", "source description", store.ProjectStatusPending)
	require.NoError(t, err)
	target, err := createTestingProject(ctx, ts, "target", "target description", store.ProjectStatusApproved)
	require.NoError(t, err)

	_, err = ts.UpsertSimilarityEdge(ctx, &store.SimilarityEdge{
		ProjectID:             source.ID,
		SimilarProjectID:      target.ID,
		TitleSimilarity:       0.8,
		DescriptionSimilarity: 0.9,
		OverallSimilarity:     0.86,
		Algorithm:             "LEXICAL",
	})
	require.NoError(t, err)

	err = ts.DeleteProject(ctx, &store.DeleteProject{ID: target.ID})
	require.NoError(t, err)

	edges, err := ts.ListSimilarityEdges(ctx, &store.FindSimilarityEdge{ProjectID: &source.ID})
	require.NoError(t, err)
	require.Empty(t, edges, "deleting a project removes its edges in both directions")
}
