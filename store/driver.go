package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Project model related methods.
	CreateProject(ctx context.Context, create *Project) (*Project, error)
	ListProjects(ctx context.Context, find *FindProject) ([]*Project, error)
	UpdateProject(ctx context.Context, update *UpdateProject) error
	DeleteProject(ctx context.Context, delete *DeleteProject) error

	// SimilarityEdge model related methods.
	UpsertSimilarityEdge(ctx context.Context, upsert *SimilarityEdge) (*SimilarityEdge, error)
	ListSimilarityEdges(ctx context.Context, find *FindSimilarityEdge) ([]*SimilarityEdge, error)
	DeleteSimilarityEdges(ctx context.Context, delete *DeleteSimilarityEdge) error

	// TextEmbedding model related methods. PostgreSQL with pgvector only;
	// the sqlite driver returns an explicit unsupported error.
	UpsertTextEmbedding(ctx context.Context, upsert *TextEmbedding) (*TextEmbedding, error)
	ListTextEmbeddings(ctx context.Context, find *FindTextEmbedding) ([]*TextEmbedding, error)
	DeleteTextEmbeddings(ctx context.Context, model string) error

	// Notification model related methods.
	CreateNotification(ctx context.Context, create *Notification) (*Notification, error)
	ListNotifications(ctx context.Context, find *FindNotification) ([]*Notification, error)
	UpdateNotification(ctx context.Context, update *UpdateNotification) error
}
