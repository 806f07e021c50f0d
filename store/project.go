package store

import "context"

// ProjectStatus is the review state of a project submission.
type ProjectStatus string

const (
	ProjectStatusPending     ProjectStatus = "PENDING"
	ProjectStatusApproved    ProjectStatus = "APPROVED"
	ProjectStatusRejected    ProjectStatus = "REJECTED"
	ProjectStatusDuplicate   ProjectStatus = "DUPLICATE"
	ProjectStatusUnderReview ProjectStatus = "UNDER_REVIEW"
)

// Valid reports whether the status is one of the known states.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPending, ProjectStatusApproved, ProjectStatusRejected,
		ProjectStatusDuplicate, ProjectStatusUnderReview:
		return true
	}
	return false
}

// Project is one submitted project. Only APPROVED projects form the
// comparison corpus for duplicate detection.
type Project struct {
	ID                 int32
	UID                string
	CreatorID          int32
	Title              string
	Description        string
	Status             ProjectStatus
	IsFlaggedDuplicate bool
	CreatedTs          int64
	UpdatedTs          int64
}

// FindProject is the find condition for projects.
type FindProject struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Status    *ProjectStatus
	// ExcludeID removes one project from the result set.
	ExcludeID *int32
	Limit     *int
	Offset    *int
}

// UpdateProject is the update payload; nil fields are left unchanged.
type UpdateProject struct {
	ID                 int32
	Title              *string
	Description        *string
	Status             *ProjectStatus
	IsFlaggedDuplicate *bool
	UpdatedTs          *int64
}

// DeleteProject is the delete condition for projects.
type DeleteProject struct {
	ID int32
}

func (s *Store) CreateProject(ctx context.Context, create *Project) (*Project, error) {
	return s.driver.CreateProject(ctx, create)
}

func (s *Store) ListProjects(ctx context.Context, find *FindProject) ([]*Project, error) {
	return s.driver.ListProjects(ctx, find)
}

// GetProject returns the matching project, or nil when absent.
func (s *Store) GetProject(ctx context.Context, find *FindProject) (*Project, error) {
	if find.ID != nil {
		if cached, ok := s.projectCache.Get(projectCacheKey(*find.ID)); ok {
			return cached.(*Project), nil
		}
	}

	list, err := s.driver.ListProjects(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	project := list[0]
	s.projectCache.Set(projectCacheKey(project.ID), project)
	return project, nil
}

func (s *Store) UpdateProject(ctx context.Context, update *UpdateProject) error {
	if err := s.driver.UpdateProject(ctx, update); err != nil {
		return err
	}
	s.projectCache.Delete(projectCacheKey(update.ID))
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, delete *DeleteProject) error {
	if err := s.driver.DeleteProject(ctx, delete); err != nil {
		return err
	}
	s.projectCache.Delete(projectCacheKey(delete.ID))
	return nil
}
