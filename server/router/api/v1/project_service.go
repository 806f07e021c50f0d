package v1

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/binarylab/projecthub/plugin/similarity"
	"github.com/binarylab/projecthub/store"
)

const maxFieldLength = 5000

type CreateProjectRequest struct {
	CreatorID   int32  `json:"creator_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ProjectResponse struct {
	ID                 int32               `json:"id"`
	UID                string              `json:"uid"`
	CreatorID          int32               `json:"creator_id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Status             store.ProjectStatus `json:"status"`
	IsFlaggedDuplicate bool                `json:"is_flagged_duplicate"`
	CreatedTs          int64               `json:"created_ts"`
	UpdatedTs          int64               `json:"updated_ts"`
}

type CreateProjectResponse struct {
	Project   *ProjectResponse         `json:"project"`
	Detection *similarity.DetectResult `json:"detection,omitempty"`
}

func convertProject(project *store.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:                 project.ID,
		UID:                project.UID,
		CreatorID:          project.CreatorID,
		Title:              project.Title,
		Description:        project.Description,
		Status:             project.Status,
		IsFlaggedDuplicate: project.IsFlaggedDuplicate,
		CreatedTs:          project.CreatedTs,
		UpdatedTs:          project.UpdatedTs,
	}
}

// CreateProject stores a submission and immediately runs duplicate detection
// against the approved corpus. The response carries the detection outcome so
// the submitter sees potential duplicates right away.
func (s *APIV1Service) CreateProject(c echo.Context) error {
	req := &CreateProjectRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and description are required")
	}
	if len([]rune(title)) > maxFieldLength || len([]rune(description)) > maxFieldLength {
		return echo.NewHTTPError(http.StatusBadRequest, "title or description too long")
	}
	if req.CreatorID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "creator_id is required")
	}

	ctx := c.Request().Context()
	project, err := s.Store.CreateProject(ctx, &store.Project{
		UID:         uuid.NewString(),
		CreatorID:   req.CreatorID,
		Title:       title,
		Description: description,
		Status:      store.ProjectStatusPending,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create project")
	}

	result, err := s.Detection.DetectForProject(ctx, project)
	if err != nil {
		// The submission is stored; detection failure must not lose it.
		slog.Error("duplicate detection failed for new project",
			"project_id", project.ID,
			"error", err)
		return c.JSON(http.StatusCreated, &CreateProjectResponse{
			Project: convertProject(project),
		})
	}

	if len(result.Matches) > 0 {
		// Refresh to pick up the duplicate flag set by the ledger.
		if flagged, err := s.Store.GetProject(ctx, &store.FindProject{ID: &project.ID}); err == nil && flagged != nil {
			project = flagged
		}
	}

	return c.JSON(http.StatusCreated, &CreateProjectResponse{
		Project:   convertProject(project),
		Detection: result,
	})
}

// ListProjects lists projects, optionally filtered by status or creator.
func (s *APIV1Service) ListProjects(c echo.Context) error {
	find := &store.FindProject{}

	if v := c.QueryParam("status"); v != "" {
		status := store.ProjectStatus(strings.ToUpper(v))
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
		}
		find.Status = &status
	}
	if v := c.QueryParam("creator_id"); v != "" {
		creatorID, err := parseID(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid creator_id")
		}
		find.CreatorID = &creatorID
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		find.Limit = &limit
	}

	projects, err := s.Store.ListProjects(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list projects")
	}

	list := make([]*ProjectResponse, 0, len(projects))
	for _, project := range projects {
		list = append(list, convertProject(project))
	}
	return c.JSON(http.StatusOK, list)
}

// GetProject returns one project by ID.
func (s *APIV1Service) GetProject(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid project id")
	}

	project, err := s.Store.GetProject(c.Request().Context(), &store.FindProject{ID: &id})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get project")
	}
	if project == nil {
		return echo.NewHTTPError(http.StatusNotFound, "project not found")
	}
	return c.JSON(http.StatusOK, convertProject(project))
}

func parseID(raw string) (int32, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return int32(id), nil
}
