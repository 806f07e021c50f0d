package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/binarylab/projecthub/plugin/similarity"
	"github.com/binarylab/projecthub/store"
)

type DetectSimilarityRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Threshold   float64 `json:"threshold,omitempty"`
	TopK        int     `json:"top_k,omitempty"`
	ExcludeID   *int32  `json:"exclude_id,omitempty"`
}

// DetectSimilarity runs a detection pass without persisting anything. Short
// inputs are scored like any other; there is no minimum length.
func (s *APIV1Service) DetectSimilarity(c echo.Context) error {
	req := &DetectSimilarityRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and description are required")
	}
	if req.Threshold < 0 || req.Threshold > 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "threshold out of range [0,1]")
	}

	result, err := s.Detection.Detect(c.Request().Context(), &similarity.DetectRequest{
		Title:       req.Title,
		Description: req.Description,
		Threshold:   req.Threshold,
		TopK:        req.TopK,
		ExcludeID:   req.ExcludeID,
	})
	if err != nil {
		if errors.Is(err, similarity.ErrCorpusUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "corpus unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "detection failed")
	}
	return c.JSON(http.StatusOK, result)
}

type SimilarityMatchResponse struct {
	SimilarProjectID      int32   `json:"similar_project_id"`
	SimilarProjectTitle   string  `json:"similar_project_title,omitempty"`
	TitleSimilarity       float64 `json:"title_similarity"`
	DescriptionSimilarity float64 `json:"description_similarity"`
	OverallSimilarity     float64 `json:"overall_similarity"`
	Algorithm             string  `json:"algorithm"`
	ComputedTs            int64   `json:"computed_ts"`
}

// ListProjectSimilarities returns the persisted similarity edges of a
// project, strongest first.
func (s *APIV1Service) ListProjectSimilarities(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid project id")
	}

	ctx := c.Request().Context()
	project, err := s.Store.GetProject(ctx, &store.FindProject{ID: &id})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get project")
	}
	if project == nil {
		return echo.NewHTTPError(http.StatusNotFound, "project not found")
	}

	edges, err := s.Store.ListSimilarityEdges(ctx, &store.FindSimilarityEdge{ProjectID: &id})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list similarities")
	}

	list := make([]*SimilarityMatchResponse, 0, len(edges))
	for _, edge := range edges {
		match := &SimilarityMatchResponse{
			SimilarProjectID:      edge.SimilarProjectID,
			TitleSimilarity:       edge.TitleSimilarity,
			DescriptionSimilarity: edge.DescriptionSimilarity,
			OverallSimilarity:     edge.OverallSimilarity,
			Algorithm:             edge.Algorithm,
			ComputedTs:            edge.ComputedTs,
		}
		if similar, err := s.Store.GetProject(ctx, &store.FindProject{ID: &edge.SimilarProjectID}); err == nil && similar != nil {
			match.SimilarProjectTitle = similar.Title
		}
		list = append(list, match)
	}
	return c.JSON(http.StatusOK, list)
}

// GetSimilarityMetrics returns the detection counters.
func (s *APIV1Service) GetSimilarityMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Detection.MetricsSnapshot())
}

type NotificationResponse struct {
	ID        int32                  `json:"id"`
	UserID    int32                  `json:"user_id"`
	ProjectID int32                  `json:"project_id"`
	Type      store.NotificationType `json:"type"`
	Message   string                 `json:"message"`
	IsRead    bool                   `json:"is_read"`
	CreatedTs int64                  `json:"created_ts"`
}

// ListNotifications returns notifications for a user, newest first.
func (s *APIV1Service) ListNotifications(c echo.Context) error {
	userID, err := parseID(c.QueryParam("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	find := &store.FindNotification{UserID: &userID}
	if c.QueryParam("unread_only") == "true" {
		unread := false
		find.IsRead = &unread
	}

	notifications, err := s.Store.ListNotifications(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list notifications")
	}

	list := make([]*NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		list = append(list, &NotificationResponse{
			ID:        notification.ID,
			UserID:    notification.UserID,
			ProjectID: notification.ProjectID,
			Type:      notification.Type,
			Message:   notification.Message,
			IsRead:    notification.IsRead,
			CreatedTs: notification.CreatedTs,
		})
	}
	return c.JSON(http.StatusOK, list)
}
