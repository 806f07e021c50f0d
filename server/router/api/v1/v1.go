// Package v1 exposes the REST API.
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/binarylab/projecthub/internal/profile"
	"github.com/binarylab/projecthub/server/middleware"
	"github.com/binarylab/projecthub/server/service/detection"
	"github.com/binarylab/projecthub/store"
)

type APIV1Service struct {
	Profile   *profile.Profile
	Store     *store.Store
	Detection *detection.Service

	rateLimiter *middleware.RateLimiter
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, detection *detection.Service) *APIV1Service {
	return &APIV1Service{
		Profile:     profile,
		Store:       store,
		Detection:   detection,
		rateLimiter: middleware.NewRateLimiter(profile.DetectRateLimit),
	}
}

// Register attaches all API v1 routes to the given Echo instance.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	g := echoServer.Group("/api/v1")

	g.POST("/projects", s.CreateProject, s.rateLimiter.Middleware())
	g.GET("/projects", s.ListProjects)
	g.GET("/projects/:id", s.GetProject)
	g.GET("/projects/:id/similarities", s.ListProjectSimilarities)

	g.POST("/similarity/detect", s.DetectSimilarity, s.rateLimiter.Middleware())
	g.GET("/similarity/metrics", s.GetSimilarityMetrics)

	g.GET("/notifications", s.ListNotifications)
}
