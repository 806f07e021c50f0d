package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/binarylab/projecthub/internal/profile"
	apiv1 "github.com/binarylab/projecthub/server/router/api/v1"
	"github.com/binarylab/projecthub/server/runner/rescan"
	"github.com/binarylab/projecthub/server/service/detection"
	"github.com/binarylab/projecthub/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer   *echo.Echo
	rescanRunner *rescan.Runner
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger())

	detectionService, err := detection.NewService(store, profile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create detection service")
	}

	apiv1.NewAPIV1Service(profile, store, detectionService).Register(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	return &Server{
		Profile:      profile,
		Store:        store,
		echoServer:   e,
		rescanRunner: rescan.NewRunner(store, detectionService),
	}, nil
}

// Start runs the HTTP server and the background re-scan runner. It blocks
// until the listener fails or is shut down.
func (s *Server) Start(ctx context.Context) error {
	go s.rescanRunner.Run(ctx)

	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "mode", s.Profile.Mode, "scorer", s.Profile.Scorer)
	if err := s.echoServer.Start(address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server shutdown complete")
}

// requestLogger logs one line per request. The request id comes from the
// RequestID middleware, which also echoes it back on the response so client
// and server logs correlate.
func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			slog.Info("http request",
				"request_id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	})
}
