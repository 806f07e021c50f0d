// Package rescan re-runs duplicate detection over recently approved
// projects in the background, so late approvals still pick up the edges a
// submission-time pass could not see.
package rescan

import (
	"context"
	"log/slog"
	"time"

	"github.com/binarylab/projecthub/server/service/detection"
	"github.com/binarylab/projecthub/store"
)

type Runner struct {
	store     *store.Store
	detection *detection.Service
	interval  time.Duration
	batchSize int
}

// NewRunner creates a background re-scan runner.
func NewRunner(store *store.Store, detection *detection.Service) *Runner {
	return &Runner{
		store:     store,
		detection: detection,
		interval:  10 * time.Minute,
		batchSize: 20,
	}
}

// Run starts the background task.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.rescanApproved(ctx)
		case <-ctx.Done():
			slog.Info("rescan runner stopped")
			return
		}
	}
}

// RunOnce processes one batch (for manual trigger).
func (r *Runner) RunOnce(ctx context.Context) {
	r.rescanApproved(ctx)
}

func (r *Runner) rescanApproved(ctx context.Context) {
	status := store.ProjectStatusApproved
	projects, err := r.store.ListProjects(ctx, &store.FindProject{
		Status: &status,
		Limit:  &r.batchSize,
	})
	if err != nil {
		slog.Error("failed to list projects for rescan", "error", err)
		return
	}
	if len(projects) == 0 {
		return
	}

	rescanned := 0
	for _, project := range projects {
		select {
		case <-ctx.Done():
			slog.Info("rescan cancelled", "processed", rescanned, "total", len(projects))
			return
		default:
		}

		// ExcludeID keeps a project from matching itself; edge upserts make
		// the repeat passes idempotent.
		if _, err := r.detection.DetectForProject(ctx, project); err != nil {
			slog.Error("rescan detection failed", "project_id", project.ID, "error", err)
			continue
		}
		rescanned++
	}
	slog.Info("rescan pass finished", "rescanned", rescanned, "total", len(projects))
}
