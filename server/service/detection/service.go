// Package detection wires the similarity engine to the store: it supplies the
// approved corpus, runs detection passes, persists the resulting edges, flags
// suspected duplicates and notifies the submitter.
package detection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/binarylab/projecthub/internal/profile"
	"github.com/binarylab/projecthub/plugin/ai"
	"github.com/binarylab/projecthub/plugin/similarity"
	"github.com/binarylab/projecthub/store"
)

// Service runs duplicate detection against the project store.
type Service struct {
	store    *store.Store
	profile  *profile.Profile
	detector similarity.Detector
	ledger   similarity.Ledger
	metrics  *similarity.Metrics
}

// NewService builds the detection pipeline from the profile: scorer,
// aggregator, detector and ledger over the given store.
func NewService(st *store.Store, p *profile.Profile) (*Service, error) {
	metrics := similarity.NewMetrics()

	aggregator, err := similarity.NewAggregator(p.TitleWeight, p.DescriptionWeight)
	if err != nil {
		return nil, err
	}

	var scorer similarity.Scorer
	if p.Scorer == "semantic" {
		provider, err := ai.NewEmbeddingService(ai.NewEmbeddingConfigFromProfile(p))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create embedding service")
		}
		var vectorStore similarity.VectorStore
		if p.PersistEmbeddings && p.Driver == "postgres" {
			vectorStore = &storeVectorStore{store: st, model: p.EmbeddingModel}
		}
		cache := similarity.NewEmbeddingCache(provider, vectorStore, metrics, similarity.EmbeddingCacheConfig{
			RetryBudget:    p.RetryBudget,
			PerCallTimeout: p.PerCallTimeout,
			Model:          p.EmbeddingModel,
		})
		scorer = similarity.NewSemanticScorer(cache)
	} else {
		scorer = similarity.NewLexicalScorer()
	}

	detector := similarity.NewDetector(
		&storeCorpus{store: st},
		scorer,
		aggregator,
		metrics,
		similarity.DetectorConfig{
			Threshold:   p.EffectiveThreshold(),
			TopK:        p.TopK,
			Concurrency: int64(p.DetectConcurrency),
		},
	)

	sink := &storeSink{store: st}
	return &Service{
		store:    st,
		profile:  p,
		detector: detector,
		ledger:   similarity.NewLedger(sink, sink),
		metrics:  metrics,
	}, nil
}

// Detect runs a detection pass without persisting anything.
func (s *Service) Detect(ctx context.Context, req *similarity.DetectRequest) (*similarity.DetectResult, error) {
	timeout := s.profile.DetectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.detector.Detect(ctx, req)
}

// DetectForProject runs detection for a stored project, persists the
// resulting edges, flags the project when matches exist and writes a
// duplicate warning notification for the submitter.
func (s *Service) DetectForProject(ctx context.Context, project *store.Project) (*similarity.DetectResult, error) {
	result, err := s.Detect(ctx, &similarity.DetectRequest{
		Title:       project.Title,
		Description: project.Description,
		ExcludeID:   &project.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Record(ctx, project.ID, result.Matches, result.Algorithm); err != nil {
		return nil, errors.Wrapf(err, "failed to record matches for project %d", project.ID)
	}

	// Notify once per project; re-scans of an already flagged project stay
	// silent.
	if len(result.Matches) > 0 && !project.IsFlaggedDuplicate {
		if _, err := s.store.CreateNotification(ctx, &store.Notification{
			UserID:    project.CreatorID,
			ProjectID: project.ID,
			Type:      store.NotificationTypeDuplicateWarning,
			Message:   fmt.Sprintf("%d similar project(s) found for %q", len(result.Matches), project.Title),
		}); err != nil {
			// The detection outcome stands even if the notification write fails.
			slog.Error("failed to create duplicate warning notification",
				"project_id", project.ID,
				"error", err)
		}
	}

	return result, nil
}

// MetricsSnapshot returns the current detection counters.
func (s *Service) MetricsSnapshot() similarity.Snapshot {
	return s.metrics.Snapshot()
}

// storeCorpus adapts the store to the detector's corpus interface. Only
// approved projects are eligible.
type storeCorpus struct {
	store *store.Store
}

func (c *storeCorpus) ListApproved(ctx context.Context, excludeID *int32) ([]*similarity.Candidate, error) {
	status := store.ProjectStatusApproved
	projects, err := c.store.ListProjects(ctx, &store.FindProject{
		Status:    &status,
		ExcludeID: excludeID,
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]*similarity.Candidate, 0, len(projects))
	for _, project := range projects {
		candidates = append(candidates, &similarity.Candidate{
			ID:          project.ID,
			Title:       project.Title,
			Description: project.Description,
		})
	}
	return candidates, nil
}

// storeSink adapts the store to the ledger's edge and flag interfaces.
type storeSink struct {
	store *store.Store
}

func (s *storeSink) PersistEdge(ctx context.Context, sourceID, targetID int32, score similarity.Score, algorithm similarity.Algorithm) error {
	_, err := s.store.UpsertSimilarityEdge(ctx, &store.SimilarityEdge{
		ProjectID:             sourceID,
		SimilarProjectID:      targetID,
		TitleSimilarity:       score.TitleSimilarity,
		DescriptionSimilarity: score.DescriptionSimilarity,
		OverallSimilarity:     score.OverallSimilarity,
		Algorithm:             string(algorithm),
	})
	return err
}

func (s *storeSink) MarkFlagged(ctx context.Context, itemID int32) error {
	flagged := true
	return s.store.UpdateProject(ctx, &store.UpdateProject{
		ID:                 itemID,
		IsFlaggedDuplicate: &flagged,
	})
}

// storeVectorStore adapts the text_embedding table to the embedding cache's
// optional cross-run persistence.
type storeVectorStore struct {
	store *store.Store
	model string
}

func (s *storeVectorStore) GetEmbedding(ctx context.Context, key, model string) ([]float32, error) {
	if model == "" {
		model = s.model
	}
	embedding, err := s.store.GetTextEmbedding(ctx, key, model)
	if err != nil {
		return nil, err
	}
	if embedding == nil {
		return nil, nil
	}
	return embedding.Embedding, nil
}

func (s *storeVectorStore) UpsertEmbedding(ctx context.Context, key, model string, vector []float32) error {
	if model == "" {
		model = s.model
	}
	_, err := s.store.UpsertTextEmbedding(ctx, &store.TextEmbedding{
		ContentHash: key,
		Embedding:   vector,
		Model:       model,
	})
	return err
}
