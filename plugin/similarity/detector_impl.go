package similarity

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// DetectorConfig holds the per-detector defaults.
type DetectorConfig struct {
	// Threshold is the default minimum overall similarity for a match.
	Threshold float64
	// TopK is the default result bound; the ledger persists at most this
	// many edges per pass.
	TopK int
	// Concurrency bounds the candidate-scoring fan-out.
	Concurrency int64
}

// DefaultTopK bounds persistence when no other bound is configured.
const DefaultTopK = 5

type detector struct {
	corpus     CorpusProvider
	scorer     Scorer
	fallback   *LexicalScorer
	aggregator *Aggregator
	metrics    *Metrics
	cfg        DetectorConfig
}

// NewDetector creates a detector. The scorer is selected once per
// configuration, not per call; semantic scorers degrade to the lexical
// fallback when the incoming item's own embeddings cannot be produced.
func NewDetector(corpus CorpusProvider, scorer Scorer, aggregator *Aggregator, metrics *Metrics, cfg DetectorConfig) Detector {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &detector{
		corpus:     corpus,
		scorer:     scorer,
		fallback:   NewLexicalScorer(),
		aggregator: aggregator,
		metrics:    metrics,
		cfg:        cfg,
	}
}

// warmer is implemented by scorers that want the incoming item's fields
// embedded before any candidate scoring begins.
type warmer interface {
	Warm(ctx context.Context, texts ...string) error
}

func (d *detector) Detect(ctx context.Context, req *DetectRequest) (*DetectResult, error) {
	start := time.Now()
	result := &DetectResult{Algorithm: d.scorer.Algorithm()}

	title := Normalize(req.Title)
	description := Normalize(req.Description)
	if title == "" || description == "" {
		// Nothing to compare.
		result.LatencyMs = time.Since(start).Milliseconds()
		return result, nil
	}

	threshold := req.Threshold
	if threshold <= 0 {
		threshold = d.cfg.Threshold
	}
	topK := req.TopK
	if topK <= 0 {
		topK = d.cfg.TopK
	}

	candidates, err := d.corpus.ListApproved(ctx, req.ExcludeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusUnavailable, err)
	}
	if len(candidates) == 0 {
		result.LatencyMs = time.Since(start).Milliseconds()
		return result, nil
	}

	// The incoming item's embeddings must exist before the fan-out starts;
	// every candidate comparison depends on them. If they cannot be produced
	// the whole pass degrades to lexical scoring instead of failing:
	// finding nothing is less harmful than blocking submission.
	scorer := d.scorer
	if w, ok := scorer.(warmer); ok {
		if err := w.Warm(ctx, title, description); err != nil {
			slog.Warn("semantic scoring degraded to lexical for this pass",
				"error", err)
			d.metrics.RecordLexicalFallback()
			scorer = d.fallback
			result.Algorithm = AlgorithmLexical
			result.Degraded = true
		}
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		matches []MatchCandidate
		scanned int
		skipped int
		partial bool
	)

	sem := semaphore.NewWeighted(d.cfg.Concurrency)
	for _, candidate := range candidates {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Deadline hit; keep whatever has been computed so far.
			partial = true
			break
		}

		wg.Add(1)
		go func(candidate *Candidate) {
			defer wg.Done()
			defer sem.Release(1)

			titleSim, err := scorer.Score(ctx, title, candidate.Title)
			if err == nil {
				var descSim float64
				descSim, err = scorer.Score(ctx, description, candidate.Description)
				if err == nil {
					overall := d.aggregator.Aggregate(titleSim, descSim)
					mu.Lock()
					scanned++
					if overall >= threshold {
						matches = append(matches, MatchCandidate{
							Candidate: candidate,
							Score: Score{
								TitleSimilarity:       titleSim,
								DescriptionSimilarity: descSim,
								OverallSimilarity:     overall,
							},
						})
					}
					mu.Unlock()
					return
				}
			}

			mu.Lock()
			if ctx.Err() != nil {
				partial = true
			} else {
				// One bad candidate never aborts the pass.
				skipped++
			}
			mu.Unlock()
			if ctx.Err() == nil {
				d.metrics.RecordCandidateSkip()
				slog.Warn("skipping candidate in detection pass",
					"candidate_id", candidate.ID,
					"error", err)
			}
		}(candidate)
	}
	wg.Wait()

	if ctx.Err() != nil {
		partial = true
	}
	if partial {
		d.metrics.RecordPartialPass()
	}

	// Completion order of the fan-out is nondeterministic; order is imposed
	// here: overall similarity descending, candidate ID ascending on ties.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score.OverallSimilarity != matches[j].Score.OverallSimilarity {
			return matches[i].Score.OverallSimilarity > matches[j].Score.OverallSimilarity
		}
		return matches[i].Candidate.ID < matches[j].Candidate.ID
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	result.Matches = matches
	result.Scanned = scanned
	result.Skipped = skipped
	result.Partial = partial
	result.LatencyMs = time.Since(start).Milliseconds()
	return result, nil
}
