package similarity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/binarylab/projecthub/plugin/ai"
)

// VectorStore is optional cross-run persistence for embedding vectors,
// keyed by content hash. Purely an optimization: correctness never depends
// on it and all its failures are absorbed.
type VectorStore interface {
	// GetEmbedding returns the stored vector, or nil without error on a miss.
	GetEmbedding(ctx context.Context, key, model string) ([]float32, error)
	UpsertEmbedding(ctx context.Context, key, model string, vector []float32) error
}

// EmbeddingCacheConfig configures retry and timeout behavior.
type EmbeddingCacheConfig struct {
	// RetryBudget is the total number of provider attempts per text (min 1).
	RetryBudget int
	// PerCallTimeout bounds a single provider call.
	PerCallTimeout time.Duration
	// BackoffBase is the first retry delay; subsequent delays double.
	BackoffBase time.Duration
	// Model is recorded alongside persisted vectors.
	Model string
}

// EmbeddingCache memoizes embedding vectors per normalized text and owns the
// retry/backoff policy for the provider. Within one detection pass the
// incoming item's title and description are embedded at most once each,
// no matter how large the corpus is.
//
// Safe for concurrent use; a race to populate the same key is idempotent
// (embeddings for the same text are deterministic, last write wins).
type EmbeddingCache struct {
	provider ai.EmbeddingService // nil when no credential is configured
	store    VectorStore         // optional
	metrics  *Metrics
	cfg      EmbeddingCacheConfig

	mu      sync.RWMutex
	vectors map[string][]float32
}

// NewEmbeddingCache creates a cache over the given provider. A nil provider
// is allowed; Embed then fails with ErrEmbeddingNotConfigured so callers can
// fall back to lexical scoring.
func NewEmbeddingCache(provider ai.EmbeddingService, store VectorStore, metrics *Metrics, cfg EmbeddingCacheConfig) *EmbeddingCache {
	if cfg.RetryBudget <= 0 {
		cfg.RetryBudget = 3
	}
	if cfg.PerCallTimeout <= 0 {
		cfg.PerCallTimeout = 10 * time.Second
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 500 * time.Millisecond
	}
	return &EmbeddingCache{
		provider: provider,
		store:    store,
		metrics:  metrics,
		cfg:      cfg,
		vectors:  make(map[string][]float32),
	}
}

// Configured reports whether a provider is present.
func (c *EmbeddingCache) Configured() bool {
	return c.provider != nil
}

// Size returns the number of memoized vectors.
func (c *EmbeddingCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}

// Embed returns the embedding vector for the given text, serving repeats from
// memory. The text is normalized before keying.
func (c *EmbeddingCache) Embed(ctx context.Context, text string) ([]float32, error) {
	key := Normalize(text)
	if key == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	c.mu.RLock()
	vector, ok := c.vectors[key]
	c.mu.RUnlock()
	if ok {
		c.metrics.RecordCacheHit()
		return vector, nil
	}
	c.metrics.RecordCacheMiss()

	if c.provider == nil {
		return nil, ErrEmbeddingNotConfigured
	}

	// Cross-run lookup is best effort.
	if c.store != nil {
		stored, err := c.store.GetEmbedding(ctx, hashKey(key), c.cfg.Model)
		if err != nil {
			slog.Warn("embedding store lookup failed", "error", err)
		} else if len(stored) > 0 {
			c.put(key, stored)
			return stored, nil
		}
	}

	vector, err := c.embedWithRetry(ctx, key)
	if err != nil {
		c.metrics.RecordEmbedFailure()
		return nil, err
	}

	c.put(key, vector)
	if c.store != nil {
		if err := c.store.UpsertEmbedding(ctx, hashKey(key), c.cfg.Model, vector); err != nil {
			slog.Warn("embedding store write failed", "error", err)
		}
	}
	return vector, nil
}

// Warm embeds the given texts up front. It fails on the first text that
// cannot be embedded; empty texts are skipped.
func (c *EmbeddingCache) Warm(ctx context.Context, texts ...string) error {
	for _, text := range texts {
		if Normalize(text) == "" {
			continue
		}
		if _, err := c.Embed(ctx, text); err != nil {
			return err
		}
	}
	return nil
}

func (c *EmbeddingCache) put(key string, vector []float32) {
	c.mu.Lock()
	c.vectors[key] = vector
	c.mu.Unlock()
}

// embedWithRetry calls the provider with exponential backoff on transient
// failures. Permanent failures (bad credential, malformed input) fail fast.
func (c *EmbeddingCache) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.RetryBudget; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.PerCallTimeout)
		vector, err := c.provider.Embed(callCtx, text)
		cancel()
		if err == nil {
			return vector, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, ctx.Err())
		}
		if !ai.IsTransient(err) {
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
		}

		if attempt < c.cfg.RetryBudget-1 {
			wait := time.Duration(math.Pow(2, float64(attempt))) * c.cfg.BackoffBase
			slog.Debug("embedding call failed, retrying",
				"attempt", attempt+1,
				"wait", wait,
				"error", err)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, ctx.Err())
			}
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, lastErr)
}

// hashKey derives a fixed-length storage key from normalized text.
func hashKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
