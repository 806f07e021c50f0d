package similarity

import (
	"context"
	"crypto/sha256"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockEmbeddingService is a deterministic in-memory embedding provider.
type mockEmbeddingService struct {
	embedFunc  func(ctx context.Context, text string) ([]float32, error)
	dimensions int
	callCount  atomic.Int32
	failures   atomic.Int32 // fail this many leading calls
	failWith   error
	delay      time.Duration
}

func newMockEmbeddingService(dimensions int) *mockEmbeddingService {
	return &mockEmbeddingService{dimensions: dimensions}
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	call := m.callCount.Add(1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if int32(call) <= m.failures.Load() {
		if m.failWith != nil {
			return nil, m.failWith
		}
		return nil, errors.New("embedding service error")
	}
	if m.embedFunc != nil {
		return m.embedFunc(ctx, text)
	}
	// Derive a stable non-zero vector from the text.
	sum := sha256.Sum256([]byte(text))
	vector := make([]float32, m.dimensions)
	for i := range vector {
		vector[i] = float32(sum[i%len(sum)]) + 1
	}
	return vector, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return m.dimensions
}

// mockVectorStore is an in-memory cross-run embedding store.
type mockVectorStore struct {
	mu      sync.Mutex
	vectors map[string][]float32
	upserts int
}

func newMockVectorStore() *mockVectorStore {
	return &mockVectorStore{vectors: make(map[string][]float32)}
}

func (s *mockVectorStore) GetEmbedding(_ context.Context, key, _ string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vectors[key], nil
}

func (s *mockVectorStore) UpsertEmbedding(_ context.Context, key, _ string, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors[key] = vector
	s.upserts++
	return nil
}

func fastCacheConfig() EmbeddingCacheConfig {
	return EmbeddingCacheConfig{
		RetryBudget:    3,
		PerCallTimeout: 50 * time.Millisecond,
		BackoffBase:    time.Millisecond,
	}
}

func TestEmbeddingCacheMemoizes(t *testing.T) {
	provider := newMockEmbeddingService(8)
	metrics := NewMetrics()
	cache := NewEmbeddingCache(provider, nil, metrics, fastCacheConfig())
	ctx := context.Background()

	first, err := cache.Embed(ctx, "Campus FAQ chatbot")
	require.NoError(t, err)

	// Same normalized text, different raw spelling.
	second, err := cache.Embed(ctx, "  campus  faq CHATBOT ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), provider.callCount.Load(), "repeated text must be embedded exactly once")
	assert.Equal(t, int64(1), metrics.Snapshot().CacheHits)
	assert.Equal(t, int64(1), metrics.Snapshot().CacheMisses)
}

func TestEmbeddingCacheNotConfigured(t *testing.T) {
	cache := NewEmbeddingCache(nil, nil, nil, fastCacheConfig())

	_, err := cache.Embed(context.Background(), "campus faq chatbot")
	assert.ErrorIs(t, err, ErrEmbeddingNotConfigured)
}

func TestEmbeddingCacheRetriesTransientFailures(t *testing.T) {
	provider := newMockEmbeddingService(8)
	provider.failures.Store(2) // fail twice, succeed on the third attempt
	cache := NewEmbeddingCache(provider, nil, nil, fastCacheConfig())

	vector, err := cache.Embed(context.Background(), "campus faq chatbot")
	require.NoError(t, err)
	assert.NotEmpty(t, vector)
	assert.Equal(t, int32(3), provider.callCount.Load())
}

func TestEmbeddingCacheExhaustsRetryBudget(t *testing.T) {
	provider := newMockEmbeddingService(8)
	provider.failures.Store(100)
	metrics := NewMetrics()
	cache := NewEmbeddingCache(provider, nil, metrics, fastCacheConfig())

	_, err := cache.Embed(context.Background(), "campus faq chatbot")
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	assert.Equal(t, int32(3), provider.callCount.Load(), "retry budget is 3 attempts")
	assert.Equal(t, int64(1), metrics.Snapshot().EmbedFailures)
}

func TestEmbeddingCachePermanentFailureFailsFast(t *testing.T) {
	provider := newMockEmbeddingService(8)
	provider.failures.Store(100)
	provider.failWith = &openai.APIError{HTTPStatusCode: 401, Message: "invalid api key"}
	cache := NewEmbeddingCache(provider, nil, nil, fastCacheConfig())

	_, err := cache.Embed(context.Background(), "campus faq chatbot")
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	assert.Equal(t, int32(1), provider.callCount.Load(), "permanent failures must not be retried")
}

func TestEmbeddingCacheTimeoutBound(t *testing.T) {
	provider := newMockEmbeddingService(8)
	provider.delay = time.Second // every call blocks past the per-call timeout
	cache := NewEmbeddingCache(provider, nil, nil, fastCacheConfig())

	start := time.Now()
	_, err := cache.Embed(context.Background(), "campus faq chatbot")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	// 3 attempts x 50ms timeout plus small backoffs; well under one second.
	assert.Less(t, elapsed, 500*time.Millisecond, "cache must never hang past its retry budget")
}

func TestEmbeddingCacheCrossRunStore(t *testing.T) {
	provider := newMockEmbeddingService(8)
	store := newMockVectorStore()
	cache := NewEmbeddingCache(provider, store, nil, fastCacheConfig())
	ctx := context.Background()

	_, err := cache.Embed(ctx, "campus faq chatbot")
	require.NoError(t, err)
	assert.Equal(t, 1, store.upserts, "fresh embedding should be written through")

	// A new cache over the same store serves the vector without the provider.
	rehydrated := NewEmbeddingCache(provider, store, nil, fastCacheConfig())
	_, err = rehydrated.Embed(ctx, "campus faq chatbot")
	require.NoError(t, err)
	assert.Equal(t, int32(1), provider.callCount.Load())
}

func TestEmbeddingCacheConcurrentFirstWrites(t *testing.T) {
	provider := newMockEmbeddingService(8)
	cache := NewEmbeddingCache(provider, nil, nil, fastCacheConfig())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vector, err := cache.Embed(ctx, "campus faq chatbot")
			assert.NoError(t, err)
			assert.NotEmpty(t, vector)
		}()
	}
	wg.Wait()

	// Racing first-writes are idempotent; exactly one entry survives.
	assert.Equal(t, 1, cache.Size())
}
