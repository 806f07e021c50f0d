package similarity

import (
	"context"
	"math"
)

// SemanticScorer scores two texts by the cosine similarity of their embedding
// vectors, obtained through an EmbeddingCache. Catches paraphrased duplicates
// the lexical scorer misses; may fail when the provider is down.
type SemanticScorer struct {
	cache *EmbeddingCache
}

// NewSemanticScorer creates a semantic scorer over the given cache.
func NewSemanticScorer(cache *EmbeddingCache) *SemanticScorer {
	return &SemanticScorer{cache: cache}
}

func (s *SemanticScorer) Algorithm() Algorithm {
	return AlgorithmSemantic
}

// Score embeds both texts and returns their clamped cosine similarity.
// Either text normalizing to empty yields 0.0 without error.
func (s *SemanticScorer) Score(ctx context.Context, a, b string) (float64, error) {
	a, b = Normalize(a), Normalize(b)
	if a == "" || b == "" {
		return 0, nil
	}
	if a == b {
		return 1, nil
	}

	va, err := s.cache.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := s.cache.Embed(ctx, b)
	if err != nil {
		return 0, err
	}

	return ClampedCosine(va, vb), nil
}

// Warm embeds the given texts ahead of the candidate fan-out, so the
// incoming item's fields are in cache before any candidate scoring begins.
func (s *SemanticScorer) Warm(ctx context.Context, texts ...string) error {
	return s.cache.Warm(ctx, texts...)
}

// CosineSimilarity calculates cosine similarity between two vectors.
// Returns 0 for mismatched lengths or zero-norm vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	// A single sqrt over the product keeps v·v exact, so identical vectors
	// score 1.0 instead of rounding just below it.
	return dotProduct / math.Sqrt(normA*normB)
}

// ClampedCosine clamps cosine similarity to [0,1]. Near-duplicate intent is
// never meaningfully anti-correlated, so negative cosine counts as zero.
func ClampedCosine(a, b []float32) float64 {
	sim := CosineSimilarity(a, b)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
