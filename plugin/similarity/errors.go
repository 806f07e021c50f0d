package similarity

import "errors"

// Error kinds callers branch on. Construction and corpus failures propagate;
// embedding failures trigger fallback or per-candidate skips and never abort
// a detection pass on their own.
var (
	// ErrInvalidWeightConfiguration is fatal at aggregator construction time.
	ErrInvalidWeightConfiguration = errors.New("similarity weights must sum to 1.0")

	// ErrEmbeddingNotConfigured means no provider credential is present.
	ErrEmbeddingNotConfigured = errors.New("embedding provider not configured")

	// ErrEmbeddingUnavailable means the provider is unreachable after the
	// retry budget is exhausted.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrCorpusUnavailable means the comparison corpus could not be fetched.
	// This is fatal for the pass: an empty result via failure must never be
	// confused with an empty result via no matches.
	ErrCorpusUnavailable = errors.New("comparison corpus unavailable")
)
