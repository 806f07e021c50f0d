// Package similarity implements duplicate-submission detection: an incoming
// title/description pair is scored against the approved corpus, matches are
// ranked and truncated, and accepted matches become edges in a persisted
// similarity graph.
package similarity

import "context"

// Candidate is one approved corpus item, a read-only snapshot for the
// duration of a detection pass.
type Candidate struct {
	ID          int32
	Title       string
	Description string
}

// CorpusProvider supplies the comparison corpus. Implementations return only
// approved items and honor the exclusion.
type CorpusProvider interface {
	// ListApproved returns the eligible corpus, excluding excludeID when
	// non-nil (so an item never matches itself during re-scans).
	ListApproved(ctx context.Context, excludeID *int32) ([]*Candidate, error)
}

// Score holds the per-field and combined similarity for one candidate pair.
type Score struct {
	TitleSimilarity       float64 `json:"title_similarity"`
	DescriptionSimilarity float64 `json:"description_similarity"`
	OverallSimilarity     float64 `json:"overall_similarity"`
}

// MatchCandidate pairs a corpus candidate with its score. Transient: the
// ledger persists edges derived from it, never the struct itself.
type MatchCandidate struct {
	Candidate *Candidate `json:"candidate"`
	Score     Score      `json:"score"`
}

// DetectRequest contains input for one detection pass.
type DetectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// Threshold is the minimum overall similarity; zero uses the detector's
	// configured default.
	Threshold float64 `json:"threshold,omitempty"`
	// ExcludeID removes one corpus item from consideration.
	ExcludeID *int32 `json:"exclude_id,omitempty"`
	// TopK bounds the result; zero uses the detector's configured default.
	TopK int `json:"top_k,omitempty"`
}

// DetectResult contains the ranked matches of one pass.
type DetectResult struct {
	// Matches is ordered by overall similarity descending, candidate ID
	// ascending on ties.
	Matches []MatchCandidate `json:"matches"`
	// Algorithm that actually scored the pass (after any fallback).
	Algorithm Algorithm `json:"algorithm"`
	// Degraded is true when a semantic pass fell back to lexical scoring.
	Degraded bool `json:"degraded,omitempty"`
	// Partial is true when the deadline expired before the whole corpus was
	// scanned; Matches then holds whatever was computed in time.
	Partial bool `json:"partial,omitempty"`
	// Scanned and Skipped count scored and dropped candidates.
	Scanned int `json:"scanned"`
	Skipped int `json:"skipped"`

	LatencyMs int64 `json:"latency_ms"`
}

// Detector runs detection passes against the corpus.
type Detector interface {
	Detect(ctx context.Context, req *DetectRequest) (*DetectResult, error)
}
