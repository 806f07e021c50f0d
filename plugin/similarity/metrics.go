package similarity

import "sync/atomic"

// Metrics counts degradation events so operators can tell a systemic provider
// outage apart from the occasional bad candidate. All counters are safe for
// concurrent use.
type Metrics struct {
	embedFailures    atomic.Int64
	candidateSkips   atomic.Int64
	lexicalFallbacks atomic.Int64
	partialPasses    atomic.Int64
	cacheHits        atomic.Int64
	cacheMisses      atomic.Int64
}

// NewMetrics creates a new metrics recorder.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordEmbedFailure records one exhausted embedding call.
func (m *Metrics) RecordEmbedFailure() {
	if m != nil {
		m.embedFailures.Add(1)
	}
}

// RecordCandidateSkip records one candidate dropped from a pass.
func (m *Metrics) RecordCandidateSkip() {
	if m != nil {
		m.candidateSkips.Add(1)
	}
}

// RecordLexicalFallback records a pass degraded from semantic to lexical.
func (m *Metrics) RecordLexicalFallback() {
	if m != nil {
		m.lexicalFallbacks.Add(1)
	}
}

// RecordPartialPass records a pass cut short by its deadline.
func (m *Metrics) RecordPartialPass() {
	if m != nil {
		m.partialPasses.Add(1)
	}
}

// RecordCacheHit records an embedding served from cache.
func (m *Metrics) RecordCacheHit() {
	if m != nil {
		m.cacheHits.Add(1)
	}
}

// RecordCacheMiss records an embedding that required a provider call.
func (m *Metrics) RecordCacheMiss() {
	if m != nil {
		m.cacheMisses.Add(1)
	}
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	EmbedFailures    int64 `json:"embed_failures"`
	CandidateSkips   int64 `json:"candidate_skips"`
	LexicalFallbacks int64 `json:"lexical_fallbacks"`
	PartialPasses    int64 `json:"partial_passes"`
	CacheHits        int64 `json:"cache_hits"`
	CacheMisses      int64 `json:"cache_misses"`
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		EmbedFailures:    m.embedFailures.Load(),
		CandidateSkips:   m.candidateSkips.Load(),
		LexicalFallbacks: m.lexicalFallbacks.Load(),
		PartialPasses:    m.partialPasses.Load(),
		CacheHits:        m.cacheHits.Load(),
		CacheMisses:      m.cacheMisses.Load(),
	}
}
