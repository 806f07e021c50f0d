package similarity

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
)

// EdgeWriter persists one similarity edge with upsert semantics: at most one
// edge per ordered (source, target) pair, re-records replace rather than
// accumulate.
type EdgeWriter interface {
	PersistEdge(ctx context.Context, sourceID, targetID int32, score Score, algorithm Algorithm) error
}

// FlagMarker flags an item as a suspected duplicate. The flag itself is
// owned by the surrounding system; this is the single outward callback.
type FlagMarker interface {
	MarkFlagged(ctx context.Context, itemID int32) error
}

// Ledger records accepted matches as edges in the similarity graph.
type Ledger interface {
	Record(ctx context.Context, sourceID int32, matches []MatchCandidate, algorithm Algorithm) error
}

// SimilarityLedger is the persistence boundary of a detection pass: it writes
// one edge per match and flags the source item when matches exist.
type SimilarityLedger struct {
	edges EdgeWriter
	flags FlagMarker
}

// NewLedger creates a ledger over the given sinks.
func NewLedger(edges EdgeWriter, flags FlagMarker) *SimilarityLedger {
	return &SimilarityLedger{
		edges: edges,
		flags: flags,
	}
}

// Record upserts one edge per match, then flags the source item if any match
// was recorded. Self-edges are never written.
func (l *SimilarityLedger) Record(ctx context.Context, sourceID int32, matches []MatchCandidate, algorithm Algorithm) error {
	recorded := 0
	for _, match := range matches {
		if match.Candidate == nil || match.Candidate.ID == sourceID {
			continue
		}
		if err := l.edges.PersistEdge(ctx, sourceID, match.Candidate.ID, match.Score, algorithm); err != nil {
			return errors.Wrapf(err, "persist edge %d -> %d", sourceID, match.Candidate.ID)
		}
		recorded++
	}

	if recorded == 0 {
		return nil
	}

	if err := l.flags.MarkFlagged(ctx, sourceID); err != nil {
		return errors.Wrapf(err, "mark item %d flagged", sourceID)
	}
	slog.Info("similarity matches recorded",
		"source_id", sourceID,
		"edges", recorded,
		"algorithm", algorithm)
	return nil
}
