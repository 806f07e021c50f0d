package similarity

import "context"

// Algorithm identifies the scoring strategy that produced a score.
type Algorithm string

const (
	AlgorithmLexical  Algorithm = "LEXICAL"
	AlgorithmSemantic Algorithm = "SEMANTIC"
)

// Scorer computes a similarity value in [0,1] between two strings.
// Implementations must be symmetric (Score(a,b) == Score(b,a)), return 1.0
// for identical non-empty input, and 0.0 (without error) when either input
// normalizes to empty.
type Scorer interface {
	// Score compares two texts. A returned error means this single
	// comparison could not be carried out; callers decide whether to skip
	// the candidate or degrade the pass.
	Score(ctx context.Context, a, b string) (float64, error)

	// Algorithm reports which strategy this scorer implements.
	Algorithm() Algorithm
}
