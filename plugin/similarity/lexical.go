package similarity

import (
	"context"
	"sort"
	"strings"
)

// LexicalScorer scores two texts by their longest-common-subsequence ratio.
// Tokens are sorted before alignment so that reordered titles ("Campus FAQ
// chatbot" vs "Chatbot for campus FAQ") still score as near-duplicates.
// Deterministic, no I/O, O(n*m) per pair. Always available.
type LexicalScorer struct{}

// NewLexicalScorer creates the lexical scorer.
func NewLexicalScorer() *LexicalScorer {
	return &LexicalScorer{}
}

func (s *LexicalScorer) Algorithm() Algorithm {
	return AlgorithmLexical
}

// Score returns 2*LCS(a,b) / (len(a)+len(b)) over the normalized,
// token-sorted strings.
func (s *LexicalScorer) Score(_ context.Context, a, b string) (float64, error) {
	a, b = Normalize(a), Normalize(b)
	if a == "" || b == "" {
		return 0, nil
	}
	if a == b {
		return 1, nil
	}
	return sequenceRatio(sortTokens(a), sortTokens(b)), nil
}

// sortTokens rebuilds a normalized string with its words in sorted order.
func sortTokens(text string) string {
	tokens := strings.Fields(text)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// sequenceRatio is the classic sequence-alignment ratio: twice the length of
// the longest common subsequence over the combined length. 1.0 for equal
// strings, 0.0 for no overlap.
func sequenceRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	// Two-row LCS to keep memory at O(min side).
	if len(rb) < len(ra) {
		ra, rb = rb, ra
	}
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := 1; i <= len(rb); i++ {
		for j := 1; j <= len(ra); j++ {
			if rb[i-1] == ra[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(ra)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}
