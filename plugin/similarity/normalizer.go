package similarity

import "strings"

// Normalize trims leading/trailing whitespace, lowercases, and collapses
// internal whitespace runs to a single space. Total: empty in, empty out.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
