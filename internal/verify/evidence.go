package verify

import (
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Separator is placed between consecutive sources in the evidence text
const Separator = "\n\n---\n\n"

// BuildEvidence joins every source's content in order and truncates the
// result to the first limit characters. A non-positive limit disables the ceiling.
func BuildEvidence(sources []model.Source, limit int) (evidence string, truncated bool) {
	parts := make([]string, 0, len(sources))
	for _, src := range sources {
		parts = append(parts, src.Content)
	}
	return truncateRunes(strings.Join(parts, Separator), limit)
}

// UserMessage renders the judge's user turn
func UserMessage(claim, evidence string) string {
	return "CLAIM: " + claim + "\n\nSOURCE TEXTS:\n" + evidence
}

func truncateRunes(s string, limit int) (string, bool) {
	// Byte length bounds rune count
	if limit <= 0 || len(s) <= limit {
		return s, false
	}

	n := 0
	for i := range s {
		if n == limit {
			return s[:i], true
		}
		n++
	}
	return s, false
}
