package chunker

import (
	"regexp"
	"strings"
)

// abbreviations end with a period that does not terminate a sentence.
var abbreviations = regexp.MustCompile(`(?i)\b(?:Mr|Mrs|Ms|Dr|Prof|Sr|Jr|Inc|Ltd|Corp|Co|etc|vs|i\.e|e\.g|et al|ca|cf|viz|ibid|supra|infra|ad hoc|et seq|passim|sic|inter alia)\.`)

var terminators = regexp.MustCompile(`[.!?]+`)

// protectedPeriod stands in for abbreviation periods while splitting.
const protectedPeriod = "\x00"

// SplitSentences splits text on runs of '.', '!' and '?'.
// Terminators are consumed; abbreviation periods are kept. Empty sentences are dropped.
func SplitSentences(text string) []string {
	protected := abbreviations.ReplaceAllStringFunc(text, func(m string) string {
		return strings.ReplaceAll(m, ".", protectedPeriod)
	})

	parts := terminators.Split(protected, -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		s := strings.TrimSpace(strings.ReplaceAll(part, protectedPeriod, "."))
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
