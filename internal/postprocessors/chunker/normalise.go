package chunker

import (
	"regexp"
	"strings"
)

var (
	blankLines      = regexp.MustCompile(`\n\s*\n`)
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	pageFooter      = regexp.MustCompile(`(?i)page \d+ of \d+`)
	copyrightLine   = regexp.MustCompile(`(?i)(?:Â)?©\s*\d{4}.*`)
	whitespaceRun   = regexp.MustCompile(`\s{2,}`)
)

// Normalise cleans extracted document text before sentence splitting.
//
// Blank-line runs and horizontal whitespace are collapsed, "Page N of M"
// footers and copyright lines are removed, table pipes become spaces, and
// any remaining whitespace run is collapsed to a single space.
func Normalise(text string) string {
	text = blankLines.ReplaceAllString(text, "\n\n")
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = pageFooter.ReplaceAllString(text, "")
	text = copyrightLine.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "|", " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// lastWords returns the last n whitespace-delimited words of s joined by spaces.
func lastWords(s string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(s)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}
