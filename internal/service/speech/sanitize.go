package speech

import (
	"regexp"
	"strings"
)

var (
	markupChars = regexp.MustCompile(`[*#_]`)
	linkSyntax  = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// SanitizeForSpeech strips formatting from markdown-flavored reply text so
// punctuation used for structure is not read aloud: emphasis and heading
// markers go first, then whole link constructs, then runs of whitespace
// collapse to single spaces.
func SanitizeForSpeech(text string) string {
	clean := markupChars.ReplaceAllString(text, "")
	clean = linkSyntax.ReplaceAllString(clean, "")
	clean = whitespace.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}
