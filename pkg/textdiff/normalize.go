package textdiff

import (
	"strings"
	"unicode"
)

type normalizeOptions struct {
	ignoreWhitespace bool
	ignoreCase       bool
}

// normalize returns the matching key for line: whitespace runes removed
// when ignoring whitespace, upper-cased when ignoring case
func normalize(line string, opts normalizeOptions) string {
	normalized := line

	if opts.ignoreWhitespace {
		normalized = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, normalized)
	}

	if opts.ignoreCase {
		normalized = strings.ToUpper(normalized)
	}

	return normalized
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
