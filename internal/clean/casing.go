package clean

import (
	"strings"
	"unicode"
)

func caseUpper(req *request) (string, int) { return rewriteCells(req, strings.ToUpper) }
func caseLower(req *request) (string, int) { return rewriteCells(req, strings.ToLower) }
func caseTitle(req *request) (string, int) { return rewriteCells(req, titleCase) }

// titleCase lower-cases the value and upper-cases the first letter after
// every non-letter, so hyphenated and apostrophized names each get their
// capital.
func titleCase(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	prevLetter := false
	for _, r := range strings.ToLower(v) {
		if unicode.IsLetter(r) && !prevLetter {
			r = unicode.ToUpper(r)
		}
		prevLetter = unicode.IsLetter(r)
		b.WriteRune(r)
	}
	return b.String()
}
