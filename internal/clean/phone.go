package clean

import (
	"fmt"
	"regexp"
)

var nonDigitRe = regexp.MustCompile(`\D`)

func phoneUS(req *request) (string, int)   { return reformatPhones(req, "(%s) %s-%s") }
func phoneDash(req *request) (string, int) { return reformatPhones(req, "%s-%s-%s") }
func phoneDots(req *request) (string, int) { return reformatPhones(req, "%s.%s.%s") }

// reformatPhones rewrites values that reduce to exactly ten digits into the
// given grouping; anything else keeps its original form.
func reformatPhones(req *request, pattern string) (string, int) {
	return rewriteCells(req, func(v string) string {
		digits := nonDigitRe.ReplaceAllString(v, "")
		if len(digits) != 10 {
			return v
		}
		return fmt.Sprintf(pattern, digits[:3], digits[3:6], digits[6:])
	})
}
