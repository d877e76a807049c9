package clean

import (
	"strings"

	"datascrub/internal/classify"
)

// invalidPrefix marks values that failed email validation. Already marked
// values are left alone so repeated runs do not stack prefixes.
const invalidPrefix = "[INVALID] "

// validateEmails prefixes non-matching non-empty values in the eligible
// columns; matching values pass through.
func validateEmails(req *request) (string, int) {
	return rewriteCells(req, func(v string) string {
		if v == "" || strings.HasPrefix(v, invalidPrefix) {
			return v
		}
		if classify.MatchesPattern(classify.TypeEmail, v) {
			return v
		}
		return invalidPrefix + v
	})
}

// lowerEmailCase lower-cases values containing an @; anything else is not
// email-shaped and keeps its casing.
func lowerEmailCase(req *request) (string, int) {
	return rewriteCells(req, func(v string) string {
		if !strings.Contains(v, "@") {
			return v
		}
		return strings.ToLower(v)
	})
}
