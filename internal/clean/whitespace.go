package clean

import (
	"strings"
)

// trimWhitespace strips leading and trailing whitespace from every cell.
// Running it on its own output changes nothing.
func trimWhitespace(req *request) (string, int) {
	return rewriteAllCells(req, strings.TrimSpace)
}

// removeExtraSpaces trims and collapses internal whitespace runs to a
// single space.
func removeExtraSpaces(req *request) (string, int) {
	return rewriteAllCells(req, func(v string) string {
		return strings.Join(strings.Fields(v), " ")
	})
}
