package clean

import (
	"regexp"
	"strings"

	"datascrub/internal/dataset"
)

var (
	nonSnakeRe     = regexp.MustCompile(`[^a-z0-9_]`)
	nonWordSpaceRe = regexp.MustCompile(`[^a-zA-Z0-9_\s]`)
	spaceRunRe     = regexp.MustCompile(`\s+`)
)

// removeColumn drops the named columns from the header and every row by
// index. With no columns named, or none matching, the original text comes
// back untouched.
func removeColumn(req *request) (string, int) {
	if len(req.requested) == 0 || len(req.targets) == 0 {
		return req.text, 0
	}

	drop := make(map[int]bool, len(req.targets))
	for _, i := range req.targets {
		drop[i] = true
	}

	header := make([]string, 0, len(req.ds.Header)-len(drop))
	for i, name := range req.ds.Header {
		if !drop[i] {
			header = append(header, name)
		}
	}

	rows := make([][]string, len(req.ds.Rows))
	for r := range req.ds.Rows {
		row := req.ds.PaddedRow(r)
		kept := make([]string, 0, len(row)-len(drop))
		for i, v := range row {
			if !drop[i] {
				kept = append(kept, v)
			}
		}
		rows[r] = kept
	}

	out := &dataset.Dataset{Header: header, Rows: rows}
	return out.Render(), len(req.targets)
}

// standardizeColumns rewrites header names as snake_case identifiers; data
// rows pass through untouched.
func standardizeColumns(req *request) (string, int) {
	changes := 0
	for i, name := range req.ds.Header {
		cleaned := strings.ToLower(name)
		cleaned = strings.ReplaceAll(cleaned, " ", "_")
		cleaned = nonSnakeRe.ReplaceAllString(cleaned, "")
		if cleaned != name {
			req.ds.Header[i] = cleaned
			changes++
		}
	}
	return req.ds.Render(), changes
}

// cleanColumnNames strips punctuation from header names, collapses internal
// whitespace, and trims; data rows pass through untouched.
func cleanColumnNames(req *request) (string, int) {
	changes := 0
	for i, name := range req.ds.Header {
		cleaned := nonWordSpaceRe.ReplaceAllString(name, "")
		cleaned = spaceRunRe.ReplaceAllString(cleaned, " ")
		cleaned = strings.TrimSpace(cleaned)
		if cleaned != name {
			req.ds.Header[i] = cleaned
			changes++
		}
	}
	return req.ds.Render(), changes
}
