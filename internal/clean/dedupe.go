package clean

import (
	"datascrub/domain/core"
)

// removeDuplicates keeps the first occurrence of each row, judging identity
// by the same normalized fingerprint the duplicate check uses: casing and
// padding differences collide.
func removeDuplicates(req *request) (string, int) {
	seen := make(map[core.Hash]bool, len(req.ds.Rows))
	kept := make([][]string, 0, len(req.ds.Rows))
	removed := 0
	for _, row := range req.ds.Rows {
		fp := core.RowFingerprint(row)
		if seen[fp] {
			removed++
			continue
		}
		seen[fp] = true
		kept = append(kept, row)
	}
	req.ds.Rows = kept
	return req.ds.Render(), removed
}
