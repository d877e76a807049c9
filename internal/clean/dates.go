package clean

import (
	"time"
)

// dateLayouts are tried in order; the first full match wins. Bare dates
// come before datetime forms, and slash dates read month-first.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func datesISO(req *request) (string, int) { return reformatDates(req, "2006-01-02") }
func datesUS(req *request) (string, int)  { return reformatDates(req, "01/02/2006") }

// reformatDates rewrites parsable date values into the output layout;
// unparsable values pass through untouched.
func reformatDates(req *request, outLayout string) (string, int) {
	return rewriteCells(req, func(v string) string {
		t, ok := parseDate(v)
		if !ok {
			return v
		}
		return t.Format(outLayout)
	})
}

func parseDate(v string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
