// Package classify infers a column's expected semantic type from its name.
// The tables are data-driven so each type's keywords and patterns can be
// tested in isolation and extended without touching match logic.
package classify

import (
	"regexp"
	"strings"
)

// ColumnType is a semantic type inferred from a column name
type ColumnType string

const (
	TypeID     ColumnType = "id"
	TypeName   ColumnType = "name"
	TypeEmail  ColumnType = "email"
	TypePhone  ColumnType = "phone"
	TypeDate   ColumnType = "date"
	TypeNumber ColumnType = "number"
	TypeURL    ColumnType = "url"
)

// Rule binds one type to its name keywords, confirming patterns, and
// contradicting patterns.
type Rule struct {
	Type            ColumnType
	Keywords        []string
	Patterns        []*regexp.Regexp
	InvalidPatterns []*regexp.Regexp
}

// rules holds the classification table. Order matters: the first type whose
// keyword appears in the lower-cased column name wins, so "phone_number"
// classifies as phone, not number.
var rules = []Rule{
	{
		Type:     TypeID,
		Keywords: []string{"id", "uuid", "guid"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`^[a-zA-Z0-9_-]+$`),
		},
		InvalidPatterns: []*regexp.Regexp{
			regexp.MustCompile(`\S+\s+\S+\s+\S+`), // sentence-like text
			regexp.MustCompile(`(?i)\b(lorem|ipsum)\b`),
		},
	},
	{
		Type:     TypeName,
		Keywords: []string{"name", "title"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`^[a-zA-Z\s.'-]+$`),
		},
		InvalidPatterns: []*regexp.Regexp{
			regexp.MustCompile(`\d{4,}`), // long digit runs
			regexp.MustCompile(`@`),
		},
	},
	{
		Type:     TypeEmail,
		Keywords: []string{"email", "e-mail"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`),
		},
		InvalidPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^[^@]+$`), // no @ anywhere
		},
	},
	{
		Type:     TypePhone,
		Keywords: []string{"phone", "mobile", "fax"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`),
			regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`),
			regexp.MustCompile(`^\d{3}\.\d{3}\.\d{4}$`),
			regexp.MustCompile(`^\d{10}$`),
		},
		InvalidPatterns: []*regexp.Regexp{
			regexp.MustCompile(`@`), // email shape in a phone column
			regexp.MustCompile(`[a-zA-Z]{3,}`),
		},
	},
	{
		Type:     TypeDate,
		Keywords: []string{"date", "time", "created", "updated", "birth"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
			regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`),
			regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{2,4}$`),
		},
		InvalidPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(lorem|ipsum)\b`),
		},
	},
	{
		Type:     TypeNumber,
		Keywords: []string{"number", "amount", "price", "cost", "count", "qty", "quantity", "age", "salary", "total", "score"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`^-?[\d,]+\.?\d*$`),
			regexp.MustCompile(`^\$-?[\d,]+\.?\d*$`),
		},
		InvalidPatterns: []*regexp.Regexp{
			regexp.MustCompile(`[a-zA-Z]{3,}`), // words in a numeric column
		},
	},
	{
		Type:     TypeURL,
		Keywords: []string{"url", "link", "website", "site"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`^https?://\S+$`),
			regexp.MustCompile(`^www\.\S+$`),
		},
		InvalidPatterns: []*regexp.Regexp{
			regexp.MustCompile(`\s`), // URLs never contain spaces
		},
	},
}

// Classify returns the expected type for a column name, or false when no
// keyword matches. Matching is naive lower-cased substring containment,
// first rule wins.
func Classify(columnName string) (ColumnType, bool) {
	lower := strings.ToLower(columnName)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Type, true
			}
		}
	}
	return "", false
}

// RuleFor returns the table entry for a type
func RuleFor(t ColumnType) (Rule, bool) {
	for _, rule := range rules {
		if rule.Type == t {
			return rule, true
		}
	}
	return Rule{}, false
}

// MatchesInvalid reports whether a value hits any contradicting pattern
// for the expected type.
func MatchesInvalid(t ColumnType, value string) bool {
	rule, ok := RuleFor(t)
	if !ok {
		return false
	}
	for _, re := range rule.InvalidPatterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// MatchesPattern reports whether a value fits any confirming pattern
// for the type.
func MatchesPattern(t ColumnType, value string) bool {
	rule, ok := RuleFor(t)
	if !ok {
		return false
	}
	for _, re := range rule.Patterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}
