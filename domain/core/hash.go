package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// RowFingerprint hashes a row after case/whitespace normalization so that
// rows differing only in casing or padding collide into the same bucket.
func RowFingerprint(fields []string) Hash {
	var data strings.Builder
	for i, f := range fields {
		if i > 0 {
			data.WriteByte(',')
		}
		data.WriteString(strings.ToLower(strings.TrimSpace(f)))
	}
	return NewHash([]byte(data.String()))
}

// DatasetFingerprint hashes raw CSV text, identifying a file's exact contents
// independent of where it was stored.
func DatasetFingerprint(csvText string) Hash {
	return NewHash([]byte(csvText))
}

// ShortHash returns the first 12 characters, for log lines and job records.
func (h Hash) ShortHash() string {
	s := string(h)
	if len(s) <= 12 {
		return s
	}
	return s[:12]
}
