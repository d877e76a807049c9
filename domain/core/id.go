package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	JobID  ID
	FileID ID
)

// String conversions for domain IDs
func (id JobID) String() string  { return ID(id).String() }
func (id FileID) String() string { return ID(id).String() }

// NewJobID creates a new unique batch job identifier
func NewJobID() JobID {
	return JobID(NewID())
}

// NewFileID creates a new unique file identifier
func NewFileID() FileID {
	return FileID(NewID())
}

// ParseJobID parses a string into JobID
func ParseJobID(s string) (JobID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("job ID cannot be empty")
	}
	return JobID(s), nil
}

// ParseFileID parses a string into FileID
func ParseFileID(s string) (FileID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("file ID cannot be empty")
	}
	return FileID(s), nil
}
