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
	id, err := uuid.NewV7()
	if err != nil {
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

// ImportID identifies one workbook import
type ImportID ID

func (id ImportID) String() string { return ID(id).String() }

// NewImportID creates a fresh import identifier
func NewImportID() ImportID {
	return ImportID(NewID())
}

// ParseImportID parses a string into ImportID
func ParseImportID(s string) (ImportID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("import ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("import ID %q is not a UUID: %w", s, err)
	}
	return ImportID(s), nil
}
