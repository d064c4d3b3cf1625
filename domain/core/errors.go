package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Import errors
	ErrImportFailed      = errors.New("import failed")
	ErrNoSheets          = fmt.Errorf("%w: workbook has no sheets", ErrImportFailed)
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported file format", ErrImportFailed)
	ErrUploadTooLarge    = fmt.Errorf("%w: upload too large", ErrImportFailed)

	ErrNotFound = errors.New("resource not found")
)

// NewUnsupportedFormatError names the rejected extension
func NewUnsupportedFormatError(ext string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// IsImportError reports whether err came out of the import pipeline
func IsImportError(err error) bool {
	return errors.Is(err, ErrImportFailed)
}
