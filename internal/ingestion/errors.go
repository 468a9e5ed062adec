package ingestion

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for file extensions with no loader.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrEmptyDocument is returned when a loader produced no text at all.
var ErrEmptyDocument = errors.New("document contains no text")

// LoadError represents a failure to read or decode a document
type LoadError struct {
	Path    string
	Format  Format
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load failed for %s (%s): %s: %v", e.Path, e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("load failed for %s (%s): %s", e.Path, e.Format, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
