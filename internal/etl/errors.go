package etl

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when a sequence is requested before Init
	ErrNotInitialized = errors.New("extractor is not initialized")

	// ErrSequenceConsumed is returned when an extraction sequence is ranged over twice
	ErrSequenceConsumed = errors.New("extraction sequence already consumed")
)

// InitializationError means the group could not be sized or described.
// Nothing is harvested for the group.
type InitializationError struct {
	GroupID string
	Err     error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("failed to initialize extraction of group %s: %v", e.GroupID, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// PageFetchError means a page or owner request failed mid-iteration.
// The sequence ends after yielding it.
type PageFetchError struct {
	GroupID string
	Start   int
	Owner   string
	Err     error
}

func (e *PageFetchError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("failed to fetch owner %q of group %s: %v", e.Owner, e.GroupID, e.Err)
	}
	return fmt.Sprintf("failed to fetch page at %d of group %s: %v", e.Start, e.GroupID, e.Err)
}

func (e *PageFetchError) Unwrap() error { return e.Err }

// MalformedRecordError reports a single record that cannot become a document.
// The sequence continues after yielding it.
type MalformedRecordError struct {
	GroupID string
	Title   string
	Reason  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %q in group %s: %s", e.Title, e.GroupID, e.Reason)
}

// IsFatal reports whether err ends an extraction sequence.
func IsFatal(err error) bool {
	var malformed *MalformedRecordError
	return err != nil && !errors.As(err, &malformed)
}
