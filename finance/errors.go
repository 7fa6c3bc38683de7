/*
errors.go - Centralized error types for the report engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Other packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Window errors  - Invalid year/month, rejected before any storage access
  2. Storage errors - Fetch failures; always abort the whole report call
  3. Record errors  - Malformed per-record data; degrade, never abort

USAGE:
  if errors.Is(err, finance.ErrInvalidWindow) {
      // 400, not 500
  }
*/
package finance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidWindow is returned when a report is requested for an
	// out-of-range year or month. Surfaced before any storage access.
	ErrInvalidWindow = errors.New("invalid report window")

	// ErrStorageUnavailable is returned when a storage fetch fails or times
	// out. The report call is aborted; retry policy belongs to the caller.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound is returned when a referenced record or category does not
	// exist for the requesting owner.
	ErrNotFound = errors.New("not found")

	// ErrMalformedRecord marks a recurring record whose rule is not
	// recognized. Such records contribute zero occurrences; the error is
	// logged per record, never propagated.
	ErrMalformedRecord = errors.New("malformed record")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// WindowError reports which part of the requested window was out of range.
type WindowError struct {
	Year  int
	Month *int
}

func (e *WindowError) Error() string {
	if e.Month != nil {
		return fmt.Sprintf("invalid report window: year=%d month=%d", e.Year, *e.Month)
	}
	return fmt.Sprintf("invalid report window: year=%d", e.Year)
}

func (e *WindowError) Unwrap() error {
	return ErrInvalidWindow
}

// StorageError wraps a failed storage fetch with the query that failed.
type StorageError struct {
	Op  string // e.g. "fetch non-recurring", "fetch recurring"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return ErrStorageUnavailable
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidWindow)
}
