// Package errs contains sentinel errors shared across layers so handlers can
// map service failures to stable HTTP responses.
package errs

import (
	"errors"
	"fmt"
)

// Error kinds used across the portal.
var (
	// ErrValidation indicates rejected input (non-positive amount, missing field).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a delete blocked by references or a duplicate create.
	ErrConflict = errors.New("conflict")

	// ErrUpload indicates an object storage write failed; partial uploads have
	// been compensating-deleted.
	ErrUpload = errors.New("upload failed")

	// ErrPartialFailure indicates one half of a logically paired operation
	// succeeded and the other did not. State needs manual reconciliation and
	// the error must never be swallowed.
	ErrPartialFailure = errors.New("partial failure")

	// ErrTransient indicates a network or timeout failure that is safe to retry.
	ErrTransient = errors.New("transient failure")
)

// Validation wraps a message as a validation error.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// NotFound wraps a message as a not-found error.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

// Conflict wraps a message as a conflict error.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConflict}, args...)...)
}

// Upload wraps an underlying storage error as an upload error.
func Upload(err error) error {
	return fmt.Errorf("%w: %w", ErrUpload, err)
}

// PartialFailure marks an inconsistency between two paired writes. The detail
// message must carry enough context for manual reconciliation.
func PartialFailure(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrPartialFailure}, args...)...)
}

// Transient wraps an underlying error as retryable.
func Transient(err error) error {
	return fmt.Errorf("%w: %w", ErrTransient, err)
}
