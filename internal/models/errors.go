package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Wrap with fmt.Errorf("...: %w", ...)
// so callers can test with errors.Is.
var (
	// ErrNotFound indicates a repository, document or file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyRepository indicates a repository tree contains no files.
	ErrEmptyRepository = errors.New("repository contains no files")

	// ErrQuotaExceeded indicates the daily token budget is exhausted.
	// Callers must fail fast and never retry against this error.
	ErrQuotaExceeded = errors.New("daily token quota exceeded")

	// ErrEmptyCompletion indicates the completion provider returned a
	// response with no usable text.
	ErrEmptyCompletion = errors.New("completion returned empty content")
)

// TransientError marks a provider failure worth retrying, such as a rate
// limit response or a server-side fault. StatusCode is zero for transport
// level failures with no HTTP response.
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transient provider error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transient provider error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// NonRetryableError marks a provider failure that retrying cannot fix,
// such as an invalid request or an authentication problem.
type NonRetryableError struct {
	Code string
	Err  error
}

func (e *NonRetryableError) Error() string {
	return fmt.Sprintf("non-retryable provider error (%s): %v", e.Code, e.Err)
}

func (e *NonRetryableError) Unwrap() error { return e.Err }

// SectionError records which section a generation failure belongs to so the
// orchestrator can degrade that section without losing the cause.
type SectionError struct {
	SectionType SectionType
	Err         error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %s: %v", e.SectionType, e.Err)
}

func (e *SectionError) Unwrap() error { return e.Err }

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsNonRetryable reports whether err is (or wraps) a NonRetryableError.
func IsNonRetryable(err error) bool {
	var nonRetryable *NonRetryableError
	return errors.As(err, &nonRetryable)
}
