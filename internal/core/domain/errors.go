// Package domain defines the core domain models for RosterTrace.
package domain

import (
	"context"
	"errors"
	"fmt"
)

// DomainError is a coded failure. Code is stable across releases and is what
// the HTTP layer maps to a status; Details and Cause vary per occurrence.
type DomainError struct {
	Code    string // "RT-<AREA>-<NNNN>"
	Message string
	Details string // e.g. the upstream path that failed
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches on Code alone, so a derived error still matches its sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError declares a sentinel.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails and WithCause derive a new error; the receiver, usually a
// package-level sentinel, is never modified.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := *e
	c.Details = details
	return &c
}

// WithCause attaches the underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// IsDomainError reports whether err wraps a DomainError with code, or any
// DomainError when code is empty.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode returns the code of the first DomainError in err's chain, or "".
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCanceled reports whether err belongs to the cancellation class:
// an explicit resolution cancel or a context cancellation/deadline.
func IsCanceled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrResolveCanceled) {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ============================================================================
// Resolution Errors (RSLV)
// ============================================================================

var (
	// ErrResolveCanceled indicates the caller aborted the resolution.
	ErrResolveCanceled = NewDomainError("RT-RSLV-4990", "resolution canceled")
)

// ============================================================================
// Upstream Errors (UPST)
// ============================================================================

var (
	// ErrUpstreamFetch indicates a single upstream call failed (network, 4xx, 5xx).
	ErrUpstreamFetch = NewDomainError("RT-UPST-5020", "upstream fetch failed")

	// ErrUpstreamNotFound indicates the upstream resource does not exist.
	ErrUpstreamNotFound = NewDomainError("RT-UPST-4040", "upstream resource not found")

	// ErrUpstreamUnavailable indicates the upstream circuit is open.
	ErrUpstreamUnavailable = NewDomainError("RT-UPST-5030", "upstream unavailable")

	// ErrUpstreamMalformed indicates the upstream payload could not be decoded.
	ErrUpstreamMalformed = NewDomainError("RT-UPST-5021", "malformed upstream payload")
)

// ============================================================================
// Cache Errors (CACHE)
// ============================================================================

var (
	// ErrCacheFailure indicates a cache tier failed to read or write.
	ErrCacheFailure = NewDomainError("RT-CACHE-5001", "cache failure")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("RT-SYS-5000", "internal server error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("RT-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("RT-SYS-4290", "too many requests")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("RT-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("RT-ARG-1002", "missing required argument")
)
