package directory

import (
	"errors"
	"fmt"
)

// Sentinel errors for the directory. Callers test with errors.Is.
var (
	ErrNotFound              = errors.New("contact not found")
	ErrUpstreamConfigMissing = errors.New("upstream endpoint not configured")
	ErrUpstreamUnavailable   = errors.New("upstream unavailable")
	ErrInvalidLimit          = errors.New("limit must be a positive integer")
)

// UpstreamError wraps a failed upstream call. It matches ErrUpstreamUnavailable
// and unwraps to the transport, status or decode error underneath.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrUpstreamUnavailable, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

// NotFoundError names the id that was looked up.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("contact %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
