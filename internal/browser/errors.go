package browser

import (
	"fmt"
	"time"
)

const (
	// ErrTimeout matches every [*TimeoutError].
	ErrTimeout = Error("timeout exceeded")
	// ErrClosed is returned by operations on a closed page.
	ErrClosed = Error("page has been closed")
)

// Error is an error type for browser sentinels.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// TimeoutError reports a locator that did not reach a state in time.
type TimeoutError struct {
	Selector string
	State    State
	Timeout  time.Duration
}

// Error satisfies [error].
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("TimeoutError: Timeout %dms exceeded while waiting for locator(%q) to be %s",
		e.Timeout.Milliseconds(), e.Selector, e.State)
}

// Is makes TimeoutError match [ErrTimeout].
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout //nolint:errorlint // sentinel identity
}

// StrictModeError reports a single-element operation on a locator matching
// more than one element.
type StrictModeError struct {
	Selector string
	Count    int
}

// Error satisfies [error].
func (e *StrictModeError) Error() string {
	return fmt.Sprintf("strict mode violation: locator(%q) resolved to %d elements", e.Selector, e.Count)
}
