package dispatch

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNilReasoner indicates a dispatcher was constructed without a
	// reasoner.
	ErrNilReasoner = errors.New("reasoner cannot be nil")
)

// DispatchError wraps a failed reasoner call with the request context
// needed to correlate the resulting fail-closed verdicts.
type DispatchError struct {
	DocumentType string
	ModuleCount  int
	Cause        error
}

// Error returns the error message.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch for %q (%d modules) failed: %v",
		e.DocumentType, e.ModuleCount, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *DispatchError) Unwrap() error {
	return e.Cause
}
