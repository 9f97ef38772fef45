package activation

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNilCatalog indicates a plan was requested without a catalog.
	ErrNilCatalog = errors.New("catalog cannot be nil")

	// ErrNilSnapshot indicates a plan was requested without a snapshot.
	ErrNilSnapshot = errors.New("snapshot cannot be nil")

	// ErrDocumentTypeMismatch indicates the snapshot and catalog disagree
	// on the document type.
	ErrDocumentTypeMismatch = errors.New("snapshot and catalog document types differ")
)

// MisconfiguredModuleError indicates a module whose definition is internally
// inconsistent: a deterministic module without a primary rule, or a rule
// tree failing the depth guard. The module is excluded from the plan and the
// inconsistency is surfaced as a warning, never a silent no-op.
type MisconfiguredModuleError struct {
	ModuleID string
	Reason   string
	Cause    error
}

// Error returns the error message.
func (e *MisconfiguredModuleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("module %q misconfigured: %s: %v", e.ModuleID, e.Reason, e.Cause)
	}
	return fmt.Sprintf("module %q misconfigured: %s", e.ModuleID, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *MisconfiguredModuleError) Unwrap() error {
	return e.Cause
}
