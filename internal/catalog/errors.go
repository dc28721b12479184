package catalog

import (
	"errors"
	"fmt"
	"strings"

	"bom-yield/internal/diagnostic"
)

var (
	// ErrUnknownTarget is returned when the requested bundle is not in the catalog.
	ErrUnknownTarget = errors.New("unknown target bundle")
	// ErrUnknownPart classifies references to parts absent from the catalog.
	ErrUnknownPart = errors.New("unknown part")
	// ErrUnknownBundle classifies references to child bundles absent from the catalog.
	ErrUnknownBundle = errors.New("unknown bundle")
	// ErrCyclicDependency is returned when a bundle is reachable from itself.
	ErrCyclicDependency = errors.New("cyclic dependency")
	// ErrInvalidQuantity is returned when a quantity, inventory, or stock is out of range.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidCatalog is returned for any other structural defect.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Diagnostic codes produced by validation and resolution.
const (
	CodeInvalidQuantity        = "invalid_quantity"
	CodeMissingID              = "missing_id"
	CodeDuplicatePart          = "duplicate_part"
	CodeDuplicateBundle        = "duplicate_bundle"
	CodeAtomicWithRequirements = "atomic_with_requirements"
	CodeDuplicateRequirement   = "duplicate_requirement"
	CodeUnknownPart            = "unknown_part"
	CodeUnknownBundle          = "unknown_bundle"
	CodeEmptyBundle            = "empty_bundle"
	CodeCyclicDependency       = "cyclic_dependency"
)

// CycleError reports a bundle reachable from itself. Path starts and ends
// with the same bundle.
type CycleError struct {
	Path []ID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = string(id)
	}

	return fmt.Sprintf("%s: %s", ErrCyclicDependency, strings.Join(parts, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCyclicDependency
}

// ValidationError carries every structural defect found while building a
// catalog. It unwraps to ErrInvalidQuantity when any quantity was rejected,
// otherwise to ErrInvalidCatalog.
type ValidationError struct {
	Diagnostics *diagnostic.Diagnostics
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Unwrap(), e.Diagnostics.Error())
}

func (e *ValidationError) Unwrap() error {
	for _, d := range e.Diagnostics.Errors {
		if d.Code == CodeInvalidQuantity {
			return ErrInvalidQuantity
		}
	}

	return ErrInvalidCatalog
}

// UnknownTargetError wraps ErrUnknownTarget with the missing id.
func UnknownTargetError(id ID) error {
	return fmt.Errorf("%w: %q", ErrUnknownTarget, id)
}
