/*
errors.go - Centralized error types for the retail engine

PURPOSE:
  All error kinds in one place. Every repository and ledger operation
  returns either a success value or one of these typed errors; nothing
  panics or raises a generic fault under documented inputs.

ERROR CATEGORIES:
  1. Validation errors - Malformed or missing input
  2. Constraint errors - Duplicates, insufficient stock, bad adjustments
  3. Reference errors  - IDs that don't resolve to a record
  4. Storage errors    - Persistent store failures (propagated unmodified)

USAGE:
  Callers branch with errors.Is/errors.As:

    var stockErr *retail.InsufficientStockError
    if errors.As(err, &stockErr) {
        fmt.Println("only", stockErr.Available, "left")
    }

SEE ALSO:
  - ledger.go: Produces stock and reference errors
  - customers.go, products.go: Produce validation and duplicate errors
*/
package retail

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when input is malformed or missing.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate is returned on a unique-constraint violation
	// (customer phone, product description).
	ErrDuplicate = errors.New("duplicate record")

	// ErrInsufficientStock is returned when a sale exceeds available stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidAdjustment is returned when a manual stock change would
	// drive stock negative.
	ErrInvalidAdjustment = errors.New("invalid stock adjustment")

	// ErrNotFound is returned when a reference does not resolve.
	ErrNotFound = errors.New("record not found")

	// ErrStorage is returned when the persistent store fails. The in-memory
	// state is rolled back to the pre-call state before this surfaces.
	ErrStorage = errors.New("storage failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports which field failed and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DuplicateError reports the field and value that collided.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s: %q already registered", e.Field, e.Value)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

// InsufficientStockError carries the quantity actually available.
type InsufficientStockError struct {
	ProductID ProductID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %d, available %d", e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidAdjustmentError reports a manual change that would go negative.
type InvalidAdjustmentError struct {
	ProductID ProductID
	Current   int
	Delta     int
}

func (e *InvalidAdjustmentError) Error() string {
	return fmt.Sprintf("adjustment of %+d would drive stock negative (current %d)", e.Delta, e.Current)
}

func (e *InvalidAdjustmentError) Unwrap() error { return ErrInvalidAdjustment }

// NotFoundError reports an unresolved reference.
type NotFoundError struct {
	Kind string // "customer", "product", "sale"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StorageError wraps a failure from the persistent store. The underlying
// error is preserved and reachable through errors.Is/As.
type StorageError struct {
	Op  string // "get", "set", "remove", "batch"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid caller input
// rather than a system fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidAdjustment)
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
