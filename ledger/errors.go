/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The taxonomy is deliberately small and maps directly onto what the UI
  layer must tell the user:

  1. Validation errors - "fix your input", never retried
  2. Persistence errors - "try again later", never retried HERE either,
     because retrying a non-idempotent append could double-count stock

USAGE:
  if ledger.IsValidation(err) {
      // 400-class: reject the form
  }
  if ledger.IsPersistence(err) {
      // 502-class: store is unhealthy
  }

A projection computed immediately after a write may not reflect that write
under eventual consistency. That is a documented risk, not an error; nothing
in this file models it.
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all malformed-input failures.
	ErrValidation = errors.New("invalid movement input")

	// ErrPersistence is the root of all store collaborator failures.
	ErrPersistence = errors.New("ledger store failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a malformed StockMovementInput.
// It unwraps to ErrValidation.
type ValidationError struct {
	Field  string // "quantity", "itemId", "actorId", "movementType"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid movement input: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// PersistenceError wraps a failure from the store collaborator.
// The cause is preserved via Unwrap; errors.Is(err, ErrPersistence) holds.
type PersistenceError struct {
	Op  string // "append", "load"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger store failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation reports whether err means "fix your input".
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsPersistence reports whether err means "the store failed, try again later".
func IsPersistence(err error) bool { return errors.Is(err, ErrPersistence) }
