/*
errors.go - Centralized error types for the forecast engine

PURPOSE:
  All engine error types in one place. Callers classify with errors.Is;
  the API layer maps classes to HTTP statuses.

ERROR CATEGORIES:
  1. Parameter errors - operator input violating an invariant
  2. Ledger errors - the expense snapshot could not be loaded

NOTE:
  "Empty ledger" is NOT an error: a projection over an empty ledger runs
  and yields an all-zero-cost trajectory. ErrLedgerLoad means the load
  itself failed and the run cannot proceed.
*/
package forecast

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidParameters is returned when operator input violates a
	// parameter invariant. Always wrapped by a *ParameterError.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrLedgerLoad is returned when the expense ledger cannot be loaded.
	// Distinct from an empty ledger, which is valid.
	ErrLedgerLoad = errors.New("expense ledger load failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ParameterError identifies which parameter failed validation and why.
type ParameterError struct {
	Field  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameters: %s %s", e.Field, e.Reason)
}

func (e *ParameterError) Unwrap() error { return ErrInvalidParameters }

// LedgerLoadError wraps the underlying store failure.
type LedgerLoadError struct {
	Err error
}

func (e *LedgerLoadError) Error() string {
	return fmt.Sprintf("expense ledger load failed: %v", e.Err)
}

func (e *LedgerLoadError) Unwrap() error { return ErrLedgerLoad }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid operator input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidParameters)
}
