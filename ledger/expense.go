/*
Package ledger provides the recurring-expense ledger consumed by the
projection engine.

PURPOSE:
  Holds the strongly-typed Expense record and the activity predicate that
  decides which expenses contribute cost in a given simulated month. The
  engine never talks to the database directly: it receives an immutable
  Snapshot loaded once per run through the Source interface.

KEY CONCEPTS IN THIS FILE (expense.go):
  - Expense: A named recurring cash-flow item with a start month and an
    optional finite duration
  - Snapshot: The full set of expenses, frozen for one projection run
  - Source: Where snapshots come from (store/sqlite in production,
    a slice literal in tests)

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for all monetary values, never float64
  2. Normalization at the boundary: malformed durations become "infinite"
     exactly once, when the record is built - consumers never re-check
  3. Immutability: a Snapshot is read-only for the duration of a run

MONTH CONVENTION:
  Months are 1-indexed simulation months, not calendar dates. An expense
  with StartMonth=3 and DurationMonths=12 is active for months 3..14.
  A nil DurationMonths means active forever from StartMonth on.

SEE ALSO:
  - aggregate.go: Per-month cost sums and category partitioning
  - store/sqlite: Persistent Source implementation
*/
package ledger

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EXPENSE - Recurring cash-flow item
// =============================================================================

// Expense is one recurring cost line. IDs are assigned by the store
// as max existing id + 1.
type Expense struct {
	ID             int64
	Name           string
	Amount         decimal.Decimal
	StartMonth     int
	DurationMonths *int // nil = active indefinitely from StartMonth
}

// NewExpense builds an Expense with the boundary normalization applied:
// StartMonth below 1 becomes 1, a non-positive or NaN duration becomes nil
// (infinite). This is the single place malformed rows are repaired.
func NewExpense(id int64, name string, amount decimal.Decimal, startMonth int, duration *int) Expense {
	if startMonth < 1 {
		startMonth = 1
	}
	if duration != nil && *duration < 1 {
		duration = nil
	}
	return Expense{
		ID:             id,
		Name:           name,
		Amount:         amount,
		StartMonth:     startMonth,
		DurationMonths: duration,
	}
}

// DurationFromFloat converts a raw numeric duration (as stored by loosely
// typed frontends) into the canonical *int form. NaN, infinities, and
// non-positive values all mean "no duration", i.e. infinite.
func DurationFromFloat(raw float64) *int {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return nil
	}
	d := int(raw)
	if d < 1 {
		return nil
	}
	return &d
}

// ActiveIn reports whether the expense contributes cost in the given
// 1-indexed month.
//
// INVARIANT: for DurationMonths=d, the active window is
// [StartMonth, StartMonth+d-1] inclusive; nil d extends it to infinity.
func (e Expense) ActiveIn(month int) bool {
	if month < e.StartMonth {
		return false
	}
	if e.DurationMonths == nil {
		return true
	}
	return month <= e.StartMonth+*e.DurationMonths-1
}

// EndMonth returns the last active month and true, or (0, false) for an
// open-ended expense.
func (e Expense) EndMonth() (int, bool) {
	if e.DurationMonths == nil {
		return 0, false
	}
	return e.StartMonth + *e.DurationMonths - 1, true
}

// =============================================================================
// SNAPSHOT - Immutable ledger view for one projection run
// =============================================================================

// Snapshot is the complete expense ledger, loaded once at the start of a
// projection run. The engine treats it as read-only; the persisted ledger
// may change between runs but never within one.
type Snapshot []Expense

// =============================================================================
// SOURCE - Where snapshots come from
// =============================================================================

// Source loads the expense ledger. An empty ledger is a valid result
// (all sums are zero); a non-nil error means the run cannot proceed.
// The two outcomes are distinct and must not be conflated.
type Source interface {
	LoadExpenses(ctx context.Context) ([]Expense, error)
}
