/*
aggregate.go - Per-month cost sums over the ledger

PURPOSE:
  The simulation asks two questions of the ledger every month:
  1. How much does a specific named line pay this month? (SumByName)
  2. How much does everything else cost? (SumOperational)

  Together the answers partition total active cost for a month: every
  active expense lands in exactly one bucket, none is counted twice.

NAME MATCHING:
  Exact match after normalization (trim + uppercase), never substring.
  "pronampe " and "PRONAMPE" are the same line; "PRONAMPE 2" is not.

FINANCIAL CATEGORIES:
  A small fixed set of expense names (loan facilities, the investor
  repayment) is tracked as separate accumulators and excluded from the
  generic operational bucket. The default set matches the clinic's
  actual credit lines.

SEE ALSO:
  - expense.go: Expense and activity predicate
  - forecast/simulation.go: The monthly step consuming these sums
*/
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// NAME NORMALIZATION
// =============================================================================

// Normalize canonicalizes an expense name for matching: whitespace
// trimmed, uppercased. Matching is always exact on the normalized form.
func Normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// =============================================================================
// CATEGORY SET - Named financial lines tracked separately
// =============================================================================

// CategorySet is a set of normalized expense names excluded from the
// operational bucket and tracked as distinct accumulators.
type CategorySet map[string]struct{}

// NewCategorySet builds a set from raw names, normalizing each.
func NewCategorySet(names ...string) CategorySet {
	set := make(CategorySet, len(names))
	for _, n := range names {
		set[Normalize(n)] = struct{}{}
	}
	return set
}

// Contains reports set membership for a raw (unnormalized) name.
func (cs CategorySet) Contains(name string) bool {
	_, ok := cs[Normalize(name)]
	return ok
}

// =============================================================================
// MONTHLY SUMS
// =============================================================================

// SumByName sums the amounts of expenses active in the given month whose
// normalized name equals the normalized target.
func (s Snapshot) SumByName(month int, exactName string) decimal.Decimal {
	target := Normalize(exactName)
	total := decimal.Zero
	for _, e := range s {
		if Normalize(e.Name) == target && e.ActiveIn(month) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// SumOperational sums the amounts of expenses active in the given month
// whose normalized name is NOT in the excluded set.
//
// INVARIANT (partition): for any month m,
//
//	SumOperational(m, excl) + sum over c in excl of SumByName(m, c)
//	  == sum of Amount over all expenses active in m
func (s Snapshot) SumOperational(month int, excluded CategorySet) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s {
		if excluded.Contains(e.Name) {
			continue
		}
		if e.ActiveIn(month) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// SumActive sums everything active in the month, regardless of bucket.
// Mostly useful for reconciliation checks against the partition above.
func (s Snapshot) SumActive(month int) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s {
		if e.ActiveIn(month) {
			total = total.Add(e.Amount)
		}
	}
	return total
}
