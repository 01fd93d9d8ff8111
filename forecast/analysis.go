/*
analysis.go - Break-even scans and headline metrics

PURPOSE:
  Post-processes a computed projection. Nothing here re-runs the
  simulation: break-even queries are pure scans over the MonthRecord
  series, and the headline metrics are derived once from month-1 costs
  and the constant capacity ceiling.

HEADLINE METRICS:
  "If nothing grew, what does month 1 look like?" Minimum sessions to
  cover fixed cost, the capacity ceiling, how much of it break-even
  consumes, and the best month the facility could possibly have.

DIVISION GUARDS:
  A configuration where a session nets the clinic nothing (or capacity
  is zero) makes these ratios meaningless; they are reported as zero
  rather than raising.

SEE ALSO:
  - simulation.go: Produces the series analyzed here
*/
package forecast

import (
	"github.com/shopspring/decimal"

	"github.com/clinsim/planning-engine/ledger"
)

// =============================================================================
// BREAK-EVEN / THRESHOLD SCANS
// =============================================================================

// FirstMonthAtOrAbove returns the first month (in month order) whose
// cumulative health balance reaches the target, and whether any month
// did within the horizon.
func FirstMonthAtOrAbove(records []MonthRecord, target decimal.Decimal) (int, bool) {
	for _, r := range records {
		if r.CumulativeHealthBalance.GreaterThanOrEqual(target) {
			return r.Month, true
		}
	}
	return 0, false
}

// MonthsNonNegative counts the months whose cumulative health balance is
// at or above zero.
func MonthsNonNegative(records []MonthRecord) int {
	count := 0
	for _, r := range records {
		if !r.CumulativeHealthBalance.IsNegative() {
			count++
		}
	}
	return count
}

// FirstMonthAtOrAbove is also available on the projection itself.
func (p *Projection) FirstMonthAtOrAbove(target decimal.Decimal) (int, bool) {
	return FirstMonthAtOrAbove(p.Records, target)
}

// MonthsNonNegative counts non-negative balance months in the projection.
func (p *Projection) MonthsNonNegative() int {
	return MonthsNonNegative(p.Records)
}

// =============================================================================
// HEADLINE METRICS - Month-1 / steady-state scalars
// =============================================================================

// Headline holds the scalar indicators shown alongside the projection.
// All are computed once, from month-1 ledger sums and the constant
// capacity ceiling.
type Headline struct {
	NetRevenuePerSession decimal.Decimal
	MonthOneFixedCost    decimal.Decimal

	// MinBreakevenSessions is fixed cost / net revenue per session; zero
	// when a session nets nothing.
	MinBreakevenSessions decimal.Decimal

	AvailableSessions int

	// OccupancyPct is break-even sessions as a percentage of the
	// ceiling; zero when the ceiling is zero.
	OccupancyPct decimal.Decimal

	// MinClientsPerMonth is break-even sessions / 4.
	MinClientsPerMonth decimal.Decimal

	// MaxNetRevenue is the ceiling priced at net revenue per session.
	MaxNetRevenue decimal.Decimal

	// MaxProfit is MaxNetRevenue minus month-1 fixed cost. A month-1
	// reference, not a bound on later months.
	MaxProfit decimal.Decimal
}

func headline(snapshot ledger.Snapshot, p Parameters, netPerSession decimal.Decimal, available int) Headline {
	excluded := ledger.NewCategorySet(p.FinancialCategories...)
	investor := ledger.Normalize(p.InvestorCategory)

	fixed := snapshot.SumOperational(1, excluded)
	for _, c := range p.FinancialCategories {
		paid := snapshot.SumByName(1, c)
		if ledger.Normalize(c) == investor && p.InvestorStartMonth > 1 {
			paid = decimal.Zero
		}
		fixed = fixed.Add(paid)
	}

	h := Headline{
		NetRevenuePerSession: netPerSession,
		MonthOneFixedCost:    fixed,
		AvailableSessions:    available,
	}

	if netPerSession.IsPositive() {
		h.MinBreakevenSessions = fixed.Div(netPerSession)
	}
	if available > 0 {
		h.OccupancyPct = h.MinBreakevenSessions.
			Div(decimal.NewFromInt(int64(available))).
			Mul(decimal.NewFromInt(100))
	}
	if h.MinBreakevenSessions.IsPositive() {
		h.MinClientsPerMonth = h.MinBreakevenSessions.Div(decimal.NewFromInt(SessionsPerClient))
	}

	h.MaxNetRevenue = netPerSession.Mul(decimal.NewFromInt(int64(available)))
	h.MaxProfit = h.MaxNetRevenue.Sub(fixed)
	return h
}
