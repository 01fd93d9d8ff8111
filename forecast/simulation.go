/*
simulation.go - Monthly simulation step and projection runner

PURPOSE:
  Composes the ledger aggregator, the capacity model, and the growth
  recurrence into one month's revenue/cost/profit, then drives that step
  over the full horizon, accumulating profit into the running financial
  health balance.

EXECUTION MODEL:
  Strictly sequential: month m's growth state depends on month m-1's, so
  months cannot be evaluated in parallel. A run is O(horizon x ledger
  size) and owns all of its state - the ledger snapshot is loaded once
  at the start and treated as read-only, and concurrent runs (two
  operators trying different assumptions) never share a GrowthState or
  accumulator.

MONTHLY STEP:
  1. Sum operational cost and each tracked financial category from the
     ledger (the investor category is forced to zero before its start
     month, regardless of ledger activity).
  2. Pre-operating months: no clients, no revenue, profit = -fixed cost.
  3. Operating months: advance the growth recurrence, cap demand at the
     room-capacity ceiling, price the sessions at the constant net
     revenue per session.
  4. Fold profit into the cumulative health balance (seeded with the
     initial balance) and the category payments into their cumulative
     totals.

INVARIANTS:
  - cumulativeHealthBalance[m] = initial + sum of profit[1..m]
  - sessions[m] <= AvailableSessions for every m
  - running the same snapshot + parameters twice yields identical output

SEE ALSO:
  - growth.go: The stateful recurrence advanced in step 3
  - capacity.go: The session ceiling applied in step 3
  - analysis.go: Break-even scans and headline metrics over the output
*/
package forecast

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/clinsim/planning-engine/ledger"
)

// =============================================================================
// MONTH RECORD - One simulated month, the engine's primary output
// =============================================================================

// MonthRecord is the outcome of one simulated month. Records are emitted
// in strict month order, 1..horizon.
type MonthRecord struct {
	Month      int
	Clients    int
	StaffCount int // anchor + dynamic hires; 0 before operation starts
	RoomsUsed  int
	Sessions   int

	OperationalCost  decimal.Decimal
	CategoryPayments map[string]decimal.Decimal // this month, by normalized category
	TotalFixedCost   decimal.Decimal
	Revenue          decimal.Decimal
	Profit           decimal.Decimal

	CumulativeHealthBalance decimal.Decimal
	CategoryCumulative      map[string]decimal.Decimal
}

// Projection is the full output of one run.
type Projection struct {
	Parameters Parameters
	Records    []MonthRecord
	Headline   Headline
}

// =============================================================================
// ENGINE - Snapshot-loading front door
// =============================================================================

// Engine runs projections against a ledger Source. The snapshot is
// loaded once per run; the persisted ledger may change between runs but
// is fixed within one.
type Engine struct {
	Source ledger.Source
}

// New creates an Engine backed by the given ledger source.
func New(src ledger.Source) *Engine {
	return &Engine{Source: src}
}

// Run loads the expense snapshot and projects it under the given
// parameters. A load failure is a hard error (wrapped as ErrLedgerLoad);
// an empty ledger is not.
func (e *Engine) Run(ctx context.Context, p Parameters) (*Projection, error) {
	expenses, err := e.Source.LoadExpenses(ctx)
	if err != nil {
		return nil, &LedgerLoadError{Err: err}
	}
	return Run(ledger.Snapshot(expenses), p)
}

// =============================================================================
// PROJECTION RUNNER
// =============================================================================

// Run projects the given snapshot under the given parameters. Pure:
// same inputs, same output, no retained state.
func Run(snapshot ledger.Snapshot, p Parameters) (*Projection, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.withDefaults()

	categories := make([]string, len(p.FinancialCategories))
	for i, c := range p.FinancialCategories {
		categories[i] = ledger.Normalize(c)
	}
	excluded := ledger.NewCategorySet(categories...)
	investor := ledger.Normalize(p.InvestorCategory)

	// Constant across the run: facility parameters and pricing never
	// change mid-projection.
	netPerSession := p.NetRevenuePerSession()
	available := p.AvailableSessions()

	var (
		state      GrowthState
		balance    = p.InitialHealthBalance
		cumulative = make(map[string]decimal.Decimal, len(categories))
		records    = make([]MonthRecord, 0, p.HorizonMonths)
	)
	for _, c := range categories {
		cumulative[c] = decimal.Zero
	}

	for month := 1; month <= p.HorizonMonths; month++ {
		operational := snapshot.SumOperational(month, excluded)

		payments := make(map[string]decimal.Decimal, len(categories))
		fixed := operational
		for _, c := range categories {
			paid := snapshot.SumByName(month, c)
			if c == investor && month < p.InvestorStartMonth {
				paid = decimal.Zero
			}
			payments[c] = paid
			fixed = fixed.Add(paid)
		}

		rec := MonthRecord{
			Month:            month,
			OperationalCost:  operational,
			CategoryPayments: payments,
			TotalFixedCost:   fixed,
		}

		if month <= p.MonthsBeforeOperating {
			// Rent-only month: costs accrue, nothing operates.
			rec.Revenue = decimal.Zero
			rec.Profit = fixed.Neg()
		} else {
			state.Advance(month, p)

			sessions := state.Clients * SessionsPerClient
			if sessions > available {
				sessions = available
			}

			rec.Clients = state.Clients
			rec.StaffCount = state.StaffCount()
			rec.Sessions = sessions
			rec.RoomsUsed = p.RoomsUsed(sessions)
			rec.Revenue = netPerSession.Mul(decimal.NewFromInt(int64(sessions)))
			rec.Profit = rec.Revenue.Sub(fixed)
		}

		balance = balance.Add(rec.Profit)
		rec.CumulativeHealthBalance = balance

		rec.CategoryCumulative = make(map[string]decimal.Decimal, len(categories))
		for _, c := range categories {
			cumulative[c] = cumulative[c].Add(payments[c])
			rec.CategoryCumulative[c] = cumulative[c]
		}

		records = append(records, rec)
	}

	return &Projection{
		Parameters: p,
		Records:    records,
		Headline:   headline(snapshot, p, netPerSession, available),
	}, nil
}
