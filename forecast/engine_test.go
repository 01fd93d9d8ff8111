package forecast_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/clinsim/planning-engine/forecast"
	"github.com/clinsim/planning-engine/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func months(n int) *int {
	return &n
}

func expense(id int64, name string, v float64, start int, dur *int) ledger.Expense {
	return ledger.NewExpense(id, name, amount(v), start, dur)
}

// baseParams is the reference configuration: R$300 sessions, 60% clinic
// share, 15% tax on total revenue, single 12h room, operating from
// month 1 with 15 clients growing by 5.
func baseParams() forecast.Parameters {
	return forecast.Parameters{
		SessionPrice: amount(300),
		ClinicShare:  amount(0.6),
		TaxBase:      forecast.TaxBaseTotalRevenue,
		TaxRate:      amount(0.15),

		MonthsBeforeOperating: 0,
		InitialClients:        15,

		CeilingPolicy: forecast.CeilingNone,

		WeekdaysPerWeek:    5,
		WeeksPerMonth:      4,
		HoursPerDayPerRoom: 12,
		Rooms:              1,

		MonthlyClientGrowth: 5,
		InvestorStartMonth:  1,

		HireCapacity: 30,
	}
}

// rentLedger is the minimal snapshot: open-ended R$5000 rent.
func rentLedger() ledger.Snapshot {
	return ledger.Snapshot{expense(1, "RENT", 5000, 1, nil)}
}

func mustRun(t *testing.T, snap ledger.Snapshot, p forecast.Parameters) *forecast.Projection {
	t.Helper()
	proj, err := forecast.Run(snap, p)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return proj
}

// =============================================================================
// REFERENCE SCENARIO
// =============================================================================

func TestRun_ReferenceScenario_MonthOne(t *testing.T) {
	// GIVEN: R$5000 open-ended rent, base pricing, 15 initial clients
	// WHEN: Projecting month 1
	// THEN: net/session=135, ceiling=240, sessions=min(60,240)=60,
	//       revenue=8100, fixed=5000, profit=3100

	proj := mustRun(t, rentLedger(), baseParams())

	if len(proj.Records) != forecast.DefaultHorizonMonths {
		t.Fatalf("got %d records, want %d", len(proj.Records), forecast.DefaultHorizonMonths)
	}

	m1 := proj.Records[0]
	if !proj.Headline.NetRevenuePerSession.Equal(amount(135)) {
		t.Errorf("net revenue/session = %s, want 135", proj.Headline.NetRevenuePerSession)
	}
	if proj.Headline.AvailableSessions != 240 {
		t.Errorf("available sessions = %d, want 240", proj.Headline.AvailableSessions)
	}
	if m1.Clients != 15 {
		t.Errorf("clients = %d, want 15", m1.Clients)
	}
	if m1.Sessions != 60 {
		t.Errorf("sessions = %d, want 60", m1.Sessions)
	}
	if !m1.Revenue.Equal(amount(8100)) {
		t.Errorf("revenue = %s, want 8100", m1.Revenue)
	}
	if !m1.TotalFixedCost.Equal(amount(5000)) {
		t.Errorf("fixed cost = %s, want 5000", m1.TotalFixedCost)
	}
	if !m1.Profit.Equal(amount(3100)) {
		t.Errorf("profit = %s, want 3100", m1.Profit)
	}
}

func TestRun_ReferenceScenario_BreakevenAtMonthOne(t *testing.T) {
	// WHEN: initialHealthBalance + profit[1] >= 0
	// THEN: The zero threshold is crossed in month 1

	proj := mustRun(t, rentLedger(), baseParams())

	month, ok := proj.FirstMonthAtOrAbove(decimal.Zero)
	if !ok || month != 1 {
		t.Errorf("FirstMonthAtOrAbove(0) = (%d, %v), want (1, true)", month, ok)
	}
}

// =============================================================================
// INVARIANTS
// =============================================================================

func TestRun_CumulativeBalance_DeltaIsProfit(t *testing.T) {
	// For all m in 2..60: balance[m] - balance[m-1] == profit[m],
	// and balance[1] == initial + profit[1].

	p := baseParams()
	p.InitialHealthBalance = amount(10000)
	proj := mustRun(t, rentLedger(), p)

	first := proj.Records[0]
	if want := p.InitialHealthBalance.Add(first.Profit); !first.CumulativeHealthBalance.Equal(want) {
		t.Errorf("balance[1] = %s, want %s", first.CumulativeHealthBalance, want)
	}
	for m := 1; m < len(proj.Records); m++ {
		delta := proj.Records[m].CumulativeHealthBalance.Sub(proj.Records[m-1].CumulativeHealthBalance)
		if !delta.Equal(proj.Records[m].Profit) {
			t.Errorf("month %d: balance delta %s != profit %s", m+1, delta, proj.Records[m].Profit)
		}
	}
}

func TestRun_SessionsNeverExceedCeiling(t *testing.T) {
	// GIVEN: Aggressive growth that should saturate the single room
	// THEN: sessions[m] <= the capacity ceiling for every month

	p := baseParams()
	p.MonthlyClientGrowth = 50
	proj := mustRun(t, rentLedger(), p)

	ceiling := proj.Headline.AvailableSessions
	saturated := false
	for _, r := range proj.Records {
		if r.Sessions > ceiling {
			t.Errorf("month %d: sessions %d exceed ceiling %d", r.Month, r.Sessions, ceiling)
		}
		if r.Sessions == ceiling {
			saturated = true
		}
	}
	if !saturated {
		t.Error("growth never saturated the ceiling; test scenario too weak")
	}
}

func TestRun_Idempotent(t *testing.T) {
	// Two runs over the same snapshot and parameters must be identical:
	// no hidden state survives a run.

	snap := ledger.Snapshot{
		expense(1, "RENT", 5000, 1, nil),
		expense(2, "PRONAMPE", 1200, 1, months(24)),
		expense(3, "INVESTIDOR", 3000, 1, nil),
	}
	p := baseParams()
	p.InvestorStartMonth = 8

	a := mustRun(t, snap, p)
	b := mustRun(t, snap, p)

	if !reflect.DeepEqual(a.Records, b.Records) {
		t.Error("identical runs produced different records")
	}
}

// =============================================================================
// INVESTOR GATING
// =============================================================================

func TestRun_InvestorPaymentsGatedByStartMonth(t *testing.T) {
	// GIVEN: An INVESTIDOR line active from month 1, gate at month 8
	// THEN: Payment is exactly 0 for months 1..7 and 3000 from month 8,
	//       and fixed cost follows

	snap := ledger.Snapshot{
		expense(1, "RENT", 5000, 1, nil),
		expense(2, "INVESTIDOR", 3000, 1, nil),
	}
	p := baseParams()
	p.InvestorStartMonth = 8

	proj := mustRun(t, snap, p)

	for _, r := range proj.Records {
		paid := r.CategoryPayments["INVESTIDOR"]
		if r.Month < 8 {
			if !paid.IsZero() {
				t.Errorf("month %d: investor payment %s, want 0", r.Month, paid)
			}
			if !r.TotalFixedCost.Equal(amount(5000)) {
				t.Errorf("month %d: fixed %s, want 5000", r.Month, r.TotalFixedCost)
			}
		} else {
			if !paid.Equal(amount(3000)) {
				t.Errorf("month %d: investor payment %s, want 3000", r.Month, paid)
			}
			if !r.TotalFixedCost.Equal(amount(8000)) {
				t.Errorf("month %d: fixed %s, want 8000", r.Month, r.TotalFixedCost)
			}
		}
	}

	// Cumulative investor total only starts moving at month 8.
	m7 := proj.Records[6].CategoryCumulative["INVESTIDOR"]
	m8 := proj.Records[7].CategoryCumulative["INVESTIDOR"]
	if !m7.IsZero() || !m8.Equal(amount(3000)) {
		t.Errorf("cumulative investor m7=%s m8=%s, want 0 and 3000", m7, m8)
	}
}

// =============================================================================
// PRE-OPERATING MONTHS
// =============================================================================

func TestRun_PreOperatingMonths_RentOnly(t *testing.T) {
	// GIVEN: 3 rent-only months before operation
	// THEN: Months 1..3 have no clients/staff/sessions/revenue and
	//       profit = -fixed; month 4 starts with the initial clients

	p := baseParams()
	p.MonthsBeforeOperating = 3
	proj := mustRun(t, rentLedger(), p)

	for _, r := range proj.Records[:3] {
		if r.Clients != 0 || r.StaffCount != 0 || r.Sessions != 0 || r.RoomsUsed != 0 {
			t.Errorf("month %d: non-zero activity before operation: %+v", r.Month, r)
		}
		if !r.Revenue.IsZero() {
			t.Errorf("month %d: revenue %s, want 0", r.Month, r.Revenue)
		}
		if !r.Profit.Equal(r.TotalFixedCost.Neg()) {
			t.Errorf("month %d: profit %s, want -%s", r.Month, r.Profit, r.TotalFixedCost)
		}
	}

	m4 := proj.Records[3]
	if m4.Clients != p.InitialClients {
		t.Errorf("first operating month clients = %d, want %d", m4.Clients, p.InitialClients)
	}
	if m4.StaffCount < 1 {
		t.Errorf("first operating month staff = %d, want at least the anchor", m4.StaffCount)
	}
}

// =============================================================================
// LEDGER EDGE CASES
// =============================================================================

func TestRun_EmptyLedger_AllZeroCosts(t *testing.T) {
	// An empty ledger is not an error: the projection runs with zero
	// costs and profit equals revenue.

	proj := mustRun(t, ledger.Snapshot{}, baseParams())

	for _, r := range proj.Records {
		if !r.TotalFixedCost.IsZero() || !r.OperationalCost.IsZero() {
			t.Errorf("month %d: costs on empty ledger", r.Month)
		}
		if !r.Profit.Equal(r.Revenue) {
			t.Errorf("month %d: profit %s != revenue %s", r.Month, r.Profit, r.Revenue)
		}
	}
}

type failingSource struct{}

func (failingSource) LoadExpenses(context.Context) ([]ledger.Expense, error) {
	return nil, errors.New("connection refused")
}

type emptySource struct{}

func (emptySource) LoadExpenses(context.Context) ([]ledger.Expense, error) {
	return []ledger.Expense{}, nil
}

func TestEngine_LoadFailureIsHard_EmptyIsNot(t *testing.T) {
	// "Failed to load" and "empty" are distinct outcomes.

	ctx := context.Background()

	_, err := forecast.New(failingSource{}).Run(ctx, baseParams())
	if !errors.Is(err, forecast.ErrLedgerLoad) {
		t.Errorf("failing source: err = %v, want ErrLedgerLoad", err)
	}

	proj, err := forecast.New(emptySource{}).Run(ctx, baseParams())
	if err != nil {
		t.Errorf("empty source must not error: %v", err)
	}
	if proj == nil || len(proj.Records) != forecast.DefaultHorizonMonths {
		t.Error("empty source must still produce a full projection")
	}
}

// =============================================================================
// PARAMETER VALIDATION
// =============================================================================

func TestRun_InvalidParameters(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*forecast.Parameters)
	}{
		{"zero rooms", func(p *forecast.Parameters) { p.Rooms = 0 }},
		{"zero hours", func(p *forecast.Parameters) { p.HoursPerDayPerRoom = 0 }},
		{"share above one", func(p *forecast.Parameters) { p.ClinicShare = amount(1.5) }},
		{"negative tax", func(p *forecast.Parameters) { p.TaxRate = amount(-0.1) }},
		{"zero hire capacity", func(p *forecast.Parameters) { p.HireCapacity = 0 }},
		{"eight weekdays", func(p *forecast.Parameters) { p.WeekdaysPerWeek = 8 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := baseParams()
			c.mutate(&p)
			_, err := forecast.Run(rentLedger(), p)
			if !errors.Is(err, forecast.ErrInvalidParameters) {
				t.Errorf("err = %v, want ErrInvalidParameters", err)
			}
			var perr *forecast.ParameterError
			if !errors.As(err, &perr) {
				t.Errorf("err = %v, want *ParameterError", err)
			}
		})
	}
}
