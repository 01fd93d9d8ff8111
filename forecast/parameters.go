/*
Package forecast implements the monthly financial projection engine for the
clinic planning dashboard.

PURPOSE:
  Turns a static expense ledger and a handful of operating parameters into
  a 60-month client-growth, staffing-expansion, capacity-constrained
  revenue/cost/profit trajectory, plus derived break-even and capacity
  metrics.

KEY CONCEPTS IN THIS FILE (parameters.go):
  - Parameters: The full set of operator-tunable assumptions, passed by
    value into the engine. No ambient state, no globals.
  - StaffMember: A named clinician with a fixed monthly session load and
    session price. Staff sessions occupy rooms; they never generate
    clinic revenue.
  - CeilingPolicy: Which staff's sessions are subtracted from the room
    capacity before the clinic's own paying load is scheduled.
  - TaxBase: Whether tax applies to the full session price or only to
    the clinic's share of it.

DESIGN PRINCIPLES:
  1. Immutability: Parameters are constant across a run. One projection
     never observes two different values for the same assumption.
  2. Precision: decimal.Decimal for prices, rates, and balances.
  3. Validation once: Validate() at the boundary, not scattered checks.

SEE ALSO:
  - capacity.go: Room capacity derived from these parameters
  - growth.go: Client and staffing recurrence
  - simulation.go: The monthly step and the projection runner
*/
package forecast

import (
	"github.com/shopspring/decimal"
)

// SessionsPerClient is the planning assumption used throughout: each
// client attends four sessions per month.
const SessionsPerClient = 4

// SessionHours is the fixed session duration. Room hours and session
// counts are numerically identical because of it.
const SessionHours = 1

// DefaultHorizonMonths is the projection horizon.
const DefaultHorizonMonths = 60

// Default financial categories: the clinic's actual credit lines plus the
// investor repayment. These expense names are tracked as separate
// accumulators and excluded from the operational cost bucket.
var DefaultFinancialCategories = []string{"PRONAMPE", "BB GIRO 1", "BB GIRO 2", "INVESTIDOR"}

// DefaultInvestorCategory is the ledger name whose payment is gated by
// Parameters.InvestorStartMonth.
const DefaultInvestorCategory = "INVESTIDOR"

// =============================================================================
// ENUMS
// =============================================================================

// TaxBase selects what the tax rate applies to.
type TaxBase string

const (
	// TaxBaseTotalRevenue taxes the full session price.
	TaxBaseTotalRevenue TaxBase = "total_revenue"
	// TaxBaseClinicShare taxes only the clinic's share of the session.
	TaxBaseClinicShare TaxBase = "clinic_share"
)

// CeilingPolicy selects whose fixed session load counts against room
// capacity when computing sessions available to the clinic.
type CeilingPolicy string

const (
	CeilingNone               CeilingPolicy = "none"
	CeilingAnchorOnly         CeilingPolicy = "anchor"
	CeilingAnchorAndAssociate CeilingPolicy = "anchor_and_associate"
)

// =============================================================================
// STAFF
// =============================================================================

// StaffMember is a named clinician with a fixed monthly session load.
// Their sessions occupy rooms (per CeilingPolicy) and drive the salary
// schedule, but never contribute to clinic revenue.
type StaffMember struct {
	Name            string
	MonthlySessions int
	SessionPrice    decimal.Decimal
}

// OccupiedHours is the staff member's monthly room occupancy.
func (s StaffMember) OccupiedHours() int {
	return s.MonthlySessions * SessionHours
}

// =============================================================================
// PARAMETERS
// =============================================================================

// Parameters holds every operator-tunable assumption for one projection
// run. Pass by value; the engine never mutates it.
type Parameters struct {
	// Pricing
	SessionPrice decimal.Decimal
	ClinicShare  decimal.Decimal // fraction of session price retained, 0..1
	TaxBase      TaxBase
	TaxRate      decimal.Decimal // fraction, 0..1

	// Timing
	MonthsBeforeOperating int // rent-only months with zero revenue
	InitialClients        int // clients in the first operating month

	// Staffing ceiling. The anchor is always present (the fixed "+1" in
	// staff count) and always occupies rooms in the utilization estimate.
	CeilingPolicy CeilingPolicy
	Anchor        StaffMember
	Associate     StaffMember

	// Facility
	WeekdaysPerWeek    int
	WeeksPerMonth      int
	HoursPerDayPerRoom int
	Rooms              int

	// Growth
	MonthlyClientGrowth int
	InvestorStartMonth  int // investor payments before this month are ignored

	// Expansion
	ClientsPerNewHire int // one-time client bump per hire, first operating month only
	HireCapacity      int // clients one hire can serve per month

	// Initial cumulative balance carried into month 1.
	InitialHealthBalance decimal.Decimal

	// Ledger categories. Empty means the defaults above.
	FinancialCategories []string
	InvestorCategory    string

	// Horizon. Zero means DefaultHorizonMonths.
	HorizonMonths int
}

// withDefaults returns a copy with the optional fields filled in.
func (p Parameters) withDefaults() Parameters {
	if p.HorizonMonths == 0 {
		p.HorizonMonths = DefaultHorizonMonths
	}
	if len(p.FinancialCategories) == 0 {
		p.FinancialCategories = DefaultFinancialCategories
	}
	if p.InvestorCategory == "" {
		p.InvestorCategory = DefaultInvestorCategory
	}
	if p.TaxBase == "" {
		p.TaxBase = TaxBaseTotalRevenue
	}
	if p.CeilingPolicy == "" {
		p.CeilingPolicy = CeilingNone
	}
	if p.InvestorStartMonth == 0 {
		p.InvestorStartMonth = 1
	}
	return p
}

// Validate checks the parameter invariants. It returns a *ParameterError
// wrapping ErrInvalidParameters on the first violation found.
func (p Parameters) Validate() error {
	one := decimal.NewFromInt(1)
	switch {
	case p.SessionPrice.IsNegative():
		return &ParameterError{Field: "session_price", Reason: "must not be negative"}
	case p.ClinicShare.IsNegative() || p.ClinicShare.GreaterThan(one):
		return &ParameterError{Field: "clinic_share", Reason: "must be a fraction in [0,1]"}
	case p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(one):
		return &ParameterError{Field: "tax_rate", Reason: "must be a fraction in [0,1]"}
	case p.TaxBase != "" && p.TaxBase != TaxBaseTotalRevenue && p.TaxBase != TaxBaseClinicShare:
		return &ParameterError{Field: "tax_base", Reason: "unknown tax base"}
	case p.CeilingPolicy != "" && p.CeilingPolicy != CeilingNone &&
		p.CeilingPolicy != CeilingAnchorOnly && p.CeilingPolicy != CeilingAnchorAndAssociate:
		return &ParameterError{Field: "ceiling_policy", Reason: "unknown ceiling policy"}
	case p.MonthsBeforeOperating < 0:
		return &ParameterError{Field: "months_before_operating", Reason: "must not be negative"}
	case p.InitialClients < 0:
		return &ParameterError{Field: "initial_clients", Reason: "must not be negative"}
	case p.WeekdaysPerWeek < 1 || p.WeekdaysPerWeek > 7:
		return &ParameterError{Field: "weekdays_per_week", Reason: "must be in 1..7"}
	case p.WeeksPerMonth < 1 || p.WeeksPerMonth > 5:
		return &ParameterError{Field: "weeks_per_month", Reason: "must be in 1..5"}
	case p.HoursPerDayPerRoom < 1:
		return &ParameterError{Field: "hours_per_day_per_room", Reason: "must be at least 1"}
	case p.Rooms < 1:
		return &ParameterError{Field: "rooms", Reason: "must be at least 1"}
	case p.MonthlyClientGrowth < 0:
		return &ParameterError{Field: "monthly_client_growth", Reason: "must not be negative"}
	case p.InvestorStartMonth < 0:
		return &ParameterError{Field: "investor_start_month", Reason: "must not be negative"}
	case p.ClientsPerNewHire < 0:
		return &ParameterError{Field: "clients_per_new_hire", Reason: "must not be negative"}
	case p.HireCapacity < 1:
		return &ParameterError{Field: "hire_capacity", Reason: "must be at least 1"}
	case p.Anchor.MonthlySessions < 0 || p.Associate.MonthlySessions < 0:
		return &ParameterError{Field: "staff_sessions", Reason: "must not be negative"}
	case p.HorizonMonths < 0:
		return &ParameterError{Field: "horizon_months", Reason: "must not be negative"}
	}
	return nil
}

// NetRevenuePerSession computes what one session is worth to the clinic
// after its share and the tax are applied. Constant across a run.
func (p Parameters) NetRevenuePerSession() decimal.Decimal {
	clinicGross := p.SessionPrice.Mul(p.ClinicShare)
	var tax decimal.Decimal
	if p.TaxBase == TaxBaseClinicShare {
		tax = clinicGross.Mul(p.TaxRate)
	} else {
		tax = p.SessionPrice.Mul(p.TaxRate)
	}
	return clinicGross.Sub(tax)
}
