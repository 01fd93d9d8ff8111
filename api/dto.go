/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  engine's decimal-typed domain model from the wire. Percentages cross
  the wire as 0..100 the way operators think about them; the engine
  works in fractions.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Structural validation (parse errors) happens in handlers; domain
  validation is forecast.Parameters.Validate, surfaced as 400s.

SEE ALSO:
  - handlers.go: Uses these types
  - forecast/parameters.go: The domain-side parameter type
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/clinsim/planning-engine/config"
	"github.com/clinsim/planning-engine/forecast"
	"github.com/clinsim/planning-engine/ledger"
)

// =============================================================================
// EXPENSES
// =============================================================================

// ExpenseDTO represents one ledger line in API responses.
type ExpenseDTO struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"`
	StartMonth     int     `json:"start_month"`
	DurationMonths *int    `json:"duration_months,omitempty"` // absent = infinite
}

// CreateExpenseRequest is the request to add a ledger line. A missing
// or non-positive duration means the expense runs indefinitely.
type CreateExpenseRequest struct {
	Name           string   `json:"name"`
	Amount         float64  `json:"amount"`
	StartMonth     int      `json:"start_month"`
	DurationMonths *float64 `json:"duration_months,omitempty"`
}

// UpdateExpenseRequest carries a partial update; nil fields are left
// alone. ClearDuration makes the expense indefinite.
type UpdateExpenseRequest struct {
	Name           *string  `json:"name,omitempty"`
	Amount         *float64 `json:"amount,omitempty"`
	StartMonth     *int     `json:"start_month,omitempty"`
	DurationMonths *float64 `json:"duration_months,omitempty"`
	ClearDuration  bool     `json:"clear_duration,omitempty"`
}

// =============================================================================
// PROJECTION
// =============================================================================

// ParametersDTO is the wire form of the simulation assumptions.
// Percentages are 0..100.
type ParametersDTO struct {
	SessionPrice   float64 `json:"session_price"`
	ClinicSharePct float64 `json:"clinic_share_pct"`
	TaxBase        string  `json:"tax_base"`
	TaxPct         float64 `json:"tax_pct"`

	MonthsBeforeOperating int `json:"months_before_operating"`
	InitialClients        int `json:"initial_clients"`

	CeilingPolicy string   `json:"ceiling_policy"`
	Anchor        StaffDTO `json:"anchor"`
	Associate     StaffDTO `json:"associate"`

	WeekdaysPerWeek    int `json:"weekdays_per_week"`
	WeeksPerMonth      int `json:"weeks_per_month"`
	HoursPerDayPerRoom int `json:"hours_per_day_per_room"`
	Rooms              int `json:"rooms"`

	MonthlyClientGrowth int `json:"monthly_client_growth"`
	InvestorStartMonth  int `json:"investor_start_month"`

	ClientsPerNewHire int `json:"clients_per_new_hire"`
	HireCapacity      int `json:"hire_capacity"`

	InitialHealthBalance float64 `json:"initial_health_balance"`

	FinancialCategories []string `json:"financial_categories,omitempty"`
	InvestorCategory    string   `json:"investor_category,omitempty"`

	HorizonMonths int `json:"horizon_months,omitempty"`
}

// StaffDTO mirrors forecast.StaffMember.
type StaffDTO struct {
	Name            string  `json:"name"`
	MonthlySessions int     `json:"monthly_sessions"`
	SessionPrice    float64 `json:"session_price"`
}

// ProjectionRequest asks for a projection run. A nil Parameters uses
// the server's configured defaults; a zero BreakevenTarget uses the
// configured target.
type ProjectionRequest struct {
	Parameters      *ParametersDTO `json:"parameters,omitempty"`
	BreakevenTarget *float64       `json:"breakeven_target,omitempty"`
}

// MonthRecordDTO is one simulated month on the wire.
type MonthRecordDTO struct {
	Month      int `json:"month"`
	Clients    int `json:"clients"`
	StaffCount int `json:"staff_count"`
	RoomsUsed  int `json:"rooms_used"`
	Sessions   int `json:"sessions"`

	OperationalCost  float64            `json:"operational_cost"`
	CategoryPayments map[string]float64 `json:"category_payments"`
	TotalFixedCost   float64            `json:"total_fixed_cost"`
	Revenue          float64            `json:"revenue"`
	Profit           float64            `json:"profit"`

	HealthBalance      float64            `json:"health_balance"`
	CategoryCumulative map[string]float64 `json:"category_cumulative"`
}

// HeadlineDTO carries the month-1 reference indicators.
type HeadlineDTO struct {
	NetRevenuePerSession float64 `json:"net_revenue_per_session"`
	MonthOneFixedCost    float64 `json:"month_one_fixed_cost"`
	MinBreakevenSessions float64 `json:"min_breakeven_sessions"`
	AvailableSessions    int     `json:"available_sessions"`
	OccupancyPct         float64 `json:"occupancy_pct"`
	MinClientsPerMonth   float64 `json:"min_clients_per_month"`
	MaxNetRevenue        float64 `json:"max_net_revenue"`
	MaxProfit            float64 `json:"max_profit"`
}

// BreakevenDTO reports the threshold analysis for the requested target.
type BreakevenDTO struct {
	Target            float64 `json:"target"`
	Month             *int    `json:"month,omitempty"` // nil = not reached in horizon
	MonthsNonNegative int     `json:"months_non_negative"`
}

// SalaryRowDTO is one month of the staff salary table.
type SalaryRowDTO struct {
	Month           int     `json:"month"`
	Profit          float64 `json:"profit"`
	AnchorSalary    float64 `json:"anchor_salary"`
	AssociateSalary float64 `json:"associate_salary"`
}

// ProjectionResponse is the full projection payload.
type ProjectionResponse struct {
	Headline  HeadlineDTO      `json:"headline"`
	Records   []MonthRecordDTO `json:"records"`
	Breakeven BreakevenDTO     `json:"breakeven"`
	Salaries  []SalaryRowDTO   `json:"salaries"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toExpenseDTO(e ledger.Expense) ExpenseDTO {
	amount, _ := e.Amount.Float64()
	return ExpenseDTO{
		ID:             e.ID,
		Name:           e.Name,
		Amount:         amount,
		StartMonth:     e.StartMonth,
		DurationMonths: e.DurationMonths,
	}
}

func toExpenseDTOs(expenses []ledger.Expense) []ExpenseDTO {
	dtos := make([]ExpenseDTO, len(expenses))
	for i, e := range expenses {
		dtos[i] = toExpenseDTO(e)
	}
	return dtos
}

func (d ParametersDTO) toParameters() forecast.Parameters {
	pct := decimal.NewFromInt(100)
	return forecast.Parameters{
		SessionPrice: decimal.NewFromFloat(d.SessionPrice),
		ClinicShare:  decimal.NewFromFloat(d.ClinicSharePct).Div(pct),
		TaxBase:      forecast.TaxBase(d.TaxBase),
		TaxRate:      decimal.NewFromFloat(d.TaxPct).Div(pct),

		MonthsBeforeOperating: d.MonthsBeforeOperating,
		InitialClients:        d.InitialClients,

		CeilingPolicy: forecast.CeilingPolicy(d.CeilingPolicy),
		Anchor:        d.Anchor.toStaff(),
		Associate:     d.Associate.toStaff(),

		WeekdaysPerWeek:    d.WeekdaysPerWeek,
		WeeksPerMonth:      d.WeeksPerMonth,
		HoursPerDayPerRoom: d.HoursPerDayPerRoom,
		Rooms:              d.Rooms,

		MonthlyClientGrowth: d.MonthlyClientGrowth,
		InvestorStartMonth:  d.InvestorStartMonth,

		ClientsPerNewHire: d.ClientsPerNewHire,
		HireCapacity:      d.HireCapacity,

		InitialHealthBalance: decimal.NewFromFloat(d.InitialHealthBalance),

		FinancialCategories: d.FinancialCategories,
		InvestorCategory:    d.InvestorCategory,

		HorizonMonths: d.HorizonMonths,
	}
}

func (d StaffDTO) toStaff() forecast.StaffMember {
	return forecast.StaffMember{
		Name:            d.Name,
		MonthlySessions: d.MonthlySessions,
		SessionPrice:    decimal.NewFromFloat(d.SessionPrice),
	}
}

func assumptionsToDTO(a config.Assumptions) ParametersDTO {
	return ParametersDTO{
		SessionPrice:          a.SessionPrice,
		ClinicSharePct:        a.ClinicSharePct,
		TaxBase:               a.TaxBase,
		TaxPct:                a.TaxPct,
		MonthsBeforeOperating: a.MonthsBeforeOperating,
		InitialClients:        a.InitialClients,
		CeilingPolicy:         a.CeilingPolicy,
		Anchor:                StaffDTO{Name: a.Anchor.Name, MonthlySessions: a.Anchor.MonthlySessions, SessionPrice: a.Anchor.SessionPrice},
		Associate:             StaffDTO{Name: a.Associate.Name, MonthlySessions: a.Associate.MonthlySessions, SessionPrice: a.Associate.SessionPrice},
		WeekdaysPerWeek:       a.WeekdaysPerWeek,
		WeeksPerMonth:         a.WeeksPerMonth,
		HoursPerDayPerRoom:    a.HoursPerDayPerRoom,
		Rooms:                 a.Rooms,
		MonthlyClientGrowth:   a.MonthlyClientGrowth,
		InvestorStartMonth:    a.InvestorStartMonth,
		ClientsPerNewHire:     a.ClientsPerNewHire,
		HireCapacity:          a.HireCapacity,
		InitialHealthBalance:  a.InitialHealthBalance,
		FinancialCategories:   a.FinancialCategories,
		InvestorCategory:      a.InvestorCategory,
	}
}

func toProjectionResponse(proj *forecast.Projection, target decimal.Decimal) ProjectionResponse {
	records := make([]MonthRecordDTO, len(proj.Records))
	for i, r := range proj.Records {
		records[i] = toMonthRecordDTO(r)
	}

	targetF, _ := target.Float64()
	breakeven := BreakevenDTO{
		Target:            targetF,
		MonthsNonNegative: proj.MonthsNonNegative(),
	}
	if month, ok := proj.FirstMonthAtOrAbove(target); ok {
		breakeven.Month = &month
	}

	salaries := forecast.SalarySchedule(proj.Parameters, proj.Records)
	salaryDTOs := make([]SalaryRowDTO, len(salaries))
	for i, s := range salaries {
		profit, _ := s.Profit.Float64()
		anchor, _ := s.AnchorSalary.Float64()
		associate, _ := s.AssociateSalary.Float64()
		salaryDTOs[i] = SalaryRowDTO{
			Month:           s.Month,
			Profit:          profit,
			AnchorSalary:    anchor,
			AssociateSalary: associate,
		}
	}

	return ProjectionResponse{
		Headline:  toHeadlineDTO(proj.Headline),
		Records:   records,
		Breakeven: breakeven,
		Salaries:  salaryDTOs,
	}
}

func toMonthRecordDTO(r forecast.MonthRecord) MonthRecordDTO {
	operational, _ := r.OperationalCost.Float64()
	fixed, _ := r.TotalFixedCost.Float64()
	revenue, _ := r.Revenue.Float64()
	profit, _ := r.Profit.Float64()
	balance, _ := r.CumulativeHealthBalance.Float64()

	payments := make(map[string]float64, len(r.CategoryPayments))
	for c, v := range r.CategoryPayments {
		payments[c], _ = v.Float64()
	}
	cumulative := make(map[string]float64, len(r.CategoryCumulative))
	for c, v := range r.CategoryCumulative {
		cumulative[c], _ = v.Float64()
	}

	return MonthRecordDTO{
		Month:              r.Month,
		Clients:            r.Clients,
		StaffCount:         r.StaffCount,
		RoomsUsed:          r.RoomsUsed,
		Sessions:           r.Sessions,
		OperationalCost:    operational,
		CategoryPayments:   payments,
		TotalFixedCost:     fixed,
		Revenue:            revenue,
		Profit:             profit,
		HealthBalance:      balance,
		CategoryCumulative: cumulative,
	}
}

func toHeadlineDTO(h forecast.Headline) HeadlineDTO {
	netPerSession, _ := h.NetRevenuePerSession.Float64()
	fixed, _ := h.MonthOneFixedCost.Float64()
	minSessions, _ := h.MinBreakevenSessions.Float64()
	occupancy, _ := h.OccupancyPct.Float64()
	minClients, _ := h.MinClientsPerMonth.Float64()
	maxNet, _ := h.MaxNetRevenue.Float64()
	maxProfit, _ := h.MaxProfit.Float64()
	return HeadlineDTO{
		NetRevenuePerSession: netPerSession,
		MonthOneFixedCost:    fixed,
		MinBreakevenSessions: minSessions,
		AvailableSessions:    h.AvailableSessions,
		OccupancyPct:         occupancy,
		MinClientsPerMonth:   minClients,
		MaxNetRevenue:        maxNet,
		MaxProfit:            maxProfit,
	}
}
