/*
salary.go - Staff salary schedule derived from the projection

PURPOSE:
  The named clinicians are paid independently of clinic revenue: a fixed
  base (their own sessions at their own price, net of tax) plus a profit
  participation in any month the clinic ends positive. This table is
  derived from an already-computed projection; it never feeds back into
  the simulation.

FORMULA:
  base          = monthlySessions x sessionPrice x (1 - taxRate)
  participation = 50% of the month's profit when profit > 0, else 0
  salary[m]     = base + participation[m]   (same participation for both)

SEE ALSO:
  - simulation.go: Source of the monthly profit series
*/
package forecast

import "github.com/shopspring/decimal"

var participationShare = decimal.NewFromFloat(0.5)

// SalaryRow is one month of the staff salary table.
type SalaryRow struct {
	Month           int
	Profit          decimal.Decimal
	AnchorSalary    decimal.Decimal
	AssociateSalary decimal.Decimal
}

// BaseSalary is a staff member's fixed monthly pay: their own session
// load at their own price, net of the simulation's tax rate.
func (p Parameters) BaseSalary(s StaffMember) decimal.Decimal {
	sessions := decimal.NewFromInt(int64(s.MonthlySessions))
	net := decimal.NewFromInt(1).Sub(p.TaxRate)
	return sessions.Mul(s.SessionPrice).Mul(net)
}

// SalarySchedule derives the monthly salary table from a projection's
// profit series.
func SalarySchedule(p Parameters, records []MonthRecord) []SalaryRow {
	anchorBase := p.BaseSalary(p.Anchor)
	associateBase := p.BaseSalary(p.Associate)

	rows := make([]SalaryRow, 0, len(records))
	for _, r := range records {
		participation := decimal.Zero
		if r.Profit.IsPositive() {
			participation = r.Profit.Mul(participationShare)
		}
		rows = append(rows, SalaryRow{
			Month:           r.Month,
			Profit:          r.Profit,
			AnchorSalary:    anchorBase.Add(participation),
			AssociateSalary: associateBase.Add(participation),
		})
	}
	return rows
}
