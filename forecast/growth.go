/*
growth.go - Client and staffing growth recurrence

PURPOSE:
  The stateful heart of the projection. Each operating month the client
  base grows, and when projected demand (clients x 4 sessions) exceeds
  what the hired staff can serve, new hires are appended reactively
  within the same month - so a month that triggers a hire benefits from
  the added capacity immediately.

STATE:
  Clients    - integer client count, 0 before operation starts
  HiredStaff - ordered list of hire events, grows monotonically

HIRE FORMULA:
  newHires = shortfall / (hireCapacity*4) + 1   (integer floor division)

  This is the formula the clinic has been planning with. It is an
  approximation of ceiling division that hires one extra whenever the
  shortfall is an exact multiple of hireCapacity*4. Preserved as-is;
  do not replace with true ceiling division without sign-off from the
  plan's owner.

FIRST-MONTH BOOTSTRAP:
  In the clinic's first operating month only, each new hire brings
  ClientsPerNewHire clients with them. Later hires do not.

SEE ALSO:
  - simulation.go: Drives this recurrence month by month
*/
package forecast

// Hire records one capacity-increasing staffing event.
type Hire struct {
	Month int // simulation month the hire was triggered
}

// GrowthState carries the client and staffing recurrence across months.
// Each projection run owns an independent GrowthState; it is never
// shared between runs.
type GrowthState struct {
	Clients    int
	HiredStaff []Hire
}

// StaffCount is the headcount reported for an operating month: the fixed
// anchor clinician plus every dynamic hire.
func (g *GrowthState) StaffCount() int {
	return 1 + len(g.HiredStaff)
}

// sessionCapacity is the hired staff's total capacity in session-units
// (clients-per-hire x 4 sessions per client).
func (g *GrowthState) sessionCapacity(hireCapacity int) int {
	return len(g.HiredStaff) * hireCapacity * SessionsPerClient
}

// Advance applies one operating month's transition: grow the client
// base, hire reactively if demand exceeds capacity, and apply the
// first-month client bump per hire. Returns the number of new hires.
func (g *GrowthState) Advance(month int, p Parameters) int {
	firstOperating := month == p.MonthsBeforeOperating+1
	if firstOperating {
		g.Clients = p.InitialClients
	} else {
		g.Clients += p.MonthlyClientGrowth
	}

	demand := g.Clients * SessionsPerClient
	capacity := g.sessionCapacity(p.HireCapacity)
	if demand <= capacity {
		return 0
	}

	shortfall := demand - capacity
	newHires := shortfall/(p.HireCapacity*SessionsPerClient) + 1
	for i := 0; i < newHires; i++ {
		g.HiredStaff = append(g.HiredStaff, Hire{Month: month})
		if firstOperating {
			g.Clients += p.ClientsPerNewHire
		}
	}
	return newHires
}
