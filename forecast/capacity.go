/*
capacity.go - Room capacity model

PURPOSE:
  Converts the facility configuration (rooms, hours, weekdays, weeks) plus
  the ceiling policy into the session ceiling the clinic can schedule in
  any month. Facility parameters are constant, so the ceiling is the same
  for every month of a run.

THE CEILING:
  totalHours = hoursPerDayPerRoom x weekdaysPerWeek x weeksPerMonth x rooms
  The staff named by the ceiling policy occupy their fixed monthly session
  hours out of that total; the remainder, clamped at zero, is what the
  clinic's paying clients can use. Sessions last exactly one hour, so the
  remaining hours ARE the available sessions.

ROOM UTILIZATION:
  RoomsUsed is a coarse display estimate, not an exact occupancy count:
  anchor hours plus scheduled sessions, divided by one room's monthly
  hours, plus one, capped at the room count. It reports at least one room
  as soon as any load exists. The anchor's hours are always included,
  whatever the ceiling policy says.

SEE ALSO:
  - parameters.go: Facility and staffing inputs
  - simulation.go: Caps monthly demand at AvailableSessions
*/
package forecast

// TotalHours is the facility's gross monthly room-hours.
func (p Parameters) TotalHours() int {
	return p.HoursPerDayPerRoom * p.WeekdaysPerWeek * p.WeeksPerMonth * p.Rooms
}

// hoursPerRoom is one room's monthly hours, the denominator of the
// utilization estimate.
func (p Parameters) hoursPerRoom() int {
	return p.HoursPerDayPerRoom * p.WeekdaysPerWeek * p.WeeksPerMonth
}

// AvailableSessions is the monthly session ceiling for the clinic's own
// paying load: gross room-hours minus the hours occupied by the staff
// named in the ceiling policy, clamped at zero.
func (p Parameters) AvailableSessions() int {
	occupied := 0
	switch p.CeilingPolicy {
	case CeilingAnchorOnly:
		occupied = p.Anchor.OccupiedHours()
	case CeilingAnchorAndAssociate:
		occupied = p.Anchor.OccupiedHours() + p.Associate.OccupiedHours()
	}
	remaining := p.TotalHours() - occupied
	if remaining < 0 {
		remaining = 0
	}
	return remaining / SessionHours
}

// RoomsUsed estimates how many rooms the month's load occupies.
// Best-effort for display; always at least 1 once any load exists,
// never more than the configured room count.
func (p Parameters) RoomsUsed(sessions int) int {
	used := (p.Anchor.OccupiedHours()+sessions)/p.hoursPerRoom() + 1
	if used > p.Rooms {
		return p.Rooms
	}
	return used
}
