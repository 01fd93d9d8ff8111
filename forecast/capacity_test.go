package forecast_test

import (
	"testing"

	"github.com/clinsim/planning-engine/forecast"
)

// facilityParams: 3 rooms x 12h x 5 days x 4 weeks = 720 gross hours,
// anchor loaded with 100 sessions, associate with 150.
func facilityParams() forecast.Parameters {
	p := baseParams()
	p.Rooms = 3
	p.Anchor = forecast.StaffMember{Name: "Luiza", MonthlySessions: 100, SessionPrice: amount(300)}
	p.Associate = forecast.StaffMember{Name: "Noelia", MonthlySessions: 150, SessionPrice: amount(350)}
	return p
}

// =============================================================================
// SESSION CEILING
// =============================================================================

func TestAvailableSessions_CeilingPolicies(t *testing.T) {
	// GIVEN: 720 gross hours, anchor 100h, associate 150h
	// THEN: none=720, anchor=620, anchor+associate=470

	cases := []struct {
		policy forecast.CeilingPolicy
		want   int
	}{
		{forecast.CeilingNone, 720},
		{forecast.CeilingAnchorOnly, 620},
		{forecast.CeilingAnchorAndAssociate, 470},
	}
	for _, c := range cases {
		p := facilityParams()
		p.CeilingPolicy = c.policy
		if got := p.AvailableSessions(); got != c.want {
			t.Errorf("policy %q: available = %d, want %d", c.policy, got, c.want)
		}
	}
}

func TestAvailableSessions_ClampedAtZero(t *testing.T) {
	// Staff load exceeding the facility never yields a negative ceiling.

	p := facilityParams()
	p.Rooms = 1 // 240 gross hours
	p.Anchor.MonthlySessions = 200
	p.Associate.MonthlySessions = 200
	p.CeilingPolicy = forecast.CeilingAnchorAndAssociate

	if got := p.AvailableSessions(); got != 0 {
		t.Errorf("available = %d, want 0 (clamped)", got)
	}
}

func TestTotalHours(t *testing.T) {
	p := facilityParams()
	if got := p.TotalHours(); got != 720 {
		t.Errorf("total hours = %d, want 720", got)
	}
}

// =============================================================================
// ROOM UTILIZATION ESTIMATE
// =============================================================================

func TestRoomsUsed_Heuristic(t *testing.T) {
	// (anchorHours + sessions) / perRoomHours + 1, capped at room count.
	// Per-room hours here: 12 x 5 x 4 = 240.

	p := facilityParams() // anchor 100h

	cases := []struct {
		sessions int
		want     int
	}{
		{0, 1},    // 100/240 -> 0, +1
		{100, 1},  // 200/240 -> 0, +1
		{150, 2},  // 250/240 -> 1, +1
		{400, 3},  // 500/240 -> 2, +1
		{2000, 3}, // capped at 3 rooms
	}
	for _, c := range cases {
		if got := p.RoomsUsed(c.sessions); got != c.want {
			t.Errorf("RoomsUsed(%d) = %d, want %d", c.sessions, got, c.want)
		}
	}
}

func TestRoomsUsed_AnchorHoursCountRegardlessOfPolicy(t *testing.T) {
	// The utilization estimate always includes the anchor's hours, even
	// when the ceiling policy is "none".

	p := facilityParams()
	p.CeilingPolicy = forecast.CeilingNone
	p.Anchor.MonthlySessions = 250 // alone pushes past one room

	if got := p.RoomsUsed(0); got != 2 {
		t.Errorf("RoomsUsed(0) = %d, want 2", got)
	}
}
