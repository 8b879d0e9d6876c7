package tour

import (
	"fmt"
	"time"
)

// RangeBlockPlan is the outcome of planning a multi-day vehicle block.
// Blocks holds one block record per free date; SkippedDates lists dates that
// already carry active bookings and were left untouched.
type RangeBlockPlan struct {
	Blocks       []VehicleBlock
	SkippedDates []string
}

// PlanRangeBlock walks the inclusive [startDate, endDate] range and decides,
// per day, whether the vehicle can be blocked. A day with any active booking
// is skipped outright; seat counts and run type play no part in the decision.
//
// Planning is pure. Persisting the planned blocks (and accepting partial
// application when individual saves fail) is the caller's concern.
func PlanRangeBlock(bookings []Booking, vehicleID, startDate, endDate, reason string) (RangeBlockPlan, error) {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return RangeBlockPlan{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return RangeBlockPlan{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return RangeBlockPlan{}, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}
	if reason == "" {
		reason = "Unavailable"
	}

	plan := RangeBlockPlan{SkippedDates: []string{}}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(DateLayout)
		run := ResolveRunState(bookings, nil, RunQuery{Date: date, VehicleID: vehicleID})
		if len(run.ActiveBookings) > 0 {
			plan.SkippedDates = append(plan.SkippedDates, date)
			continue
		}
		plan.Blocks = append(plan.Blocks, VehicleBlock{
			VehicleID: vehicleID,
			Date:      date,
			Reason:    reason,
		})
	}
	return plan, nil
}
