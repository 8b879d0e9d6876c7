package tour

import "sort"

// RunType classifies the current mode of a tour run.
type RunType string

const (
	RunEmpty   RunType = ""
	RunShared  RunType = RunType(RateShared)
	RunPrivate RunType = RunType(RatePrivate)
	RunBlocked RunType = "BLOCKED"
)

// RunState is the derived, never-persisted view of one (vehicle, date) tour
// run. It is recomputed from the latest snapshot on every query.
type RunState struct {
	ID             string
	Date           string
	VehicleID      string
	Type           RunType
	TourOptionID   string
	OccupiedSeats  int
	SeatsRemaining int
	ActiveBookings []Booking
	AllBookings    []Booking
	IsFull         bool
	IsBlocked      bool
	BlockReason    string
	BlockID        string
}

// RunQuery names the run being resolved and how to resolve it.
// ExcludeBookingID is set when evaluating an in-progress edit so the booking
// does not count against its own capacity.
type RunQuery struct {
	Date             string
	VehicleID        string
	ExcludeBookingID string
	SeatCapacity     int
}

// ResolveRunState derives the live state of one tour run from a full booking
// and block snapshot. It is total: any input, including nil slices, yields a
// usable state, never an error.
//
// Bookings are sorted by CreatedAt (ties by ID) before the first active
// booking fixes the run's type and tour option, so callers may pass the
// snapshot in any order.
func ResolveRunState(bookings []Booking, blocks []VehicleBlock, q RunQuery) RunState {
	capacity := q.SeatCapacity
	if capacity <= 0 {
		capacity = DefaultSeatCapacity
	}
	runID := RunID(q.Date, q.VehicleID)

	// Blocks pre-empt everything; booking data is not consulted.
	if block, ok := findBlock(blocks, q.VehicleID, q.Date); ok {
		return RunState{
			ID:             runID,
			Date:           q.Date,
			VehicleID:      q.VehicleID,
			Type:           RunBlocked,
			OccupiedSeats:  capacity,
			SeatsRemaining: 0,
			ActiveBookings: []Booking{},
			AllBookings:    []Booking{},
			IsFull:         true,
			IsBlocked:      true,
			BlockReason:    block.Reason,
			BlockID:        block.ID,
		}
	}

	all := []Booking{}
	for _, b := range bookings {
		if b.RunID() == runID {
			all = append(all, b)
		}
	}
	sortBookings(all)

	active := []Booking{}
	for _, b := range all {
		if b.Status == StatusCancelled {
			continue
		}
		if q.ExcludeBookingID != "" && b.ID == q.ExcludeBookingID {
			continue
		}
		active = append(active, b)
	}

	state := RunState{
		ID:             runID,
		Date:           q.Date,
		VehicleID:      q.VehicleID,
		ActiveBookings: active,
		AllBookings:    all,
	}

	for _, b := range active {
		state.OccupiedSeats += b.Seats
	}

	if len(active) > 0 {
		state.Type = RunType(active[0].RateType)
		state.TourOptionID = active[0].TourOptionID
	}

	switch state.Type {
	case RunShared:
		state.SeatsRemaining = capacity - state.OccupiedSeats
	case RunPrivate:
		state.SeatsRemaining = 0
	default:
		state.SeatsRemaining = capacity
	}

	state.IsFull = state.Type == RunPrivate ||
		(state.Type == RunShared && state.OccupiedSeats >= capacity)

	return state
}

// findBlock returns the block for (vehicleID, date) if one exists. Data
// sources should hold at most one per pair; if they ever produce more, the
// first after a deterministic sort by ID wins.
func findBlock(blocks []VehicleBlock, vehicleID, date string) (VehicleBlock, bool) {
	var matches []VehicleBlock
	for _, bl := range blocks {
		if bl.VehicleID == vehicleID && bl.Date == date {
			matches = append(matches, bl)
		}
	}
	if len(matches) == 0 {
		return VehicleBlock{}, false
	}
	if len(matches) > 1 {
		sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	}
	return matches[0], true
}

func sortBookings(bs []Booking) {
	sort.SliceStable(bs, func(i, j int) bool {
		if !bs[i].CreatedAt.Equal(bs[j].CreatedAt) {
			return bs[i].CreatedAt.Before(bs[j].CreatedAt)
		}
		return bs[i].ID < bs[j].ID
	})
}
