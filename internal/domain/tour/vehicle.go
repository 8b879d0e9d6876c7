package tour

import "time"

// Vehicle is a bookable jeep. SeatCapacity is read at evaluation time; past
// bookings are not retroactively invalidated when it changes.
type Vehicle struct {
	ID           string
	Name         string
	SeatCapacity int
	Active       bool
	CreatedAt    time.Time
}

// Capacity returns the vehicle's seat capacity, falling back to the default
// when unset.
func (v Vehicle) Capacity() int {
	if v.SeatCapacity > 0 {
		return v.SeatCapacity
	}
	return DefaultSeatCapacity
}

// VehicleBlock marks a vehicle as wholly unavailable on one date. A block
// pre-empts all booking-derived run state for that (vehicle, date).
type VehicleBlock struct {
	ID        string
	VehicleID string
	Date      string // DateLayout
	Reason    string
	CreatedAt time.Time
}
