package tour

import "fmt"

// AdmissionRequest is a prospective new or edited booking, reduced to the
// fields admission depends on.
type AdmissionRequest struct {
	RateType     RateType
	TourOptionID string
	Seats        int
}

// Decision is the outcome of an admission check. Rejections carry a
// user-facing reason; they are results, never errors.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func allow() Decision          { return Decision{Allowed: true} }
func reject(r string) Decision { return Decision{Allowed: false, Reason: r} }

// CheckAvailability decides whether a booking request may be admitted onto a
// run. Rules are evaluated in order and the first match wins.
//
// When evaluating an edit, the run must have been resolved with the
// candidate's own ID excluded so it does not count against its own capacity.
func CheckAvailability(run RunState, req AdmissionRequest, seatCapacity int) Decision {
	if seatCapacity <= 0 {
		seatCapacity = DefaultSeatCapacity
	}

	if req.Seats > seatCapacity {
		return reject(fmt.Sprintf("Max capacity is %d people.", seatCapacity))
	}

	if run.Type == RunEmpty {
		return allow()
	}

	if run.Type == RunPrivate {
		return reject("This jeep is booked for a Private tour.")
	}

	if run.Type == RunBlocked {
		reason := run.BlockReason
		if reason == "" {
			reason = "Blocked"
		}
		return reject("Vehicle unavailable: " + reason)
	}

	if run.Type == RunShared && req.RateType == RatePrivate {
		return reject("Jeep already has Shared bookings. Cannot book Private.")
	}

	if run.Type == RunShared {
		if run.TourOptionID != req.TourOptionID {
			return reject("Jeep is locked to a different Tour Option.")
		}
		remaining := seatCapacity - run.OccupiedSeats
		if req.Seats > remaining {
			return reject(fmt.Sprintf("Not enough seats. Only %d left.", remaining))
		}
		return allow()
	}

	// Unreachable given the rules above; callers should log if it fires.
	return reject("Unknown state.")
}
