package tour

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkBooking(id, date, vehicleID string, rate RateType, seats int, opts ...func(*Booking)) Booking {
	b := Booking{
		ID:           id,
		VehicleID:    vehicleID,
		Date:         date,
		TourOptionID: "whale-watch",
		RateType:     rate,
		Seats:        seats,
		Status:       StatusConfirmed,
		CreatedAt:    time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	for _, o := range opts {
		o(&b)
	}
	return b
}

func createdAt(t time.Time) func(*Booking) {
	return func(b *Booking) { b.CreatedAt = t }
}

func withStatus(s BookingStatus) func(*Booking) {
	return func(b *Booking) { b.Status = s }
}

func withTour(id string) func(*Booking) {
	return func(b *Booking) { b.TourOptionID = id }
}

func TestResolveRunState_EmptyRun(t *testing.T) {
	state := ResolveRunState(nil, nil, RunQuery{Date: "2024-06-01", VehicleID: "jeep-1", SeatCapacity: 6})

	assert.Equal(t, RunEmpty, state.Type)
	assert.Equal(t, "2024-06-01-jeep-1", state.ID)
	assert.Equal(t, 0, state.OccupiedSeats)
	assert.Equal(t, 6, state.SeatsRemaining)
	assert.False(t, state.IsFull)
	assert.False(t, state.IsBlocked)
	assert.Empty(t, state.ActiveBookings)
}

func TestResolveRunState_SharedOccupancy(t *testing.T) {
	bookings := []Booking{
		mkBooking("b1", "2024-06-01", "jeep-1", RateShared, 3),
		mkBooking("b2", "2024-06-01", "jeep-1", RateShared, 2, createdAt(time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC))),
		mkBooking("other-day", "2024-06-02", "jeep-1", RateShared, 4),
		mkBooking("other-jeep", "2024-06-01", "jeep-2", RateShared, 4),
	}

	state := ResolveRunState(bookings, nil, RunQuery{Date: "2024-06-01", VehicleID: "jeep-1", SeatCapacity: 6})

	assert.Equal(t, RunShared, state.Type)
	assert.Equal(t, "whale-watch", state.TourOptionID)
	assert.Equal(t, 5, state.OccupiedSeats)
	assert.Equal(t, 1, state.SeatsRemaining)
	assert.False(t, state.IsFull)
	assert.Len(t, state.ActiveBookings, 2)
	assert.Len(t, state.AllBookings, 2)
}

// occupiedSeats + seatsRemaining must equal capacity for any shared run that
// is not overbooked.
func TestResolveRunState_SharedCapacityInvariant(t *testing.T) {
	for seats := 0; seats <= 6; seats++ {
		var bookings []Booking
		if seats > 0 {
			bookings = append(bookings, mkBooking("b1", "2024-06-01", "jeep-1", RateShared, seats))
		}
		state := ResolveRunState(bookings, nil, RunQuery{Date: "2024-06-01", VehicleID: "jeep-1", SeatCapacity: 6})
		assert.Equal(t, 6, state.OccupiedSeats+state.SeatsRemaining, "seats=%d", seats)
	}
}

func TestResolveRunState_SharedFullAtCapacity(t *testing.T) {
	bookings := []Booking{
		mkBooking("b1", "2024-06-01", "jeep-1", RateShared, 6),
	}
	state := ResolveRunState(bookings, nil, RunQuery{Date: "2024-06-01", VehicleID: "jeep-1", SeatCapacity: 6})

	assert.True(t, state.IsFull)
	assert.Equal(t, 0, state.SeatsRemaining)
}

func TestResolveRunState_PrivateAlwaysFull(t *testing.T) {
	bookings := []Booking{
		mkBooking("b1", "2024-06-01", "jeep-1", RatePrivate, 2),
	}
	state := ResolveRunState(bookings, nil, RunQuery{Date: "2024-06-01", VehicleID: "jeep-1", SeatCapacity: 6})

	assert.Equal(t, RunPrivate, state.Type)
	assert.Equal(t, 2, state.OccupiedSeats)
	assert.Equal(t, 0, state.SeatsRemaining)
	assert.True(t, state.IsFull)
}

func TestResolveRunState_CancelledBookingsIgnored(t *testing.T) {
	bookings := []Booking{
		mkBooking("b1", "2024-06-01", "jeep-1", RatePrivate, 4, withStatus(StatusCancelled)),
		mkBooking("b2", "2024-06-01", "jeep-1", RateShared, 2, createdAt(time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC))),
	}
	state := ResolveRunState(bookings, nil, RunQuery{Date: "2024-06-01", VehicleID: "jeep-1", SeatCapacity: 6})

	assert.Equal(t, RunShared, state.Type, "cancelled private booking must not define run type")
	assert.Equal(t, 2, state.OccupiedSeats)
	assert.Len(t, state.AllBookings, 2, "cancelled bookings still appear in the full list")
	assert.Len(t, state.ActiveBookings, 1)
}

// Resolving with the run's only booking excluded must yield an empty run:
// a booking never counts against itself during an edit.
func TestResolveRunState_SelfExclusionOnEdit(t *testing.T) {
	bookings := []Booking{
		mkBooking("b1", "2024-06-01", "jeep-1", RatePrivate, 4),
	}
	state := ResolveRunState(bookings, nil, RunQuery{
		Date: "2024-06-01", VehicleID: "jeep-1",
		ExcludeBookingID: "b1", SeatCapacity: 6,
	})

	assert.Equal(t, RunEmpty, state.Type)
	assert.Equal(t, 0, state.OccupiedSeats)
	assert.Equal(t, 6, state.SeatsRemaining)
	assert.False(t, state.IsFull)
}

// A block wins even when active bookings exist for the same key.
func TestResolveRunState_BlockPrecedence(t *testing.T) {
	bookings := []Booking{
		mkBooking("b1", "2024-06-01", "jeep-1", RateShared, 3),
	}
	blocks := []VehicleBlock{
		{ID: "bl1", VehicleID: "jeep-1", Date: "2024-06-01", Reason: "maintenance"},
	}

	state := ResolveRunState(bookings, blocks, RunQuery{Date: "2024-06-01", VehicleID: "jeep-1", SeatCapacity: 6})

	assert.Equal(t, RunBlocked, state.Type)
	assert.True(t, state.IsBlocked)
	assert.True(t, state.IsFull)
	assert.Equal(t, 6, state.OccupiedSeats)
	assert.Equal(t, 0, state.SeatsRemaining)
	assert.Equal(t, "maintenance", state.BlockReason)
	assert.Equal(t, "bl1", state.BlockID)
	assert.Empty(t, state.ActiveBookings, "blocked runs ignore booking data")
	assert.Empty(t, state.AllBookings)
}

func TestResolveRunState_BlockForOtherVehicleIgnored(t *testing.T) {
	blocks := []VehicleBlock{
		{ID: "bl1", VehicleID: "jeep-2", Date: "2024-06-01", Reason: "maintenance"},
		{ID: "bl2", VehicleID: "jeep-1", Date: "2024-06-02", Reason: "maintenance"},
	}
	state := ResolveRunState(nil, blocks, RunQuery{Date: "2024-06-01", VehicleID: "jeep-1", SeatCapacity: 6})

	assert.False(t, state.IsBlocked)
	assert.Equal(t, RunEmpty, state.Type)
}

// Duplicate blocks for the same pair must resolve deterministically.
func TestResolveRunState_DuplicateBlocksPickFirstByID(t *testing.T) {
	blocks := []VehicleBlock{
		{ID: "bl9", VehicleID: "jeep-1", Date: "2024-06-01", Reason: "later"},
		{ID: "bl1", VehicleID: "jeep-1", Date: "2024-06-01", Reason: "earlier"},
	}
	state := ResolveRunState(nil, blocks, RunQuery{Date: "2024-06-01", VehicleID: "jeep-1"})

	require.True(t, state.IsBlocked)
	assert.Equal(t, "bl1", state.BlockID)
	assert.Equal(t, "earlier", state.BlockReason)
}

// The earliest-created active booking fixes type and tour option regardless
// of snapshot order.
func TestResolveRunState_TypeFromEarliestCreated(t *testing.T) {
	early := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	late := time.Date(2024, 5, 25, 9, 0, 0, 0, time.UTC)
	bookings := []Booking{
		mkBooking("b-late", "2024-06-01", "jeep-1", RateShared, 2, createdAt(late), withTour("sunset")),
		mkBooking("b-early", "2024-06-01", "jeep-1", RateShared, 2, createdAt(early), withTour("whale-watch")),
	}

	state := ResolveRunState(bookings, nil, RunQuery{Date: "2024-06-01", VehicleID: "jeep-1", SeatCapacity: 6})

	assert.Equal(t, "whale-watch", state.TourOptionID)
	assert.Equal(t, "b-early", state.ActiveBookings[0].ID)
}

func TestResolveRunState_DefaultCapacity(t *testing.T) {
	state := ResolveRunState(nil, nil, RunQuery{Date: "2024-06-01", VehicleID: "jeep-1"})
	assert.Equal(t, DefaultSeatCapacity, state.SeatsRemaining)
}
