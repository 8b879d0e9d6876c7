package tour

import "context"

// BookingRepository defines the persistence contract for booking records.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id string) (*Booking, error)

	// FindByDateRange retrieves bookings whose date falls in [from, to] inclusive.
	FindByDateRange(ctx context.Context, from, to string) ([]Booking, error)

	// FindByGuestID retrieves all bookings linked to a guest profile.
	FindByGuestID(ctx context.Context, guestID string) ([]Booking, error)

	// FindByVehicle retrieves all bookings for a vehicle across all dates.
	FindByVehicle(ctx context.Context, vehicleID string) ([]Booking, error)

	// Save persists a new booking.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking.
	Update(ctx context.Context, b *Booking) error
}

// BlockRepository defines the persistence contract for vehicle blocks.
// Save must be idempotent-safe per (vehicle, date): at most one block row
// may exist for a pair.
type BlockRepository interface {
	FindByDateRange(ctx context.Context, from, to string) ([]VehicleBlock, error)
	FindByVehicle(ctx context.Context, vehicleID string) ([]VehicleBlock, error)
	Save(ctx context.Context, bl *VehicleBlock) error
	Delete(ctx context.Context, id string) error
}

// VehicleRepository defines the persistence contract for vehicles.
type VehicleRepository interface {
	FindByID(ctx context.Context, id string) (*Vehicle, error)
	ListActive(ctx context.Context) ([]Vehicle, error)
	ListAll(ctx context.Context) ([]Vehicle, error)
	Save(ctx context.Context, v *Vehicle) error
	Update(ctx context.Context, v *Vehicle) error
}

// RateRepository defines the persistence contract for the rate table.
type RateRepository interface {
	ListActive(ctx context.Context) ([]Rate, error)
	ListAll(ctx context.Context) ([]Rate, error)
	Save(ctx context.Context, r *Rate) error
	Update(ctx context.Context, r *Rate) error
}
