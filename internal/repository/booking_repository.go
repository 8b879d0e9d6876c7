package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/levada-tours/service-booking/internal/domain/tour"
	"github.com/levada-tours/service-booking/internal/platform/apperror"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID             string          `gorm:"type:uuid;primaryKey"`
	VehicleID      string          `gorm:"type:uuid;index:idx_bookings_run;not null"`
	Date           string          `gorm:"index:idx_bookings_run;not null;size:10"`
	GuestID        string          `gorm:"index;size:36"`
	LeadGuestName  string          `gorm:"not null;size:200"`
	Phone          string          `gorm:"size:50"`
	Email          string          `gorm:"size:200"`
	TourOptionID   string          `gorm:"not null;size:36"`
	MarketSourceID string          `gorm:"not null;size:36"`
	RateType       string          `gorm:"not null;size:10"`
	Seats          int             `gorm:"not null"`
	Status         string          `gorm:"not null;size:20;index"`
	PaymentStatus  string          `gorm:"not null;size:20"`
	PricingMode    string          `gorm:"not null;size:10;default:'STANDARD'"`
	CustomPrice    float64         `gorm:""`
	TotalPrice     *float64        `gorm:""`
	PricePerPerson float64         `gorm:""`
	PrivatePrice   float64         `gorm:""`
	Pickup         json.RawMessage `gorm:"type:jsonb;not null"`
	Notes          string          `gorm:"size:1000"`
	Reminder       json.RawMessage `gorm:"type:jsonb"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id string) (*tour.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("booking", id)
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByDateRange retrieves bookings whose date falls in [from, to] inclusive.
// Dates sort lexicographically in their wire format, so plain string
// comparison is correct.
func (r *GormBookingRepository) FindByDateRange(ctx context.Context, from, to string) ([]tour.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by date range: %w", err)
	}
	return toDomainBookings(models)
}

// FindByGuestID retrieves all bookings linked to a guest profile.
func (r *GormBookingRepository) FindByGuestID(ctx context.Context, guestID string) ([]tour.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("date DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by guest: %w", err)
	}
	return toDomainBookings(models)
}

// FindByVehicle retrieves all bookings for a vehicle across all dates.
func (r *GormBookingRepository) FindByVehicle(ctx context.Context, vehicleID string) ([]tour.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("date ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by vehicle: %w", err)
	}
	return toDomainBookings(models)
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, b *tour.Booking) error {
	model, err := toBookingModel(b)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking.
func (r *GormBookingRepository) Update(ctx context.Context, b *tour.Booking) error {
	model, err := toBookingModel(b)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"vehicle_id":       model.VehicleID,
			"date":             model.Date,
			"guest_id":         model.GuestID,
			"lead_guest_name":  model.LeadGuestName,
			"phone":            model.Phone,
			"email":            model.Email,
			"tour_option_id":   model.TourOptionID,
			"market_source_id": model.MarketSourceID,
			"rate_type":        model.RateType,
			"seats":            model.Seats,
			"status":           model.Status,
			"payment_status":   model.PaymentStatus,
			"pricing_mode":     model.PricingMode,
			"custom_price":     model.CustomPrice,
			"total_price":      model.TotalPrice,
			"price_per_person": model.PricePerPerson,
			"private_price":    model.PrivatePrice,
			"pickup":           model.Pickup,
			"notes":            model.Notes,
			"reminder":         model.Reminder,
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFound("booking", b.ID)
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingModel(b *tour.Booking) (*BookingModel, error) {
	pickupJSON, err := json.Marshal(b.Pickup)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pickup info: %w", err)
	}

	var reminderJSON json.RawMessage
	if b.Reminder != nil {
		data, err := json.Marshal(b.Reminder)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal reminder: %w", err)
		}
		reminderJSON = data
	}

	return &BookingModel{
		ID:             b.ID,
		VehicleID:      b.VehicleID,
		Date:           b.Date,
		GuestID:        b.GuestID,
		LeadGuestName:  b.LeadGuestName,
		Phone:          b.Phone,
		Email:          b.Email,
		TourOptionID:   b.TourOptionID,
		MarketSourceID: b.MarketSourceID,
		RateType:       string(b.RateType),
		Seats:          b.Seats,
		Status:         string(b.Status),
		PaymentStatus:  string(b.PaymentStatus),
		PricingMode:    string(b.PricingMode),
		CustomPrice:    b.CustomPrice,
		TotalPrice:     b.TotalPrice,
		PricePerPerson: b.PricePerPerson,
		PrivatePrice:   b.PrivatePrice,
		Pickup:         pickupJSON,
		Notes:          b.Notes,
		Reminder:       reminderJSON,
		CreatedAt:      b.CreatedAt,
	}, nil
}

func toDomainBooking(m *BookingModel) (*tour.Booking, error) {
	var pickup tour.PickupInfo
	if len(m.Pickup) > 0 {
		if err := json.Unmarshal(m.Pickup, &pickup); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pickup info: %w", err)
		}
	}

	var reminder *tour.Reminder
	if len(m.Reminder) > 0 {
		var rem tour.Reminder
		if err := json.Unmarshal(m.Reminder, &rem); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reminder: %w", err)
		}
		reminder = &rem
	}

	status, err := tour.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return &tour.Booking{
		ID:             m.ID,
		VehicleID:      m.VehicleID,
		Date:           m.Date,
		GuestID:        m.GuestID,
		LeadGuestName:  m.LeadGuestName,
		Phone:          m.Phone,
		Email:          m.Email,
		TourOptionID:   m.TourOptionID,
		MarketSourceID: m.MarketSourceID,
		RateType:       tour.RateType(m.RateType),
		Seats:          m.Seats,
		Status:         status,
		PaymentStatus:  tour.PaymentStatus(m.PaymentStatus),
		PricingMode:    tour.PricingMode(m.PricingMode),
		CustomPrice:    m.CustomPrice,
		TotalPrice:     m.TotalPrice,
		PricePerPerson: m.PricePerPerson,
		PrivatePrice:   m.PrivatePrice,
		Pickup:         pickup,
		Notes:          m.Notes,
		Reminder:       reminder,
		CreatedAt:      m.CreatedAt,
	}, nil
}

func toDomainBookings(models []BookingModel) ([]tour.Booking, error) {
	bookings := make([]tour.Booking, len(models))
	for i := range models {
		b, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = *b
	}
	return bookings, nil
}
