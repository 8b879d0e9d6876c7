package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/levada-tours/service-booking/internal/domain/tour"
	"github.com/levada-tours/service-booking/internal/events"
	"github.com/levada-tours/service-booking/internal/platform/apperror"
	"github.com/levada-tours/service-booking/internal/platform/kafka"
)

// eventPublisher is the slice of the Kafka producer the services need.
type eventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// BookingRequest carries the client-supplied fields for creating or editing
// a booking.
type BookingRequest struct {
	VehicleID      string          `json:"vehicle_id" binding:"required"`
	Date           string          `json:"date" binding:"required"`
	GuestID        string          `json:"guest_id"`
	LeadGuestName  string          `json:"lead_guest_name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	TourOptionID   string          `json:"tour_option_id"`
	MarketSourceID string          `json:"market_source_id"`
	RateType       string          `json:"rate_type" binding:"required"`
	Seats          int             `json:"seats" binding:"required"`
	Status         string          `json:"status"`
	PaymentStatus  string          `json:"payment_status"`
	PricingMode    string          `json:"pricing_mode"`
	CustomPrice    float64         `json:"custom_price"`
	TotalPrice     *float64        `json:"total_price"`
	PricePerPerson float64         `json:"price_per_person"`
	PrivatePrice   float64         `json:"private_price"`
	Pickup         tour.PickupInfo `json:"pickup"`
	Notes          string          `json:"notes"`
	Reminder       *tour.Reminder  `json:"reminder"`
}

// BookingDTO is the response representation of a booking. Total and
// PriceSource are resolved on the way out, never stored.
type BookingDTO struct {
	ID             string          `json:"id"`
	RunID          string          `json:"run_id"`
	VehicleID      string          `json:"vehicle_id"`
	Date           string          `json:"date"`
	GuestID        string          `json:"guest_id,omitempty"`
	LeadGuestName  string          `json:"lead_guest_name"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	TourOptionID   string          `json:"tour_option_id"`
	MarketSourceID string          `json:"market_source_id"`
	RateType       string          `json:"rate_type"`
	Seats          int             `json:"seats"`
	Status         string          `json:"status"`
	PaymentStatus  string          `json:"payment_status"`
	Total          float64         `json:"total"`
	PriceSource    string          `json:"price_source"`
	Pickup         tour.PickupInfo `json:"pickup"`
	Notes          string          `json:"notes,omitempty"`
	Reminder       *tour.Reminder  `json:"reminder,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// BookingService orchestrates booking use cases: admission-checked creation
// and edits, cancellation, payment recording, and revenue reporting.
type BookingService struct {
	bookings tour.BookingRepository
	blocks   tour.BlockRepository
	vehicles tour.VehicleRepository
	rates    tour.RateRepository
	producer eventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings tour.BookingRepository,
	blocks tour.BlockRepository,
	vehicles tour.VehicleRepository,
	rates tour.RateRepository,
	producer eventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		blocks:   blocks,
		vehicles: vehicles,
		rates:    rates,
		producer: producer,
		logger:   logger,
	}
}

// CreateBooking admits and persists a new booking. The admission decision is
// made against a freshly loaded snapshot of the run's date.
func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (*BookingDTO, error) {
	booking := fromRequest(req)
	booking.ID = uuid.NewString()
	booking.CreatedAt = time.Now().UTC()
	if booking.Status == "" {
		booking.Status = tour.StatusTentative
	}
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = tour.PaymentPending
	}

	capacity, err := s.vehicleCapacity(ctx, booking.VehicleID)
	if err != nil {
		return nil, err
	}

	if res := tour.ValidateBooking(booking, capacity); !res.IsValid() {
		return nil, apperror.NewFieldValidation("booking is invalid", res.Errors)
	}

	decision, err := s.admit(ctx, booking, "", capacity)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, apperror.NewConflict(decision.Reason)
	}

	if err := s.bookings.Save(ctx, &booking); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	dto, err := s.toDTO(ctx, booking)
	if err != nil {
		return nil, err
	}
	s.publishBookingEvent(ctx, events.BookingCreated, booking, dto.Total)

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("run_id", booking.RunID()),
		zap.Int("seats", booking.Seats),
	)
	return dto, nil
}

// UpdateBooking re-admits an edited booking with its own id excluded from
// the run snapshot, so it never competes with itself for seats.
func (s *BookingService) UpdateBooking(ctx context.Context, id string, req BookingRequest) (*BookingDTO, error) {
	existing, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := fromRequest(req)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if updated.Status == "" {
		updated.Status = existing.Status
	}
	if updated.PaymentStatus == "" {
		updated.PaymentStatus = existing.PaymentStatus
	}

	capacity, err := s.vehicleCapacity(ctx, updated.VehicleID)
	if err != nil {
		return nil, err
	}

	if res := tour.ValidateBooking(updated, capacity); !res.IsValid() {
		return nil, apperror.NewFieldValidation("booking is invalid", res.Errors)
	}

	// Cancelling via edit needs no admission; the booking is leaving the run.
	if updated.Status != tour.StatusCancelled {
		decision, err := s.admit(ctx, updated, updated.ID, capacity)
		if err != nil {
			return nil, err
		}
		if !decision.Allowed {
			return nil, apperror.NewConflict(decision.Reason)
		}
	}

	if err := s.bookings.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	dto, err := s.toDTO(ctx, updated)
	if err != nil {
		return nil, err
	}
	s.publishBookingEvent(ctx, events.BookingUpdated, updated, dto.Total)
	return dto, nil
}

// CancelBooking marks a booking cancelled; its seats are freed on the next
// run-state resolution.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (*BookingDTO, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == tour.StatusCancelled {
		return nil, apperror.NewConflict("booking is already cancelled")
	}

	booking.Status = tour.StatusCancelled
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	dto, err := s.toDTO(ctx, *booking)
	if err != nil {
		return nil, err
	}
	s.publishBookingEvent(ctx, events.BookingCancelled, *booking, dto.Total)
	return dto, nil
}

// RecordPayment stores the payment method reported by the payments service.
func (s *BookingService) RecordPayment(ctx context.Context, bookingID string, method tour.PaymentStatus) error {
	if !method.IsValid() {
		return apperror.NewValidation(fmt.Sprintf("unknown payment method: %s", method))
	}
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	booking.PaymentStatus = method
	if err := s.bookings.Update(ctx, booking); err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	s.logger.Info("payment recorded",
		zap.String("booking_id", bookingID),
		zap.String("method", string(method)),
	)
	return nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*BookingDTO, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, *booking)
}

// ListBookings retrieves bookings in the inclusive [from, to] date range.
func (s *BookingService) ListBookings(ctx context.Context, from, to string) ([]BookingDTO, error) {
	bookings, err := s.bookings.FindByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(ctx, bookings)
}

// ListGuestBookings retrieves all bookings linked to one guest.
func (s *BookingService) ListGuestBookings(ctx context.Context, guestID string) ([]BookingDTO, error) {
	bookings, err := s.bookings.FindByGuestID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(ctx, bookings)
}

// DailyRevenue is one row of the revenue report.
type DailyRevenue struct {
	Date     string  `json:"date"`
	Bookings int     `json:"bookings"`
	Seats    int     `json:"seats"`
	Revenue  float64 `json:"revenue"`
}

// RevenueReport sums resolved booking totals per day over [from, to],
// skipping cancelled bookings. The price fallback ladder guarantees every
// surviving booking contributes a number.
func (s *BookingService) RevenueReport(ctx context.Context, from, to string) ([]DailyRevenue, error) {
	bookings, err := s.bookings.FindByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	rates, err := s.rates.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	byDate := map[string]*DailyRevenue{}
	for _, b := range bookings {
		if b.Status == tour.StatusCancelled {
			continue
		}
		row, ok := byDate[b.Date]
		if !ok {
			row = &DailyRevenue{Date: b.Date}
			byDate[b.Date] = row
		}
		row.Bookings++
		row.Seats += b.Seats
		row.Revenue += tour.CalculateTotal(b, rates)
	}

	report := make([]DailyRevenue, 0, len(byDate))
	for _, row := range byDate {
		report = append(report, *row)
	}
	sort.Slice(report, func(i, j int) bool { return report[i].Date < report[j].Date })
	return report, nil
}

// admit resolves the run state for the booking's (date, vehicle) and runs
// the availability check, excluding excludeID when set.
func (s *BookingService) admit(ctx context.Context, b tour.Booking, excludeID string, capacity int) (tour.Decision, error) {
	bookings, blocks, err := s.loadDaySnapshot(ctx, b.Date)
	if err != nil {
		return tour.Decision{}, err
	}
	run := tour.ResolveRunState(bookings, blocks, tour.RunQuery{
		Date:             b.Date,
		VehicleID:        b.VehicleID,
		ExcludeBookingID: excludeID,
		SeatCapacity:     capacity,
	})
	return tour.CheckAvailability(run, tour.AdmissionRequest{
		RateType:     b.RateType,
		TourOptionID: b.TourOptionID,
		Seats:        b.Seats,
	}, capacity), nil
}

func (s *BookingService) loadDaySnapshot(ctx context.Context, date string) ([]tour.Booking, []tour.VehicleBlock, error) {
	bookings, err := s.bookings.FindByDateRange(ctx, date, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load bookings snapshot: %w", err)
	}
	blocks, err := s.blocks.FindByDateRange(ctx, date, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load blocks snapshot: %w", err)
	}
	return bookings, blocks, nil
}

func (s *BookingService) vehicleCapacity(ctx context.Context, vehicleID string) (int, error) {
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return 0, err
	}
	if !vehicle.Active {
		return 0, apperror.NewValidation("vehicle is not active")
	}
	return vehicle.Capacity(), nil
}

func fromRequest(req BookingRequest) tour.Booking {
	pricingMode := tour.PricingMode(req.PricingMode)
	if pricingMode == "" {
		pricingMode = tour.PricingStandard
	}
	return tour.Booking{
		VehicleID:      req.VehicleID,
		Date:           req.Date,
		GuestID:        req.GuestID,
		LeadGuestName:  req.LeadGuestName,
		Phone:          req.Phone,
		Email:          req.Email,
		TourOptionID:   req.TourOptionID,
		MarketSourceID: req.MarketSourceID,
		RateType:       tour.RateType(req.RateType),
		Seats:          req.Seats,
		Status:         tour.BookingStatus(req.Status),
		PaymentStatus:  tour.PaymentStatus(req.PaymentStatus),
		PricingMode:    pricingMode,
		CustomPrice:    req.CustomPrice,
		TotalPrice:     req.TotalPrice,
		PricePerPerson: req.PricePerPerson,
		PrivatePrice:   req.PrivatePrice,
		Pickup:         req.Pickup,
		Notes:          req.Notes,
		Reminder:       req.Reminder,
	}
}

func (s *BookingService) toDTO(ctx context.Context, b tour.Booking) (*BookingDTO, error) {
	rates, err := s.rates.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOWithRates(b, rates), nil
}

func (s *BookingService) toDTOs(ctx context.Context, bookings []tour.Booking) ([]BookingDTO, error) {
	rates, err := s.rates.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = *toDTOWithRates(b, rates)
	}
	return dtos, nil
}

func toDTOWithRates(b tour.Booking, rates []tour.Rate) *BookingDTO {
	quote := tour.ResolvePrice(b, rates)
	return &BookingDTO{
		ID:             b.ID,
		RunID:          b.RunID(),
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
		Total:          quote.Total,
		PriceSource:    string(quote.Source),
		Pickup:         b.Pickup,
		Notes:          b.Notes,
		Reminder:       b.Reminder,
		CreatedAt:      b.CreatedAt,
	}
}

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, b tour.Booking, total float64) {
	evt := events.BookingEvent{
		BookingID:    b.ID,
		VehicleID:    b.VehicleID,
		Date:         b.Date,
		TourOptionID: b.TourOptionID,
		RateType:     string(b.RateType),
		Seats:        b.Seats,
		Status:       string(b.Status),
		Total:        total,
		OccurredAt:   time.Now().UTC(),
	}
	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, b.ID, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
	}
}
