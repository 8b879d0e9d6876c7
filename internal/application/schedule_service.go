package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/levada-tours/service-booking/internal/domain/tour"
	"github.com/levada-tours/service-booking/internal/events"
	"github.com/levada-tours/service-booking/internal/platform/apperror"
	"github.com/levada-tours/service-booking/internal/platform/kafka"
)

// RunStateDTO is the response representation of one resolved tour run.
type RunStateDTO struct {
	ID             string       `json:"id"`
	Date           string       `json:"date"`
	VehicleID      string       `json:"vehicle_id"`
	Type           string       `json:"type"`
	TourOptionID   string       `json:"tour_option_id,omitempty"`
	OccupiedSeats  int          `json:"occupied_seats"`
	SeatsRemaining int          `json:"seats_remaining"`
	IsFull         bool         `json:"is_full"`
	IsBlocked      bool         `json:"is_blocked"`
	BlockReason    string       `json:"block_reason,omitempty"`
	BlockID        string       `json:"block_id,omitempty"`
	ActiveBookings []BookingDTO `json:"active_bookings"`
}

// AdmissionPreviewRequest asks whether a prospective booking would be
// admitted, without creating anything.
type AdmissionPreviewRequest struct {
	VehicleID    string `json:"vehicle_id" binding:"required"`
	Date         string `json:"date" binding:"required"`
	RateType     string `json:"rate_type" binding:"required"`
	TourOptionID string `json:"tour_option_id"`
	Seats        int    `json:"seats" binding:"required"`
	// ExcludeBookingID is set when previewing an edit of an existing booking.
	ExcludeBookingID string `json:"exclude_booking_id"`
}

// BlockRequest creates a single-day vehicle block.
type BlockRequest struct {
	VehicleID string `json:"vehicle_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Reason    string `json:"reason"`
}

// RangeBlockRequest blocks a vehicle over an inclusive date range.
type RangeBlockRequest struct {
	VehicleID string `json:"vehicle_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

// RangeBlockResult reports what a range block actually did: which dates were
// blocked, which were skipped over active bookings, and which saves failed.
type RangeBlockResult struct {
	BlockedDates []string `json:"blocked_dates"`
	SkippedDates []string `json:"skipped_dates"`
	FailedDates  []string `json:"failed_dates,omitempty"`
}

// ScheduleService answers run-state and availability queries and manages
// vehicle blocks.
type ScheduleService struct {
	bookings tour.BookingRepository
	blocks   tour.BlockRepository
	vehicles tour.VehicleRepository
	rates    tour.RateRepository
	producer eventPublisher
	logger   *zap.Logger
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(
	bookings tour.BookingRepository,
	blocks tour.BlockRepository,
	vehicles tour.VehicleRepository,
	rates tour.RateRepository,
	producer eventPublisher,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		bookings: bookings,
		blocks:   blocks,
		vehicles: vehicles,
		rates:    rates,
		producer: producer,
		logger:   logger,
	}
}

// GetRunState resolves the live state of one (date, vehicle) run.
func (s *ScheduleService) GetRunState(ctx context.Context, date, vehicleID string) (*RunStateDTO, error) {
	if _, err := time.Parse(tour.DateLayout, date); err != nil {
		return nil, apperror.NewValidation("date must be YYYY-MM-DD")
	}
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	bookings, blocks, rates, err := s.loadDay(ctx, date)
	if err != nil {
		return nil, err
	}
	run := tour.ResolveRunState(bookings, blocks, tour.RunQuery{
		Date:         date,
		VehicleID:    vehicleID,
		SeatCapacity: vehicle.Capacity(),
	})
	return runToDTO(run, rates), nil
}

// DaySchedule resolves every active vehicle's run for one date. This backs
// the staff calendar view.
func (s *ScheduleService) DaySchedule(ctx context.Context, date string) ([]RunStateDTO, error) {
	if _, err := time.Parse(tour.DateLayout, date); err != nil {
		return nil, apperror.NewValidation("date must be YYYY-MM-DD")
	}
	vehicles, err := s.vehicles.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	bookings, blocks, rates, err := s.loadDay(ctx, date)
	if err != nil {
		return nil, err
	}

	schedule := make([]RunStateDTO, 0, len(vehicles))
	for _, v := range vehicles {
		run := tour.ResolveRunState(bookings, blocks, tour.RunQuery{
			Date:         date,
			VehicleID:    v.ID,
			SeatCapacity: v.Capacity(),
		})
		schedule = append(schedule, *runToDTO(run, rates))
	}
	return schedule, nil
}

// PreviewAdmission evaluates the availability rules for a prospective
// booking without persisting anything.
func (s *ScheduleService) PreviewAdmission(ctx context.Context, req AdmissionPreviewRequest) (*tour.Decision, error) {
	vehicle, err := s.vehicles.FindByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	bookings, blocks, _, err := s.loadDay(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	run := tour.ResolveRunState(bookings, blocks, tour.RunQuery{
		Date:             req.Date,
		VehicleID:        req.VehicleID,
		ExcludeBookingID: req.ExcludeBookingID,
		SeatCapacity:     vehicle.Capacity(),
	})
	decision := tour.CheckAvailability(run, tour.AdmissionRequest{
		RateType:     tour.RateType(req.RateType),
		TourOptionID: req.TourOptionID,
		Seats:        req.Seats,
	}, vehicle.Capacity())

	if !decision.Allowed && decision.Reason == "Unknown state." {
		s.logger.Warn("availability check hit unknown run state",
			zap.String("run_id", run.ID),
			zap.String("run_type", string(run.Type)),
		)
	}
	return &decision, nil
}

// BlockVehicle writes a single-day block. A date that already carries active
// bookings is rejected; an existing block for the pair is a conflict.
func (s *ScheduleService) BlockVehicle(ctx context.Context, req BlockRequest) (*tour.VehicleBlock, error) {
	if _, err := time.Parse(tour.DateLayout, req.Date); err != nil {
		return nil, apperror.NewValidation("date must be YYYY-MM-DD")
	}
	if _, err := s.vehicles.FindByID(ctx, req.VehicleID); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.FindByDateRange(ctx, req.Date, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings snapshot: %w", err)
	}
	run := tour.ResolveRunState(bookings, nil, tour.RunQuery{Date: req.Date, VehicleID: req.VehicleID})
	if len(run.ActiveBookings) > 0 {
		return nil, apperror.NewConflict("vehicle has active bookings on this date")
	}

	reason := req.Reason
	if reason == "" {
		reason = "Unavailable"
	}
	block := &tour.VehicleBlock{
		ID:        uuid.NewString(),
		VehicleID: req.VehicleID,
		Date:      req.Date,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.blocks.Save(ctx, block); err != nil {
		return nil, err
	}
	s.publishBlockEvent(ctx, events.VehicleBlocked, *block)
	return block, nil
}

// UnblockVehicle removes a block by ID.
func (s *ScheduleService) UnblockVehicle(ctx context.Context, blockID string) error {
	if err := s.blocks.Delete(ctx, blockID); err != nil {
		return err
	}
	s.publishBlockEvent(ctx, events.VehicleUnblocked, tour.VehicleBlock{ID: blockID})
	return nil
}

// BlockVehicleRange plans and applies blocks over an inclusive date range.
// Dates with active bookings are skipped. Each planned block is saved
// independently: a failed save lands in FailedDates and the rest still apply.
func (s *ScheduleService) BlockVehicleRange(ctx context.Context, req RangeBlockRequest) (*RangeBlockResult, error) {
	if _, err := s.vehicles.FindByID(ctx, req.VehicleID); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.FindByDateRange(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings snapshot: %w", err)
	}

	plan, err := tour.PlanRangeBlock(bookings, req.VehicleID, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		return nil, apperror.NewValidation(err.Error())
	}

	result := &RangeBlockResult{
		BlockedDates: []string{},
		SkippedDates: plan.SkippedDates,
	}
	for _, planned := range plan.Blocks {
		block := planned
		block.ID = uuid.NewString()
		block.CreatedAt = time.Now().UTC()
		if err := s.blocks.Save(ctx, &block); err != nil {
			s.logger.Error("failed to save block",
				zap.String("vehicle_id", block.VehicleID),
				zap.String("date", block.Date),
				zap.Error(err),
			)
			result.FailedDates = append(result.FailedDates, block.Date)
			continue
		}
		result.BlockedDates = append(result.BlockedDates, block.Date)
		s.publishBlockEvent(ctx, events.VehicleBlocked, block)
	}

	s.logger.Info("vehicle range blocked",
		zap.String("vehicle_id", req.VehicleID),
		zap.Int("blocked", len(result.BlockedDates)),
		zap.Int("skipped", len(result.SkippedDates)),
		zap.Int("failed", len(result.FailedDates)),
	)
	return result, nil
}

// ListBlocks returns the blocks in [from, to] for the calendar view.
func (s *ScheduleService) ListBlocks(ctx context.Context, from, to string) ([]tour.VehicleBlock, error) {
	return s.blocks.FindByDateRange(ctx, from, to)
}

func (s *ScheduleService) loadDay(ctx context.Context, date string) ([]tour.Booking, []tour.VehicleBlock, []tour.Rate, error) {
	bookings, err := s.bookings.FindByDateRange(ctx, date, date)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load bookings snapshot: %w", err)
	}
	blocks, err := s.blocks.FindByDateRange(ctx, date, date)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load blocks snapshot: %w", err)
	}
	rates, err := s.rates.ListActive(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load rates: %w", err)
	}
	return bookings, blocks, rates, nil
}

func runToDTO(run tour.RunState, rates []tour.Rate) *RunStateDTO {
	active := make([]BookingDTO, len(run.ActiveBookings))
	for i, b := range run.ActiveBookings {
		active[i] = *toDTOWithRates(b, rates)
	}
	return &RunStateDTO{
		ID:             run.ID,
		Date:           run.Date,
		VehicleID:      run.VehicleID,
		Type:           string(run.Type),
		TourOptionID:   run.TourOptionID,
		OccupiedSeats:  run.OccupiedSeats,
		SeatsRemaining: run.SeatsRemaining,
		IsFull:         run.IsFull,
		IsBlocked:      run.IsBlocked,
		BlockReason:    run.BlockReason,
		BlockID:        run.BlockID,
		ActiveBookings: active,
	}
}

func (s *ScheduleService) publishBlockEvent(ctx context.Context, eventType string, block tour.VehicleBlock) {
	evt := events.VehicleBlockedEvent{
		BlockID:    block.ID,
		VehicleID:  block.VehicleID,
		Date:       block.Date,
		Reason:     block.Reason,
		OccurredAt: time.Now().UTC(),
	}
	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicScheduleEvents, block.VehicleID, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("block_id", block.ID),
			zap.Error(err),
		)
	}
}
