package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/levada-tours/service-booking/internal/domain/tour"
	"github.com/levada-tours/service-booking/internal/platform/apperror"
)

// VehicleRequest carries the client-supplied fields for a vehicle.
type VehicleRequest struct {
	Name         string `json:"name" binding:"required"`
	SeatCapacity int    `json:"seat_capacity"`
	Active       *bool  `json:"active"`
}

// RateRequest carries the client-supplied fields for a rate-table row.
type RateRequest struct {
	TourID               string  `json:"tour_id" binding:"required"`
	SharedPricePerPerson float64 `json:"shared_price_per_person"`
	PrivatePrice         float64 `json:"private_price"`
	Active               *bool   `json:"active"`
}

// VehicleService manages the vehicle fleet and the rate table.
type VehicleService struct {
	vehicles tour.VehicleRepository
	rates    tour.RateRepository
	logger   *zap.Logger
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(vehicles tour.VehicleRepository, rates tour.RateRepository, logger *zap.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, rates: rates, logger: logger}
}

// CreateVehicle registers a new jeep. Capacity defaults when unset.
func (s *VehicleService) CreateVehicle(ctx context.Context, req VehicleRequest) (*tour.Vehicle, error) {
	if req.SeatCapacity < 0 {
		return nil, apperror.NewValidation("seat capacity cannot be negative")
	}
	vehicle := &tour.Vehicle{
		ID:           uuid.NewString(),
		Name:         req.Name,
		SeatCapacity: req.SeatCapacity,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if req.Active != nil {
		vehicle.Active = *req.Active
	}
	if err := s.vehicles.Save(ctx, vehicle); err != nil {
		return nil, err
	}
	s.logger.Info("vehicle created",
		zap.String("vehicle_id", vehicle.ID),
		zap.Int("capacity", vehicle.Capacity()),
	)
	return vehicle, nil
}

// UpdateVehicle edits a vehicle. Capacity changes take effect on the next
// run-state resolution; existing bookings are untouched.
func (s *VehicleService) UpdateVehicle(ctx context.Context, id string, req VehicleRequest) (*tour.Vehicle, error) {
	vehicle, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.SeatCapacity < 0 {
		return nil, apperror.NewValidation("seat capacity cannot be negative")
	}
	vehicle.Name = req.Name
	vehicle.SeatCapacity = req.SeatCapacity
	if req.Active != nil {
		vehicle.Active = *req.Active
	}
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// GetVehicle retrieves one vehicle.
func (s *VehicleService) GetVehicle(ctx context.Context, id string) (*tour.Vehicle, error) {
	return s.vehicles.FindByID(ctx, id)
}

// ListVehicles returns all vehicles, or only active ones.
func (s *VehicleService) ListVehicles(ctx context.Context, activeOnly bool) ([]tour.Vehicle, error) {
	if activeOnly {
		return s.vehicles.ListActive(ctx)
	}
	return s.vehicles.ListAll(ctx)
}

// CreateRate adds a rate-table row for a tour option.
func (s *VehicleService) CreateRate(ctx context.Context, req RateRequest) (*tour.Rate, error) {
	if req.SharedPricePerPerson < 0 || req.PrivatePrice < 0 {
		return nil, apperror.NewValidation("prices cannot be negative")
	}
	rate := &tour.Rate{
		ID:                   uuid.NewString(),
		TourID:               req.TourID,
		SharedPricePerPerson: req.SharedPricePerPerson,
		PrivatePrice:         req.PrivatePrice,
		Active:               true,
	}
	if req.Active != nil {
		rate.Active = *req.Active
	}
	if err := s.rates.Save(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// UpdateRate edits a rate-table row.
func (s *VehicleService) UpdateRate(ctx context.Context, id string, req RateRequest) (*tour.Rate, error) {
	rates, err := s.rates.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var rate *tour.Rate
	for i := range rates {
		if rates[i].ID == id {
			rate = &rates[i]
			break
		}
	}
	if rate == nil {
		return nil, apperror.NewNotFound("rate", id)
	}
	if req.SharedPricePerPerson < 0 || req.PrivatePrice < 0 {
		return nil, apperror.NewValidation("prices cannot be negative")
	}
	rate.TourID = req.TourID
	rate.SharedPricePerPerson = req.SharedPricePerPerson
	rate.PrivatePrice = req.PrivatePrice
	if req.Active != nil {
		rate.Active = *req.Active
	}
	if err := s.rates.Update(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// ListRates returns all rate rows, or only active ones.
func (s *VehicleService) ListRates(ctx context.Context, activeOnly bool) ([]tour.Rate, error) {
	if activeOnly {
		return s.rates.ListActive(ctx)
	}
	return s.rates.ListAll(ctx)
}
