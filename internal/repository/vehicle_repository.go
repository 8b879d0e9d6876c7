package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/levada-tours/service-booking/internal/domain/tour"
	"github.com/levada-tours/service-booking/internal/platform/apperror"
)

// VehicleModel is the GORM model for the vehicles table.
type VehicleModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null;size:100"`
	SeatCapacity int       `gorm:"not null;default:0"`
	Active       bool      `gorm:"not null;default:true;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (VehicleModel) TableName() string {
	return "vehicles"
}

// RateModel is the GORM model for the rates table.
type RateModel struct {
	ID                   string    `gorm:"type:uuid;primaryKey"`
	TourID               string    `gorm:"not null;size:36;index"`
	SharedPricePerPerson float64   `gorm:""`
	PrivatePrice         float64   `gorm:""`
	Active               bool      `gorm:"not null;default:true;index"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RateModel) TableName() string {
	return "rates"
}

// GormVehicleRepository is the GORM-based implementation of VehicleRepository.
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository.
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID retrieves a vehicle by its unique identifier.
func (r *GormVehicleRepository) FindByID(ctx context.Context, id string) (*tour.Vehicle, error) {
	var model VehicleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("vehicle", id)
		}
		return nil, fmt.Errorf("failed to find vehicle by ID: %w", err)
	}
	v := toDomainVehicle(&model)
	return &v, nil
}

// ListActive retrieves all active vehicles.
func (r *GormVehicleRepository) ListActive(ctx context.Context) ([]tour.Vehicle, error) {
	var models []VehicleModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list active vehicles: %w", err)
	}
	return toDomainVehicles(models), nil
}

// ListAll retrieves every vehicle, active or not.
func (r *GormVehicleRepository) ListAll(ctx context.Context) ([]tour.Vehicle, error) {
	var models []VehicleModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return toDomainVehicles(models), nil
}

// Save persists a new vehicle.
func (r *GormVehicleRepository) Save(ctx context.Context, v *tour.Vehicle) error {
	if err := r.db.WithContext(ctx).Create(toVehicleModel(v)).Error; err != nil {
		return fmt.Errorf("failed to save vehicle: %w", err)
	}
	return nil
}

// Update persists changes to an existing vehicle.
func (r *GormVehicleRepository) Update(ctx context.Context, v *tour.Vehicle) error {
	result := r.db.WithContext(ctx).
		Model(&VehicleModel{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"name":          v.Name,
			"seat_capacity": v.SeatCapacity,
			"active":        v.Active,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFound("vehicle", v.ID)
	}
	return nil
}

// GormRateRepository is the GORM-based implementation of RateRepository.
type GormRateRepository struct {
	db *gorm.DB
}

// NewGormRateRepository creates a new GormRateRepository.
func NewGormRateRepository(db *gorm.DB) *GormRateRepository {
	return &GormRateRepository{db: db}
}

// ListActive retrieves all active rate rows.
func (r *GormRateRepository) ListActive(ctx context.Context) ([]tour.Rate, error) {
	var models []RateModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list active rates: %w", err)
	}
	return toDomainRates(models), nil
}

// ListAll retrieves every rate row.
func (r *GormRateRepository) ListAll(ctx context.Context) ([]tour.Rate, error) {
	var models []RateModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	return toDomainRates(models), nil
}

// Save persists a new rate row.
func (r *GormRateRepository) Save(ctx context.Context, rate *tour.Rate) error {
	if err := r.db.WithContext(ctx).Create(toRateModel(rate)).Error; err != nil {
		return fmt.Errorf("failed to save rate: %w", err)
	}
	return nil
}

// Update persists changes to an existing rate row.
func (r *GormRateRepository) Update(ctx context.Context, rate *tour.Rate) error {
	result := r.db.WithContext(ctx).
		Model(&RateModel{}).
		Where("id = ?", rate.ID).
		Updates(map[string]interface{}{
			"tour_id":                 rate.TourID,
			"shared_price_per_person": rate.SharedPricePerPerson,
			"private_price":           rate.PrivatePrice,
			"active":                  rate.Active,
			"updated_at":              time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update rate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFound("rate", rate.ID)
	}
	return nil
}

func toVehicleModel(v *tour.Vehicle) *VehicleModel {
	return &VehicleModel{
		ID:           v.ID,
		Name:         v.Name,
		SeatCapacity: v.SeatCapacity,
		Active:       v.Active,
		CreatedAt:    v.CreatedAt,
	}
}

func toDomainVehicle(m *VehicleModel) tour.Vehicle {
	return tour.Vehicle{
		ID:           m.ID,
		Name:         m.Name,
		SeatCapacity: m.SeatCapacity,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
	}
}

func toDomainVehicles(models []VehicleModel) []tour.Vehicle {
	vehicles := make([]tour.Vehicle, len(models))
	for i := range models {
		vehicles[i] = toDomainVehicle(&models[i])
	}
	return vehicles
}

func toRateModel(r *tour.Rate) *RateModel {
	return &RateModel{
		ID:                   r.ID,
		TourID:               r.TourID,
		SharedPricePerPerson: r.SharedPricePerPerson,
		PrivatePrice:         r.PrivatePrice,
		Active:               r.Active,
	}
}

func toDomainRates(models []RateModel) []tour.Rate {
	rates := make([]tour.Rate, len(models))
	for i, m := range models {
		rates[i] = tour.Rate{
			ID:                   m.ID,
			TourID:               m.TourID,
			SharedPricePerPerson: m.SharedPricePerPerson,
			PrivatePrice:         m.PrivatePrice,
			Active:               m.Active,
		}
	}
	return rates
}
