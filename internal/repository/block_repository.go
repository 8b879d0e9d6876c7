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

// BlockModel is the GORM model for the vehicle_blocks table. The unique
// index on (vehicle_id, date) enforces at most one block per pair at the
// storage layer.
type BlockModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	VehicleID string    `gorm:"type:uuid;uniqueIndex:idx_blocks_vehicle_date;not null"`
	Date      string    `gorm:"uniqueIndex:idx_blocks_vehicle_date;not null;size:10"`
	Reason    string    `gorm:"not null;size:200"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BlockModel) TableName() string {
	return "vehicle_blocks"
}

// GormBlockRepository is the GORM-based implementation of BlockRepository.
type GormBlockRepository struct {
	db *gorm.DB
}

// NewGormBlockRepository creates a new GormBlockRepository.
func NewGormBlockRepository(db *gorm.DB) *GormBlockRepository {
	return &GormBlockRepository{db: db}
}

// FindByDateRange retrieves blocks whose date falls in [from, to] inclusive.
func (r *GormBlockRepository) FindByDateRange(ctx context.Context, from, to string) ([]tour.VehicleBlock, error) {
	var models []BlockModel
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find blocks by date range: %w", err)
	}
	return toDomainBlocks(models), nil
}

// FindByVehicle retrieves all blocks for a vehicle.
func (r *GormBlockRepository) FindByVehicle(ctx context.Context, vehicleID string) ([]tour.VehicleBlock, error) {
	var models []BlockModel
	if err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("date ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find blocks by vehicle: %w", err)
	}
	return toDomainBlocks(models), nil
}

// Save persists a new block. A duplicate (vehicle, date) pair surfaces as a
// conflict.
func (r *GormBlockRepository) Save(ctx context.Context, bl *tour.VehicleBlock) error {
	model := toBlockModel(bl)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.NewConflict("vehicle is already blocked on this date")
		}
		return fmt.Errorf("failed to save block: %w", err)
	}
	return nil
}

// Delete removes a block by ID.
func (r *GormBlockRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BlockModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete block: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFound("block", id)
	}
	return nil
}

func toBlockModel(bl *tour.VehicleBlock) *BlockModel {
	return &BlockModel{
		ID:        bl.ID,
		VehicleID: bl.VehicleID,
		Date:      bl.Date,
		Reason:    bl.Reason,
		CreatedAt: bl.CreatedAt,
	}
}

func toDomainBlocks(models []BlockModel) []tour.VehicleBlock {
	blocks := make([]tour.VehicleBlock, len(models))
	for i, m := range models {
		blocks[i] = tour.VehicleBlock{
			ID:        m.ID,
			VehicleID: m.VehicleID,
			Date:      m.Date,
			Reason:    m.Reason,
			CreatedAt: m.CreatedAt,
		}
	}
	return blocks
}
