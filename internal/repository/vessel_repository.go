package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/highrangestar/quotation-api/internal/domain"
	"gorm.io/gorm"
)

// VesselRepository handles database operations for vessel reference data
type VesselRepository struct {
	db *gorm.DB
}

// NewVesselRepository creates a new vessel repository
func NewVesselRepository(db *gorm.DB) *VesselRepository {
	return &VesselRepository{db: db}
}

// Create inserts a new vessel
func (r *VesselRepository) Create(ctx context.Context, vessel *domain.Vessel) error {
	return r.db.WithContext(ctx).Create(vessel).Error
}

// GetByID retrieves a vessel by id
func (r *VesselRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vessel, error) {
	var vessel domain.Vessel
	if err := r.db.WithContext(ctx).First(&vessel, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vessel, nil
}

// GetByName retrieves a vessel by its exact name
func (r *VesselRepository) GetByName(ctx context.Context, name string) (*domain.Vessel, error) {
	var vessel domain.Vessel
	if err := r.db.WithContext(ctx).First(&vessel, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &vessel, nil
}

// List retrieves all vessels ordered by name
func (r *VesselRepository) List(ctx context.Context) ([]domain.Vessel, error) {
	var vessels []domain.Vessel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&vessels).Error; err != nil {
		return nil, err
	}
	return vessels, nil
}

// Update saves the full vessel record
func (r *VesselRepository) Update(ctx context.Context, vessel *domain.Vessel) error {
	return r.db.WithContext(ctx).Save(vessel).Error
}

// Delete removes a vessel
func (r *VesselRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Vessel{}, "id = ?", id).Error
}
