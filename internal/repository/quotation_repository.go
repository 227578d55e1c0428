package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/highrangestar/quotation-api/internal/domain"
	"gorm.io/gorm"
)

// QuotationRepository handles database operations for quotation versions
type QuotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository creates a new quotation repository
func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// Create inserts a new quotation version
func (r *QuotationRepository) Create(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

// GetByID retrieves a quotation scoped to its thread
func (r *QuotationRepository) GetByID(ctx context.Context, threadID, id uuid.UUID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.db.WithContext(ctx).
		First(&quotation, "id = ? AND thread_id = ?", id, threadID).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

// ListByThread retrieves all quotation versions of a thread, newest first
func (r *QuotationRepository) ListByThread(ctx context.Context, threadID uuid.UUID) ([]domain.Quotation, error) {
	var quotations []domain.Quotation
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at DESC").
		Find(&quotations).Error
	if err != nil {
		return nil, err
	}
	return quotations, nil
}

// CountByThread returns how many quotation versions a thread has
func (r *QuotationRepository) CountByThread(ctx context.Context, threadID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("thread_id = ?", threadID).
		Count(&count).Error
	return count, err
}

// UpdateFields applies a partial update to a quotation
func (r *QuotationRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete removes a quotation version
func (r *QuotationRepository) Delete(ctx context.Context, threadID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Quotation{}, "id = ? AND thread_id = ?", id, threadID).Error
}
