package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/highrangestar/quotation-api/internal/domain"
	"gorm.io/gorm"
)

// ThreadRepository handles database operations for threads
type ThreadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new thread repository
func NewThreadRepository(db *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

// Create inserts a new thread together with any nested quotations
func (r *ThreadRepository) Create(ctx context.Context, thread *domain.Thread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

// GetByID retrieves a thread with its quotations and documents,
// both ordered newest first
func (r *ThreadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Thread, error) {
	var thread domain.Thread
	err := r.db.WithContext(ctx).
		Preload("Quotations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&thread, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// List retrieves threads ordered newest first, with pagination
func (r *ThreadRepository) List(ctx context.Context, limit, offset int) ([]domain.Thread, int64, error) {
	var threads []domain.Thread
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Thread{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Quotations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&threads).Error
	if err != nil {
		return nil, 0, err
	}

	return threads, total, nil
}

// UpdateFields applies a partial update to a thread. UpdatedAt is refreshed
// by gorm on every write.
func (r *ThreadRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.Thread{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// ListUserRefIDs returns the reference numbers of all threads
func (r *ThreadRepository) ListUserRefIDs(ctx context.Context) ([]string, error) {
	var refs []string
	err := r.db.WithContext(ctx).
		Model(&domain.Thread{}).
		Pluck("user_ref_id", &refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// ExistsByUserRefID reports whether a thread already uses the reference number
func (r *ThreadRepository) ExistsByUserRefID(ctx context.Context, refID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Thread{}).
		Where("user_ref_id = ?", refID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes a thread; quotations and documents cascade
func (r *ThreadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Thread{}, "id = ?", id).Error
}
