package repository

import (
	"context"

	"github.com/highrangestar/quotation-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArchivedReferenceRepository handles database operations for reference
// numbers imported from the legacy accounting system
type ArchivedReferenceRepository struct {
	db *gorm.DB
}

// NewArchivedReferenceRepository creates a new archived reference repository
func NewArchivedReferenceRepository(db *gorm.DB) *ArchivedReferenceRepository {
	return &ArchivedReferenceRepository{db: db}
}

// ListRefIDs returns all archived reference numbers
func (r *ArchivedReferenceRepository) ListRefIDs(ctx context.Context) ([]string, error) {
	var refs []string
	err := r.db.WithContext(ctx).
		Model(&domain.ArchivedReference{}).
		Pluck("ref_id", &refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// UpsertBatch inserts references, skipping ones already imported
func (r *ArchivedReferenceRepository) UpsertBatch(ctx context.Context, refs []domain.ArchivedReference) (int64, error) {
	if len(refs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ref_id"}},
			DoNothing: true,
		}).
		Create(&refs)
	return result.RowsAffected, result.Error
}

// Count returns the number of imported references
func (r *ArchivedReferenceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ArchivedReference{}).
		Count(&count).Error
	return count, err
}
