package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/highrangestar/quotation-api/internal/domain"
	"gorm.io/gorm"
)

// DocumentRepository handles database operations for document records
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a new document record
func (r *DocumentRepository) Create(ctx context.Context, document *domain.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

// GetByID retrieves a document scoped to its thread
func (r *DocumentRepository) GetByID(ctx context.Context, threadID, id uuid.UUID) (*domain.Document, error) {
	var document domain.Document
	err := r.db.WithContext(ctx).
		First(&document, "id = ? AND thread_id = ?", id, threadID).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

// ListByThread retrieves a thread's documents newest first, optionally
// filtered by type
func (r *DocumentRepository) ListByThread(ctx context.Context, threadID uuid.UUID, docType *domain.DocumentType) ([]domain.Document, error) {
	query := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at DESC")
	if docType != nil {
		query = query.Where("type = ?", *docType)
	}

	var documents []domain.Document
	if err := query.Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

// ExistsByType reports whether the thread has at least one document of the type
func (r *DocumentRepository) ExistsByType(ctx context.Context, threadID uuid.UUID, docType domain.DocumentType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("thread_id = ? AND type = ?", threadID, docType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateFields applies a partial update to a document record
func (r *DocumentRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("id = ?", id).
		Updates(fields).Error
}
