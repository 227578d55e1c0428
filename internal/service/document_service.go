package service

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/highrangestar/quotation-api/internal/mapper"
	"github.com/highrangestar/quotation-api/internal/repository"
	"github.com/highrangestar/quotation-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DocumentService serves stored workflow artifacts
type DocumentService struct {
	threadRepo   *repository.ThreadRepository
	documentRepo *repository.DocumentRepository
	store        storage.Storage
	logger       *zap.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	threadRepo *repository.ThreadRepository,
	documentRepo *repository.DocumentRepository,
	store storage.Storage,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		threadRepo:   threadRepo,
		documentRepo: documentRepo,
		store:        store,
		logger:       logger,
	}
}

// ListByThread returns a thread's documents, optionally filtered by type
func (s *DocumentService) ListByThread(ctx context.Context, threadID uuid.UUID, docType *domain.DocumentType) ([]domain.DocumentDTO, error) {
	if err := s.checkThread(ctx, threadID); err != nil {
		return nil, err
	}
	documents, err := s.documentRepo.ListByThread(ctx, threadID, docType)
	if err != nil {
		return nil, storeErr("list documents", err)
	}
	return mapper.ToDocumentDTOs(documents), nil
}

// Download streams a document's file content. The caller owns the reader.
func (s *DocumentService) Download(ctx context.Context, threadID, documentID uuid.UUID) (io.ReadCloser, *domain.DocumentDTO, error) {
	if err := s.checkThread(ctx, threadID); err != nil {
		return nil, nil, err
	}
	document, err := s.getDocument(ctx, threadID, documentID)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.store.Download(ctx, document.Filepath)
	if err != nil {
		return nil, nil, storeErr("download file", err)
	}
	dto := mapper.ToDocumentDTO(document)
	return reader, &dto, nil
}

// Replace re-uploads a document's file, keeping the record but pointing it
// at the new blob. The old blob is removed best effort afterwards.
func (s *DocumentService) Replace(ctx context.Context, threadID, documentID uuid.UUID, file *UploadedFile) (*domain.DocumentDTO, error) {
	if err := s.checkThread(ctx, threadID); err != nil {
		return nil, err
	}
	document, err := s.getDocument(ctx, threadID, documentID)
	if err != nil {
		return nil, err
	}

	storagePath := storage.DocumentPath(threadID.String(), string(document.Type), file.Filename)
	size, err := s.store.Upload(ctx, storagePath, file.ContentType, file.Data)
	if err != nil {
		return nil, storeErr("upload file", err)
	}

	oldPath := document.Filepath
	if err := s.documentRepo.UpdateFields(ctx, documentID, map[string]interface{}{
		"filename":     file.Filename,
		"filepath":     storagePath,
		"content_type": file.ContentType,
		"size":         size,
	}); err != nil {
		return nil, storeErr("update document", err)
	}

	if err := s.store.Delete(ctx, oldPath); err != nil {
		s.logger.Warn("Failed to delete replaced blob",
			zap.String("path", oldPath),
			zap.Error(err))
	}

	document, err = s.getDocument(ctx, threadID, documentID)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToDocumentDTO(document)
	return &dto, nil
}

func (s *DocumentService) checkThread(ctx context.Context, threadID uuid.UUID) error {
	if _, err := s.threadRepo.GetByID(ctx, threadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrThreadNotFound
		}
		return storeErr("get thread", err)
	}
	return nil
}

func (s *DocumentService) getDocument(ctx context.Context, threadID, documentID uuid.UUID) (*domain.Document, error) {
	document, err := s.documentRepo.GetByID(ctx, threadID, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, storeErr("get document", err)
	}
	return document, nil
}
