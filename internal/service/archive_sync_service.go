package service

import (
	"context"

	"github.com/highrangestar/quotation-api/internal/archive"
	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/highrangestar/quotation-api/internal/repository"
	"go.uber.org/zap"
)

// referenceSource abstracts the legacy archive client for testing
type referenceSource interface {
	ListQuotationReferences(ctx context.Context) ([]archive.LegacyReference, error)
}

// ArchiveSyncService imports legacy quotation reference numbers so the
// reference number generator never reissues a historical id
type ArchiveSyncService struct {
	source       referenceSource
	archivedRepo *repository.ArchivedReferenceRepository
	logger       *zap.Logger
}

// NewArchiveSyncService creates a new archive sync service
func NewArchiveSyncService(
	source referenceSource,
	archivedRepo *repository.ArchivedReferenceRepository,
	logger *zap.Logger,
) *ArchiveSyncService {
	return &ArchiveSyncService{
		source:       source,
		archivedRepo: archivedRepo,
		logger:       logger,
	}
}

// Sync fetches all legacy references and upserts the ones not yet imported.
// Returns how many new references were added.
func (s *ArchiveSyncService) Sync(ctx context.Context) (int64, error) {
	refs, err := s.source.ListQuotationReferences(ctx)
	if err != nil {
		return 0, storeErr("fetch legacy references", err)
	}
	if len(refs) == 0 {
		return 0, nil
	}

	records := make([]domain.ArchivedReference, 0, len(refs))
	for _, ref := range refs {
		if ref.RefID == "" {
			continue
		}
		records = append(records, domain.ArchivedReference{
			RefID:    ref.RefID,
			Source:   "legacy_accounts",
			IssuedAt: ref.IssuedAt,
		})
	}

	imported, err := s.archivedRepo.UpsertBatch(ctx, records)
	if err != nil {
		return 0, storeErr("import legacy references", err)
	}

	s.logger.Info("Synced legacy quotation references",
		zap.Int("fetched", len(refs)),
		zap.Int64("imported", imported))
	return imported, nil
}
