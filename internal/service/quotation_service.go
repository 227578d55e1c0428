package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"
	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/highrangestar/quotation-api/internal/mapper"
	"github.com/highrangestar/quotation-api/internal/pricing"
	"github.com/highrangestar/quotation-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// firstVersionLabel is the version label of a thread's initial quotation
const firstVersionLabel = "Quotation"

// revisedLabelPattern matches revision labels like QuotationRevised3
var revisedLabelPattern = regexp.MustCompile(`^QuotationRevised(\d+)$`)

// QuotationService implements the revision engine and finalization rules
type QuotationService struct {
	db            *gorm.DB
	threadRepo    *repository.ThreadRepository
	quotationRepo *repository.QuotationRepository
	vesselRepo    *repository.VesselRepository
	logger        *zap.Logger
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	db *gorm.DB,
	threadRepo *repository.ThreadRepository,
	quotationRepo *repository.QuotationRepository,
	vesselRepo *repository.VesselRepository,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		db:            db,
		threadRepo:    threadRepo,
		quotationRepo: quotationRepo,
		vesselRepo:    vesselRepo,
		logger:        logger,
	}
}

// ListByThread returns a thread's quotation versions, newest first
func (s *QuotationService) ListByThread(ctx context.Context, threadID uuid.UUID) ([]domain.QuotationDTO, error) {
	if _, err := s.getThread(ctx, threadID); err != nil {
		return nil, err
	}
	quotations, err := s.quotationRepo.ListByThread(ctx, threadID)
	if err != nil {
		return nil, storeErr("list quotations", err)
	}
	return mapper.ToQuotationDTOs(quotations), nil
}

// CreateRevision derives a new pending quotation version from an existing one.
// Content is copied from the source unless an override body is supplied; line
// serials are renumbered and amounts recomputed either way. The thread status
// is not touched.
func (s *QuotationService) CreateRevision(ctx context.Context, threadID uuid.UUID, req *domain.CreateRevisionRequest) (*domain.QuotationDTO, error) {
	if _, err := s.getThread(ctx, threadID); err != nil {
		return nil, err
	}

	previous, err := s.quotationRepo.GetByID(ctx, threadID, req.PreviousQuotationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, storeErr("get quotation", err)
	}

	siblings, err := s.quotationRepo.ListByThread(ctx, threadID)
	if err != nil {
		return nil, storeErr("list quotations", err)
	}

	var content domain.QuotationContent
	if req.Content != nil {
		content = mapper.ContentFromInput(req.Content)
		content.RefID = previous.Content.RefID
	} else {
		content = previous.Content.Clone()
	}
	content = prepareQuotationContent(ctx, s.vesselRepo, content)

	quotation := &domain.Quotation{
		ThreadID: threadID,
		Version:  nextVersionLabel(siblings),
		Status:   domain.QuotationStatusPending,
		IsFinal:  false,
		Content:  content,
	}
	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		return nil, storeErr("create revision", err)
	}

	s.logger.Info("Created quotation revision",
		zap.String("threadId", threadID.String()),
		zap.String("quotationId", quotation.ID.String()),
		zap.String("version", quotation.Version))

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// UpdateContent replaces a quotation's body, recomputing serials and amounts
func (s *QuotationService) UpdateContent(ctx context.Context, threadID, quotationID uuid.UUID, input *domain.QuotationContentInput) (*domain.QuotationDTO, error) {
	if _, err := s.getThread(ctx, threadID); err != nil {
		return nil, err
	}

	quotation, err := s.quotationRepo.GetByID(ctx, threadID, quotationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, storeErr("get quotation", err)
	}

	content := mapper.ContentFromInput(input)
	content.RefID = quotation.Content.RefID
	content = prepareQuotationContent(ctx, s.vesselRepo, content)

	if err := s.quotationRepo.UpdateFields(ctx, quotationID, map[string]interface{}{
		"content": content,
	}); err != nil {
		return nil, storeErr("update quotation", err)
	}

	quotation, err = s.quotationRepo.GetByID(ctx, threadID, quotationID)
	if err != nil {
		return nil, storeErr("reload quotation", err)
	}
	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// SetFinal marks one quotation as the final version. The final flag is
// mutually exclusive per thread, so all siblings are cleared in the same
// transaction. Finalizing overrides a decline: a declined target goes back
// to pending and the thread becomes QuotationAccepted. Once a purchase
// order is received the final quotation is locked.
func (s *QuotationService) SetFinal(ctx context.Context, threadID, quotationID uuid.UUID) (*domain.ThreadDTO, error) {
	thread, err := s.getThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	switch thread.Status {
	case domain.ThreadStatusQuotationCreated, domain.ThreadStatusQuotationDeclined, domain.ThreadStatusQuotationAccepted:
	default:
		return nil, NewPreconditionError("thread_in_progress",
			"the final quotation cannot change once a purchase order is received")
	}

	quotation, err := s.quotationRepo.GetByID(ctx, threadID, quotationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, storeErr("get quotation", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Quotation{}).
			Where("thread_id = ?", threadID).
			Update("is_final", false).Error; err != nil {
			return err
		}

		fields := map[string]interface{}{"is_final": true}
		if quotation.Status == domain.QuotationStatusDeclined {
			fields["status"] = domain.QuotationStatusPending
		}
		if err := tx.Model(&domain.Quotation{}).
			Where("id = ?", quotationID).
			Updates(fields).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Thread{}).
			Where("id = ?", threadID).
			Updates(map[string]interface{}{
				"final_quotation_id": quotationID,
				"status":             domain.ThreadStatusQuotationAccepted,
			}).Error
	})
	if err != nil {
		return nil, storeErr("finalize quotation", err)
	}

	s.logger.Info("Marked quotation as final",
		zap.String("threadId", threadID.String()),
		zap.String("quotationId", quotationID.String()))

	return s.reloadThread(ctx, threadID)
}

// Delete removes a quotation version. A thread always keeps at least one
// version, so deleting the last one is rejected.
func (s *QuotationService) Delete(ctx context.Context, threadID, quotationID uuid.UUID) ([]domain.QuotationDTO, error) {
	thread, err := s.getThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if _, err := s.quotationRepo.GetByID(ctx, threadID, quotationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, storeErr("get quotation", err)
	}

	count, err := s.quotationRepo.CountByThread(ctx, threadID)
	if err != nil {
		return nil, storeErr("count quotations", err)
	}
	if count <= 1 {
		return nil, NewPreconditionError("last_quotation",
			"a thread must keep at least one quotation version")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.Quotation{}, "id = ? AND thread_id = ?", quotationID, threadID).Error; err != nil {
			return err
		}
		if thread.FinalQuotationID != nil && *thread.FinalQuotationID == quotationID {
			fields := map[string]interface{}{"final_quotation_id": nil}
			if thread.Status == domain.ThreadStatusQuotationAccepted {
				fields["status"] = domain.ThreadStatusQuotationCreated
			}
			return tx.Model(&domain.Thread{}).Where("id = ?", threadID).Updates(fields).Error
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("delete quotation", err)
	}

	remaining, err := s.quotationRepo.ListByThread(ctx, threadID)
	if err != nil {
		return nil, storeErr("list quotations", err)
	}
	return mapper.ToQuotationDTOs(remaining), nil
}

func (s *QuotationService) getThread(ctx context.Context, threadID uuid.UUID) (*domain.Thread, error) {
	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, storeErr("get thread", err)
	}
	return thread, nil
}

func (s *QuotationService) reloadThread(ctx context.Context, threadID uuid.UUID) (*domain.ThreadDTO, error) {
	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, storeErr("reload thread", err)
	}
	dto := mapper.ToThreadDTO(thread)
	return &dto, nil
}

// prepareQuotationContent renumbers line serials using the vessel's serial
// format and recomputes all derived pricing fields. Unknown vessels fall back
// to the default H## format.
func prepareQuotationContent(ctx context.Context, vessels *repository.VesselRepository, content domain.QuotationContent) domain.QuotationContent {
	format := domain.DefaultSerialFormat
	if content.VesselName != "" {
		if vessel, err := vessels.GetByName(ctx, content.VesselName); err == nil {
			format = vessel.SerialFormat
		}
	}
	for i := range content.Items {
		content.Items[i].SlNo = domain.FormatSerialNo(format, i+1)
	}
	if content.SchemaVersion == 0 {
		content.SchemaVersion = domain.ContentSchemaVersion
	}
	return pricing.Recalculate(content)
}

// nextVersionLabel picks the next revision label. Labels are strictly
// monotonic: the highest existing QuotationRevisedN wins even if earlier
// revisions were deleted, so labels are never reused.
func nextVersionLabel(existing []domain.Quotation) string {
	highest := 0
	for _, q := range existing {
		m := revisedLabelPattern.FindStringSubmatch(q.Version)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("QuotationRevised%d", highest+1)
}
