package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/highrangestar/quotation-api/internal/mapper"
	"github.com/highrangestar/quotation-api/internal/pricing"
	"github.com/highrangestar/quotation-api/internal/repository"
	"github.com/highrangestar/quotation-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UploadedFile carries a multipart upload into the service layer
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// ThreadService implements the thread workflow state machine. Transitions
// mutate the thread and its owned entities atomically; artifacts are stored
// durably before the authoritative status flip, so a crash leaves at worst
// an orphaned blob, never a status without its artifact.
type ThreadService struct {
	db            *gorm.DB
	threadRepo    *repository.ThreadRepository
	quotationRepo *repository.QuotationRepository
	documentRepo  *repository.DocumentRepository
	vesselRepo    *repository.VesselRepository
	refIDService  *RefIDService
	store         storage.Storage
	logger        *zap.Logger
}

// NewThreadService creates a new thread service
func NewThreadService(
	db *gorm.DB,
	threadRepo *repository.ThreadRepository,
	quotationRepo *repository.QuotationRepository,
	documentRepo *repository.DocumentRepository,
	vesselRepo *repository.VesselRepository,
	refIDService *RefIDService,
	store storage.Storage,
	logger *zap.Logger,
) *ThreadService {
	return &ThreadService{
		db:            db,
		threadRepo:    threadRepo,
		quotationRepo: quotationRepo,
		documentRepo:  documentRepo,
		vesselRepo:    vesselRepo,
		refIDService:  refIDService,
		store:         store,
		logger:        logger,
	}
}

// Create opens a new thread with its first quotation version. When no
// reference number is supplied one is generated; either way the number must
// not already be in use.
func (s *ThreadService) Create(ctx context.Context, req *domain.CreateThreadRequest) (*domain.ThreadDTO, error) {
	refID := strings.TrimSpace(req.UserRefID)
	if refID == "" {
		generated, err := s.refIDService.NextRefID(ctx)
		if err != nil {
			return nil, err
		}
		refID = generated
	}

	exists, err := s.threadRepo.ExistsByUserRefID(ctx, refID)
	if err != nil {
		return nil, storeErr("check reference number", err)
	}
	if exists {
		return nil, ErrRefIDInUse
	}

	content := mapper.ContentFromInput(req.Content)
	content.RefID = refID
	content = prepareQuotationContent(ctx, s.vesselRepo, content)

	thread := &domain.Thread{
		UserRefID: refID,
		Status:    domain.ThreadStatusQuotationCreated,
		Quotations: []domain.Quotation{
			{
				Version: firstVersionLabel,
				Status:  domain.QuotationStatusPending,
				Content: content,
			},
		},
	}
	if err := s.threadRepo.Create(ctx, thread); err != nil {
		return nil, storeErr("create thread", err)
	}

	s.logger.Info("Created thread",
		zap.String("threadId", thread.ID.String()),
		zap.String("refId", refID))

	return s.reload(ctx, thread.ID)
}

// GetByID returns a thread with its quotations and documents
func (s *ThreadService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ThreadDTO, error) {
	thread, err := s.getThread(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToThreadDTO(thread)
	return &dto, nil
}

// List returns threads newest first with pagination
func (s *ThreadService) List(ctx context.Context, limit, offset int) ([]domain.ThreadDTO, int64, error) {
	threads, total, err := s.threadRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, storeErr("list threads", err)
	}
	dtos := make([]domain.ThreadDTO, 0, len(threads))
	for i := range threads {
		dtos = append(dtos, mapper.ToThreadDTO(&threads[i]))
	}
	return dtos, total, nil
}

// Decline marks the whole thread as declined: every pending or accepted
// quotation flips to declined and the final flag is cleared everywhere.
func (s *ThreadService) Decline(ctx context.Context, id uuid.UUID) (*domain.ThreadDTO, error) {
	if _, err := s.getThread(ctx, id); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Quotation{}).
			Where("thread_id = ? AND status IN ?", id,
				[]domain.QuotationStatus{domain.QuotationStatusPending, domain.QuotationStatusAccepted}).
			Update("status", domain.QuotationStatusDeclined).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Quotation{}).
			Where("thread_id = ?", id).
			Update("is_final", false).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Thread{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":             domain.ThreadStatusQuotationDeclined,
				"final_quotation_id": nil,
			}).Error
	})
	if err != nil {
		return nil, storeErr("decline thread", err)
	}

	s.logger.Info("Declined thread", zap.String("threadId", id.String()))
	return s.reload(ctx, id)
}

// UndoDecline reverts a declined thread: every declined quotation goes back
// to pending and the thread returns to QuotationCreated.
func (s *ThreadService) UndoDecline(ctx context.Context, id uuid.UUID) (*domain.ThreadDTO, error) {
	thread, err := s.getThread(ctx, id)
	if err != nil {
		return nil, err
	}
	if thread.Status != domain.ThreadStatusQuotationDeclined {
		return nil, NewPreconditionError("thread_not_declined",
			fmt.Sprintf("thread is %s, only a declined thread can be reverted", thread.Status))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Quotation{}).
			Where("thread_id = ? AND status = ?", id, domain.QuotationStatusDeclined).
			Update("status", domain.QuotationStatusPending).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Thread{}).
			Where("id = ?", id).
			Update("status", domain.ThreadStatusQuotationCreated).Error
	})
	if err != nil {
		return nil, storeErr("undo decline", err)
	}

	s.logger.Info("Reverted declined thread", zap.String("threadId", id.String()))
	return s.reload(ctx, id)
}

// AttachPurchaseOrder stores the client's purchase order file and records the
// PO number. Requires a final quotation; only PDFs are accepted.
func (s *ThreadService) AttachPurchaseOrder(ctx context.Context, id uuid.UUID, poID string, file *UploadedFile) (*domain.ThreadDTO, error) {
	thread, err := s.getThread(ctx, id)
	if err != nil {
		return nil, err
	}
	if thread.FinalQuotation() == nil {
		return nil, NewPreconditionError("final_quotation_required",
			"a quotation must be marked final before attaching a purchase order")
	}
	if !isPDF(file.ContentType) {
		return nil, fmt.Errorf("%w: purchase order must be a PDF, got %s", ErrInvalidFileType, file.ContentType)
	}

	if _, err := s.storeDocument(ctx, id, domain.DocumentTypePurchaseOrder, file); err != nil {
		return nil, err
	}

	if err := s.threadRepo.UpdateFields(ctx, id, map[string]interface{}{
		"po_id":  poID,
		"status": domain.ThreadStatusPurchaseOrderRecieved,
	}); err != nil {
		return nil, storeErr("update thread", err)
	}

	s.logger.Info("Attached purchase order",
		zap.String("threadId", id.String()),
		zap.String("poId", poID))
	return s.reload(ctx, id)
}

// MarkPurchaseOrderUploaded records a PO number without a file, for clients
// that send the order out of band. Same guard as AttachPurchaseOrder.
func (s *ThreadService) MarkPurchaseOrderUploaded(ctx context.Context, id uuid.UUID, poID string) (*domain.ThreadDTO, error) {
	thread, err := s.getThread(ctx, id)
	if err != nil {
		return nil, err
	}
	if thread.FinalQuotation() == nil {
		return nil, NewPreconditionError("final_quotation_required",
			"a quotation must be marked final before recording a purchase order")
	}

	if err := s.threadRepo.UpdateFields(ctx, id, map[string]interface{}{
		"po_id":  poID,
		"status": domain.ThreadStatusPurchaseOrderRecieved,
	}); err != nil {
		return nil, storeErr("update thread", err)
	}

	s.logger.Info("Marked purchase order received",
		zap.String("threadId", id.String()),
		zap.String("poId", poID))
	return s.reload(ctx, id)
}

// StartWork records that work on the order has begun
func (s *ThreadService) StartWork(ctx context.Context, id uuid.UUID) (*domain.ThreadDTO, error) {
	thread, err := s.getThread(ctx, id)
	if err != nil {
		return nil, err
	}
	if thread.PoID == "" {
		return nil, NewPreconditionError("purchase_order_required",
			"a purchase order must be recorded before starting work")
	}

	if err := s.threadRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status": domain.ThreadStatusWorkStarted,
	}); err != nil {
		return nil, storeErr("update thread", err)
	}
	return s.reload(ctx, id)
}

// CreateDeliveryNote generates the unsigned delivery note from the final
// quotation's deliverables and stores it as a document artifact.
func (s *ThreadService) CreateDeliveryNote(ctx context.Context, id uuid.UUID) (*domain.ThreadDTO, error) {
	thread, err := s.getThread(ctx, id)
	if err != nil {
		return nil, err
	}
	if thread.PoID == "" {
		return nil, NewPreconditionError("purchase_order_required",
			"a purchase order must be recorded before creating a delivery note")
	}
	final := thread.FinalQuotation()
	if final == nil {
		return nil, NewPreconditionError("final_quotation_required",
			"a final quotation is required to derive the delivery note")
	}

	note := domain.DeliveryNoteContent{
		RefID:      thread.UserRefID,
		PoID:       thread.PoID,
		Date:       time.Now().UTC().Format("2006-01-02"),
		PartyName:  final.Content.PartyName,
		VesselName: final.Content.VesselName,
	}
	for _, item := range final.Content.Items {
		note.Items = append(note.Items, domain.DeliveryNoteItem{
			SlNo:        item.SlNo,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
		})
	}

	filename := fmt.Sprintf("delivery-note-%s.json", thread.UserRefID)
	if _, err := s.storeGenerated(ctx, id, domain.DocumentTypeDeliveryNote, filename, note); err != nil {
		return nil, err
	}

	if err := s.threadRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status": domain.ThreadStatusDeliveryNoteCreated,
	}); err != nil {
		return nil, storeErr("update thread", err)
	}

	s.logger.Info("Created delivery note", zap.String("threadId", id.String()))
	return s.reload(ctx, id)
}

// UploadSignedDeliveryNote stores the countersigned delivery note returned
// by the client. Requires the unsigned note to exist first.
func (s *ThreadService) UploadSignedDeliveryNote(ctx context.Context, id uuid.UUID, file *UploadedFile) (*domain.ThreadDTO, error) {
	if _, err := s.getThread(ctx, id); err != nil {
		return nil, err
	}
	exists, err := s.documentRepo.ExistsByType(ctx, id, domain.DocumentTypeDeliveryNote)
	if err != nil {
		return nil, storeErr("check delivery note", err)
	}
	if !exists {
		return nil, NewPreconditionError("delivery_note_required",
			"a delivery note must be created before uploading the signed copy")
	}
	if !isPDF(file.ContentType) {
		return nil, fmt.Errorf("%w: signed delivery note must be a PDF, got %s", ErrInvalidFileType, file.ContentType)
	}

	if _, err := s.storeDocument(ctx, id, domain.DocumentTypeSignedDeliveryNote, file); err != nil {
		return nil, err
	}

	if err := s.threadRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status": domain.ThreadStatusSignedDeliveryNote,
	}); err != nil {
		return nil, storeErr("update thread", err)
	}

	s.logger.Info("Uploaded signed delivery note", zap.String("threadId", id.String()))
	return s.reload(ctx, id)
}

// GenerateInvoice issues the invoice from the final quotation once the
// signed delivery note is on file.
func (s *ThreadService) GenerateInvoice(ctx context.Context, id uuid.UUID) (*domain.ThreadDTO, error) {
	thread, err := s.getThread(ctx, id)
	if err != nil {
		return nil, err
	}
	exists, err := s.documentRepo.ExistsByType(ctx, id, domain.DocumentTypeSignedDeliveryNote)
	if err != nil {
		return nil, storeErr("check signed delivery note", err)
	}
	if !exists {
		return nil, NewPreconditionError("signed_delivery_note_required",
			"the signed delivery note must be uploaded before invoicing")
	}
	final := thread.FinalQuotation()
	if final == nil {
		return nil, NewPreconditionError("final_quotation_required",
			"a final quotation is required to derive the invoice")
	}

	content := pricing.Recalculate(final.Content.Clone())
	invoiceNumber := s.refIDService.NewInvoiceNumber(time.Now())
	invoice := domain.InvoiceContent{
		InvoiceNumber: invoiceNumber,
		RefID:         thread.UserRefID,
		PoID:          thread.PoID,
		Date:          time.Now().UTC().Format("2006-01-02"),
		PartyName:     content.PartyName,
		PartyAddress:  content.PartyAddress,
		VesselName:    content.VesselName,
		Items:         content.Items,
		Total:         content.Total,
		TotalInWords:  content.TotalInWords,
	}

	filename := fmt.Sprintf("invoice-%s.json", invoiceNumber)
	if _, err := s.storeGenerated(ctx, id, domain.DocumentTypeInvoice, filename, invoice); err != nil {
		return nil, err
	}

	if err := s.threadRepo.UpdateFields(ctx, id, map[string]interface{}{
		"invoice_number": invoiceNumber,
		"status":         domain.ThreadStatusInvoiceCreated,
	}); err != nil {
		return nil, storeErr("update thread", err)
	}

	s.logger.Info("Generated invoice",
		zap.String("threadId", id.String()),
		zap.String("invoiceNumber", invoiceNumber))
	return s.reload(ctx, id)
}

// Complete closes the thread once the invoice document exists
func (s *ThreadService) Complete(ctx context.Context, id uuid.UUID) (*domain.ThreadDTO, error) {
	if _, err := s.getThread(ctx, id); err != nil {
		return nil, err
	}
	exists, err := s.documentRepo.ExistsByType(ctx, id, domain.DocumentTypeInvoice)
	if err != nil {
		return nil, storeErr("check invoice", err)
	}
	if !exists {
		return nil, NewPreconditionError("invoice_required",
			"an invoice must be generated before completing the thread")
	}

	if err := s.threadRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status": domain.ThreadStatusCompleted,
	}); err != nil {
		return nil, storeErr("update thread", err)
	}

	s.logger.Info("Completed thread", zap.String("threadId", id.String()))
	return s.reload(ctx, id)
}

// storeDocument uploads a client file and records it, blob first
func (s *ThreadService) storeDocument(ctx context.Context, threadID uuid.UUID, docType domain.DocumentType, file *UploadedFile) (*domain.Document, error) {
	storagePath := storage.DocumentPath(threadID.String(), string(docType), file.Filename)
	size, err := s.store.Upload(ctx, storagePath, file.ContentType, file.Data)
	if err != nil {
		return nil, storeErr("upload file", err)
	}

	document := &domain.Document{
		ThreadID:    threadID,
		Type:        docType,
		Filename:    file.Filename,
		Filepath:    storagePath,
		ContentType: file.ContentType,
		Size:        size,
	}
	if err := s.documentRepo.Create(ctx, document); err != nil {
		return nil, storeErr("record document", err)
	}
	return document, nil
}

// storeGenerated serializes a generated artifact and stores it like an upload
func (s *ThreadService) storeGenerated(ctx context.Context, threadID uuid.UUID, docType domain.DocumentType, filename string, payload interface{}) (*domain.Document, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", docType, err)
	}
	return s.storeDocument(ctx, threadID, docType, &UploadedFile{
		Filename:    filename,
		ContentType: "application/json",
		Data:        bytes.NewReader(data),
	})
}

func (s *ThreadService) getThread(ctx context.Context, id uuid.UUID) (*domain.Thread, error) {
	thread, err := s.threadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, storeErr("get thread", err)
	}
	return thread, nil
}

func (s *ThreadService) reload(ctx context.Context, id uuid.UUID) (*domain.ThreadDTO, error) {
	thread, err := s.threadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("reload thread", err)
	}
	dto := mapper.ToThreadDTO(thread)
	return &dto, nil
}

func isPDF(contentType string) bool {
	return strings.EqualFold(strings.TrimSpace(contentType), "application/pdf")
}
