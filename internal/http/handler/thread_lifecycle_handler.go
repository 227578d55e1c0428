package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/highrangestar/quotation-api/internal/service"
	"go.uber.org/zap"
)

// ThreadLifecycleHandler exposes the workflow transitions of a thread:
// decline, purchase order intake, work start, delivery notes, invoicing
// and completion.
type ThreadLifecycleHandler struct {
	threadService *service.ThreadService
	maxUploadMB   int64
	logger        *zap.Logger
}

func NewThreadLifecycleHandler(threadService *service.ThreadService, maxUploadMB int64, logger *zap.Logger) *ThreadLifecycleHandler {
	return &ThreadLifecycleHandler{
		threadService: threadService,
		maxUploadMB:   maxUploadMB,
		logger:        logger,
	}
}

// formFile reads the multipart "file" field enforcing the upload size cap.
// The caller must close the returned file.
func (h *ThreadLifecycleHandler) formFile(w http.ResponseWriter, r *http.Request) (*service.UploadedFile, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return nil, nil, false
	}

	upload := &service.UploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	}
	return upload, func() { _ = file.Close() }, true
}

func threadIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid thread ID format")
		return uuid.Nil, false
	}
	return id, true
}

// Decline godoc
// @Summary Decline thread
// @Description Mark the thread as declined. All open quotations are declined and the final marker is cleared.
// @Tags Threads
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Success 200 {object} domain.ThreadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/decline [post]
func (h *ThreadLifecycleHandler) Decline(w http.ResponseWriter, r *http.Request) {
	id, ok := threadIDParam(w, r)
	if !ok {
		return
	}

	thread, err := h.threadService.Decline(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, thread)
}

// UndoDecline godoc
// @Summary Undo thread decline
// @Description Reopen a declined thread. All declined quotations return to pending.
// @Tags Threads
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Success 200 {object} domain.ThreadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Thread is not declined"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/undo-decline [post]
func (h *ThreadLifecycleHandler) UndoDecline(w http.ResponseWriter, r *http.Request) {
	id, ok := threadIDParam(w, r)
	if !ok {
		return
	}

	thread, err := h.threadService.UndoDecline(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, thread)
}

// AttachPurchaseOrder godoc
// @Summary Attach purchase order
// @Description Upload a purchase order PDF and record its PO number. Requires a finalized quotation.
// @Tags Threads
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Param file formData file true "Purchase order PDF"
// @Param poId formData string true "Purchase order number"
// @Success 200 {object} domain.ThreadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "No finalized quotation"
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/purchase-order [post]
func (h *ThreadLifecycleHandler) AttachPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := threadIDParam(w, r)
	if !ok {
		return
	}

	upload, closeFile, ok := h.formFile(w, r)
	if !ok {
		return
	}
	defer closeFile()

	poID := r.FormValue("poId")
	if poID == "" {
		respondWithError(w, http.StatusBadRequest, "Form field 'poId' is required")
		return
	}

	thread, err := h.threadService.AttachPurchaseOrder(r.Context(), id, poID, upload)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, thread)
}

// MarkPurchaseOrder godoc
// @Summary Mark purchase order received
// @Description Record a PO number without a file upload. Requires a finalized quotation.
// @Tags Threads
// @Accept json
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Param request body domain.MarkPurchaseOrderRequest true "Purchase order number"
// @Success 200 {object} domain.ThreadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "No finalized quotation"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/purchase-order/mark [post]
func (h *ThreadLifecycleHandler) MarkPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := threadIDParam(w, r)
	if !ok {
		return
	}

	var req domain.MarkPurchaseOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	thread, err := h.threadService.MarkPurchaseOrderUploaded(r.Context(), id, req.PoID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, thread)
}

// StartWork godoc
// @Summary Start work
// @Description Move the thread to work started. Requires a recorded purchase order.
// @Tags Threads
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Success 200 {object} domain.ThreadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "No purchase order recorded"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/start-work [post]
func (h *ThreadLifecycleHandler) StartWork(w http.ResponseWriter, r *http.Request) {
	id, ok := threadIDParam(w, r)
	if !ok {
		return
	}

	thread, err := h.threadService.StartWork(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, thread)
}

// CreateDeliveryNote godoc
// @Summary Create delivery note
// @Description Generate an unsigned delivery note from the finalized quotation items
// @Tags Threads
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Success 200 {object} domain.ThreadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "No purchase order recorded"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/delivery-note [post]
func (h *ThreadLifecycleHandler) CreateDeliveryNote(w http.ResponseWriter, r *http.Request) {
	id, ok := threadIDParam(w, r)
	if !ok {
		return
	}

	thread, err := h.threadService.CreateDeliveryNote(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, thread)
}

// UploadSignedDeliveryNote godoc
// @Summary Upload signed delivery note
// @Description Upload the customer-signed delivery note PDF
// @Tags Threads
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Param file formData file true "Signed delivery note PDF"
// @Success 200 {object} domain.ThreadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "No delivery note created"
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/delivery-note/signed [post]
func (h *ThreadLifecycleHandler) UploadSignedDeliveryNote(w http.ResponseWriter, r *http.Request) {
	id, ok := threadIDParam(w, r)
	if !ok {
		return
	}

	upload, closeFile, ok := h.formFile(w, r)
	if !ok {
		return
	}
	defer closeFile()

	thread, err := h.threadService.UploadSignedDeliveryNote(r.Context(), id, upload)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, thread)
}

// GenerateInvoice godoc
// @Summary Generate invoice
// @Description Generate an invoice from the finalized quotation. Requires a signed delivery note.
// @Tags Threads
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Success 200 {object} domain.ThreadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "No signed delivery note"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/invoice [post]
func (h *ThreadLifecycleHandler) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := threadIDParam(w, r)
	if !ok {
		return
	}

	thread, err := h.threadService.GenerateInvoice(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, thread)
}

// Complete godoc
// @Summary Complete thread
// @Description Close out the thread. Requires a generated invoice.
// @Tags Threads
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Success 200 {object} domain.ThreadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "No invoice generated"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/complete [post]
func (h *ThreadLifecycleHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := threadIDParam(w, r)
	if !ok {
		return
	}

	thread, err := h.threadService.Complete(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, thread)
}
