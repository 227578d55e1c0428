package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/highrangestar/quotation-api/internal/service"
	"go.uber.org/zap"
)

type QuotationHandler struct {
	quotationService *service.QuotationService
	logger           *zap.Logger
}

func NewQuotationHandler(quotationService *service.QuotationService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		logger:           logger,
	}
}

func quotationParams(w http.ResponseWriter, r *http.Request) (threadID, quotationID uuid.UUID, ok bool) {
	threadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid thread ID format")
		return uuid.Nil, uuid.Nil, false
	}
	quotationID, err = uuid.Parse(chi.URLParam(r, "quotationId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return threadID, quotationID, true
}

// List godoc
// @Summary List quotations of a thread
// @Description Get all quotation revisions of a thread, newest first
// @Tags Quotations
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Success 200 {array} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/quotations [get]
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	threadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid thread ID format")
		return
	}

	quotations, err := h.quotationService.ListByThread(r.Context(), threadID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, quotations)
}

// CreateRevision godoc
// @Summary Create quotation revision
// @Description Create a new revision based on an existing quotation. Content defaults to a copy of the previous revision.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Param request body domain.CreateRevisionRequest true "Revision data"
// @Success 201 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/quotations [post]
func (h *QuotationHandler) CreateRevision(w http.ResponseWriter, r *http.Request) {
	threadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid thread ID format")
		return
	}

	var req domain.CreateRevisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.CreateRevision(r.Context(), threadID, &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, quotation)
}

// Update godoc
// @Summary Update quotation content
// @Description Replace the content of a quotation. Amounts and the in-words total are recomputed.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Param quotationId path string true "Quotation ID" format(uuid)
// @Param request body domain.UpdateQuotationRequest true "Quotation content"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/quotations/{quotationId} [put]
func (h *QuotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	threadID, quotationID, ok := quotationParams(w, r)
	if !ok {
		return
	}

	var req domain.UpdateQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.UpdateContent(r.Context(), threadID, quotationID, req.Content)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// Finalize godoc
// @Summary Finalize quotation
// @Description Mark a quotation as the final one. Any previous final marker is cleared and the thread moves to accepted.
// @Tags Quotations
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Param quotationId path string true "Quotation ID" format(uuid)
// @Success 200 {object} domain.ThreadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/quotations/{quotationId}/finalize [post]
func (h *QuotationHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	threadID, quotationID, ok := quotationParams(w, r)
	if !ok {
		return
	}

	thread, err := h.quotationService.SetFinal(r.Context(), threadID, quotationID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, thread)
}

// Delete godoc
// @Summary Delete quotation
// @Description Delete a quotation revision. The last remaining revision of a thread cannot be deleted.
// @Tags Quotations
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Param quotationId path string true "Quotation ID" format(uuid)
// @Success 200 {array} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Last quotation of the thread"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/quotations/{quotationId} [delete]
func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	threadID, quotationID, ok := quotationParams(w, r)
	if !ok {
		return
	}

	remaining, err := h.quotationService.Delete(r.Context(), threadID, quotationID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, remaining)
}
