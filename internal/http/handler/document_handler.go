package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/highrangestar/quotation-api/internal/service"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	documentService *service.DocumentService
	maxUploadMB     int64
	logger          *zap.Logger
}

func NewDocumentHandler(documentService *service.DocumentService, maxUploadMB int64, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxUploadMB:     maxUploadMB,
		logger:          logger,
	}
}

// List godoc
// @Summary List documents of a thread
// @Description Get document metadata for a thread, optionally filtered by type
// @Tags Documents
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Param type query string false "Filter by document type" Enums(purchase_order, delivery_note_unsigned, delivery_note_signed, invoice)
// @Success 200 {array} domain.DocumentDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/documents [get]
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	threadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid thread ID format")
		return
	}

	var docType *domain.DocumentType
	if t := r.URL.Query().Get("type"); t != "" {
		dt := domain.DocumentType(t)
		if !dt.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid document type filter")
			return
		}
		docType = &dt
	}

	documents, err := h.documentService.ListByThread(r.Context(), threadID, docType)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, documents)
}

// Download godoc
// @Summary Download document
// @Description Stream the stored document content
// @Tags Documents
// @Produce application/octet-stream
// @Param id path string true "Thread ID" format(uuid)
// @Param documentId path string true "Document ID" format(uuid)
// @Success 200
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 503 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/documents/{documentId}/download [get]
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	threadID, documentID, ok := documentParams(w, r)
	if !ok {
		return
	}

	reader, doc, err := h.documentService.Download(r.Context(), threadID, documentID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	defer reader.Close()

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+doc.Filename+"\"")
	w.Header().Set("Content-Type", contentType)

	_, _ = io.Copy(w, reader)
}

// Replace godoc
// @Summary Replace document
// @Description Replace the stored file of an existing document. The old blob is removed on success.
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Param documentId path string true "Document ID" format(uuid)
// @Param file formData file true "Replacement file"
// @Success 200 {object} domain.DocumentDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id}/documents/{documentId} [put]
func (h *DocumentHandler) Replace(w http.ResponseWriter, r *http.Request) {
	threadID, documentID, ok := documentParams(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	doc, err := h.documentService.Replace(r.Context(), threadID, documentID, &service.UploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

func documentParams(w http.ResponseWriter, r *http.Request) (threadID, documentID uuid.UUID, ok bool) {
	threadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid thread ID format")
		return uuid.Nil, uuid.Nil, false
	}
	documentID, err = uuid.Parse(chi.URLParam(r, "documentId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return threadID, documentID, true
}
