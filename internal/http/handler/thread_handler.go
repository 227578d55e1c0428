package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/highrangestar/quotation-api/internal/service"
	"go.uber.org/zap"
)

type ThreadHandler struct {
	threadService *service.ThreadService
	refIDService  *service.RefIDService
	logger        *zap.Logger
}

func NewThreadHandler(threadService *service.ThreadService, refIDService *service.RefIDService, logger *zap.Logger) *ThreadHandler {
	return &ThreadHandler{
		threadService: threadService,
		refIDService:  refIDService,
		logger:        logger,
	}
}

// List godoc
// @Summary List quotation threads
// @Description Get paginated list of quotation threads, newest first
// @Tags Threads
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ThreadDTO}
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads [get]
func (h *ThreadHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}

	threads, total, err := h.threadService.List(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Data:       threads,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// Create godoc
// @Summary Create quotation thread
// @Description Create a new thread with its first quotation. A reference number is generated when none is supplied.
// @Tags Threads
// @Accept json
// @Produce json
// @Param request body domain.CreateThreadRequest true "Thread data"
// @Success 201 {object} domain.ThreadDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Reference number already in use"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads [post]
func (h *ThreadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	thread, err := h.threadService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/v1/threads/"+thread.ID.String())
	respondJSON(w, http.StatusCreated, thread)
}

// GetByID godoc
// @Summary Get thread by ID
// @Description Get a thread with its quotations and documents
// @Tags Threads
// @Produce json
// @Param id path string true "Thread ID" format(uuid)
// @Success 200 {object} domain.ThreadDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/{id} [get]
func (h *ThreadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid thread ID format")
		return
	}

	thread, err := h.threadService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, thread)
}

// NextRefID godoc
// @Summary Preview next reference number
// @Description Returns the next available HRS-QN reference number without reserving it
// @Tags Threads
// @Produce json
// @Success 200 {object} domain.NextRefIDDTO
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /threads/next-ref [get]
func (h *ThreadHandler) NextRefID(w http.ResponseWriter, r *http.Request) {
	refID, err := h.refIDService.NextRefID(r.Context())
	if err != nil {
		h.logger.Error("failed to compute next reference number", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to compute next reference number")
		return
	}

	respondJSON(w, http.StatusOK, domain.NextRefIDDTO{RefID: refID})
}
