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

type VesselHandler struct {
	vesselService *service.VesselService
	logger        *zap.Logger
}

func NewVesselHandler(vesselService *service.VesselService, logger *zap.Logger) *VesselHandler {
	return &VesselHandler{
		vesselService: vesselService,
		logger:        logger,
	}
}

// List godoc
// @Summary List vessels
// @Tags Vessels
// @Produce json
// @Success 200 {array} domain.VesselDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vessels [get]
func (h *VesselHandler) List(w http.ResponseWriter, r *http.Request) {
	vessels, err := h.vesselService.List(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, vessels)
}

// GetByID godoc
// @Summary Get vessel by ID
// @Tags Vessels
// @Produce json
// @Param id path string true "Vessel ID" format(uuid)
// @Success 200 {object} domain.VesselDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vessels/{id} [get]
func (h *VesselHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid vessel ID format")
		return
	}

	vessel, err := h.vesselService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, vessel)
}

// Create godoc
// @Summary Create vessel
// @Description Register a vessel with its serial number format
// @Tags Vessels
// @Accept json
// @Produce json
// @Param request body domain.CreateVesselRequest true "Vessel data"
// @Success 201 {object} domain.VesselDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vessels [post]
func (h *VesselHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateVesselRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	vessel, err := h.vesselService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/v1/vessels/"+vessel.ID.String())
	respondJSON(w, http.StatusCreated, vessel)
}

// Update godoc
// @Summary Update vessel
// @Tags Vessels
// @Accept json
// @Produce json
// @Param id path string true "Vessel ID" format(uuid)
// @Param request body domain.UpdateVesselRequest true "Vessel data"
// @Success 200 {object} domain.VesselDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vessels/{id} [put]
func (h *VesselHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid vessel ID format")
		return
	}

	var req domain.UpdateVesselRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	vessel, err := h.vesselService.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, vessel)
}

// Delete godoc
// @Summary Delete vessel
// @Tags Vessels
// @Produce json
// @Param id path string true "Vessel ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /vessels/{id} [delete]
func (h *VesselHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid vessel ID format")
		return
	}

	if err := h.vesselService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
