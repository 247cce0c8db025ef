package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/denimworks/qc-engine/pkg/apperrors"
	"github.com/denimworks/qc-engine/pkg/models"
	"github.com/denimworks/qc-engine/pkg/repositories"
	"github.com/denimworks/qc-engine/pkg/services"
)

// Pagination defaults for the inspection listing.
const (
	defaultPageLimit = 50
	defaultPage      = 1
)

// PaginationMeta describes one page of a listing.
type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// InspectionListResponse is the paginated inspection listing envelope.
type InspectionListResponse struct {
	Data       []models.Inspection `json:"data"`
	Pagination PaginationMeta      `json:"pagination"`
}

// InspectionHandler serves the inspection collection and single-resource
// endpoints.
type InspectionHandler struct {
	service     services.AnalysisService
	inspections repositories.InspectionRepository
	logger      *zap.Logger
}

// NewInspectionHandler creates a new InspectionHandler.
func NewInspectionHandler(service services.AnalysisService, inspections repositories.InspectionRepository, logger *zap.Logger) *InspectionHandler {
	return &InspectionHandler{service: service, inspections: inspections, logger: logger}
}

// RegisterRoutes registers the inspection routes on the given mux.
func (h *InspectionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/inspecciones", h.List)
	mux.HandleFunc("POST /api/inspecciones", h.Create)
	mux.HandleFunc("GET /api/inspecciones/{id}", h.Get)
	mux.HandleFunc("DELETE /api/inspecciones/{id}", h.Delete)
}

// List handles GET /api/inspecciones.
func (h *InspectionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPageLimit)
	page := queryInt(r, "page", defaultPage)

	inspections, total, err := h.inspections.List(r.Context(), limit, page)
	if err != nil {
		h.logger.Error("failed to list inspections", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_failed", "Error al obtener inspecciones"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	resp := InspectionListResponse{
		Data: inspections,
		Pagination: PaginationMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode inspection list", zap.Error(err))
	}
}

// Create handles POST /api/inspecciones: persists a pre-normalized analysis
// result through the same batch/product/inspection/counter sequence as the
// analysis endpoint.
func (h *InspectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateInspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Cuerpo de solicitud inválido"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	inspection, err := h.service.CreateInspection(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create inspection", zap.Error(err))
		if err := ErrorWithDetails(w, http.StatusInternalServerError, "Error al crear inspección", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, inspection); err != nil {
		h.logger.Error("Failed to encode created inspection", zap.Error(err))
	}
}

// Get handles GET /api/inspecciones/{id}.
func (h *InspectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseInspectionID(w, r, h.logger)
	if !ok {
		return
	}

	inspection, err := h.inspections.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Inspección no encontrada"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("failed to get inspection", zap.Int64("id", id), zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "get_failed", "Error al obtener inspección"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, inspection); err != nil {
		h.logger.Error("Failed to encode inspection", zap.Error(err))
	}
}

// Delete handles DELETE /api/inspecciones/{id}. Defects go with the
// inspection via cascade; batch counters keep their historical values.
func (h *InspectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseInspectionID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.inspections.Delete(r.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Inspección no encontrada"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("failed to delete inspection", zap.Int64("id", id), zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "delete_failed", "Error al eliminar inspección"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Inspección eliminada",
	}); err != nil {
		h.logger.Error("Failed to encode delete response", zap.Error(err))
	}
}
