package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/denimworks/qc-engine/pkg/repositories"
)

// BatchHandler serves the production batch listing.
type BatchHandler struct {
	batches repositories.BatchRepository
	logger  *zap.Logger
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batches repositories.BatchRepository, logger *zap.Logger) *BatchHandler {
	return &BatchHandler{batches: batches, logger: logger}
}

// RegisterRoutes registers the batch routes on the given mux.
func (h *BatchHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/lotes", h.List)
}

// List handles GET /api/lotes: all batches newest-first, each with its
// inspection count.
func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	batches, err := h.batches.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list batches", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_failed", "Error al obtener lotes"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, batches); err != nil {
		h.logger.Error("Failed to encode batch list", zap.Error(err))
	}
}
