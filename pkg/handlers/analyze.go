package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/denimworks/qc-engine/pkg/logging"
	"github.com/denimworks/qc-engine/pkg/services"
)

// AnalyzeRequest is the analysis endpoint's body.
type AnalyzeRequest struct {
	Image string `json:"image"`
}

// AnalyzeHandler runs the image analysis pipeline.
type AnalyzeHandler struct {
	service services.AnalysisService
	logger  *zap.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(service services.AnalysisService, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{service: service, logger: logger}
}

// RegisterRoutes registers the analysis route on the given mux.
func (h *AnalyzeHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/analyze", h.Analyze)
}

// Analyze handles POST /api/analyze. The verdict is returned even when
// persistence fails (idInspeccion comes back null in that case); only a
// failed model invocation produces a 500.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "missing_image", "No se proporcionó imagen"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	h.logger.Debug("analysis requested",
		zap.String("image", logging.TruncatePayload(req.Image)))

	resp, err := h.service.Analyze(r.Context(), req.Image)
	if err != nil {
		h.logger.Error("analysis failed", zap.Error(err))
		if err := ErrorWithDetails(w, http.StatusInternalServerError, "Error al analizar la imagen", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode analysis response", zap.Error(err))
	}
}
