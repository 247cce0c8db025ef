package handlers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/denimworks/qc-engine/pkg/apperrors"
	"github.com/denimworks/qc-engine/pkg/models"
	"github.com/denimworks/qc-engine/pkg/repositories"
)

// Period values accepted by the stats endpoint.
const (
	PeriodDay   = "dia"
	PeriodWeek  = "semana"
	PeriodMonth = "mes"
)

const (
	topDefectTypesLimit    = 10
	recentInspectionsLimit = 5
)

// StatsResponse is the dashboard aggregate payload.
type StatsResponse struct {
	TotalInspections int64                    `json:"totalInspecciones"`
	Approved         int64                    `json:"aprobadas"`
	Rejected         int64                    `json:"rechazadas"`
	ApprovalRate     float64                  `json:"tasaAprobacion"`
	AvgQuality       int                      `json:"promedioCalidad"`
	BySeverity       models.SeverityCounts    `json:"defectosPorSeveridad"`
	ByDefectType     []models.DefectTypeCount `json:"defectosPorTipo"`
	Recent           []models.Inspection      `json:"ultimasInspecciones"`
	CurrentBatch     *models.ProductionBatch  `json:"loteActual"`
}

// StatsHandler serves the aggregated dashboard metrics.
type StatsHandler struct {
	stats   repositories.StatsRepository
	batches repositories.BatchRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats repositories.StatsRepository, batches repositories.BatchRepository, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, batches: batches, logger: logger, now: time.Now}
}

// RegisterRoutes registers the stats route on the given mux.
func (h *StatsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/estadisticas", h.Get)
}

// periodStart maps the periodo query parameter to a window start. Unknown
// or absent values mean unbounded.
func (h *StatsHandler) periodStart(period string) *time.Time {
	now := h.now()
	var since time.Time
	switch period {
	case PeriodDay:
		since = now.AddDate(0, 0, -1)
	case PeriodWeek:
		since = now.AddDate(0, 0, -7)
	case PeriodMonth:
		since = now.AddDate(0, -1, 0)
	default:
		return nil
	}
	return &since
}

// Get handles GET /api/estadisticas.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	since := h.periodStart(r.URL.Query().Get("periodo"))

	summary, err := h.stats.Summary(ctx, since)
	if err != nil {
		h.logger.Error("failed to compute stats summary", zap.Error(err))
		h.statsError(w)
		return
	}

	severity, err := h.stats.DefectsBySeverity(ctx, since)
	if err != nil {
		h.logger.Error("failed to group defects by severity", zap.Error(err))
		h.statsError(w)
		return
	}

	types, err := h.stats.TopDefectTypes(ctx, since, topDefectTypesLimit)
	if err != nil {
		h.logger.Error("failed to rank defect types", zap.Error(err))
		h.statsError(w)
		return
	}

	recent, err := h.stats.RecentInspections(ctx, recentInspectionsLimit)
	if err != nil {
		h.logger.Error("failed to load recent inspections", zap.Error(err))
		h.statsError(w)
		return
	}

	batch, err := h.batches.Latest(ctx)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		h.logger.Error("failed to load latest batch", zap.Error(err))
		h.statsError(w)
		return
	}

	resp := StatsResponse{
		TotalInspections: summary.Total,
		Approved:         summary.Approved,
		Rejected:         summary.Rejected,
		ApprovalRate:     approvalRate(summary.Approved, summary.Total),
		AvgQuality:       summary.AvgQuality,
		BySeverity:       *severity,
		ByDefectType:     types,
		Recent:           recent,
		CurrentBatch:     batch,
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode stats response", zap.Error(err))
	}
}

// approvalRate returns the approved percentage rounded to one decimal.
// Zero inspections means a rate of 0, not a division error.
func approvalRate(approved, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(approved)/float64(total)*1000) / 10
}

func (h *StatsHandler) statsError(w http.ResponseWriter) {
	if err := ErrorResponse(w, http.StatusInternalServerError, "stats_failed", "Error al obtener estadísticas"); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
