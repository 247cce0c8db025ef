// Package services orchestrates the analysis pipeline: model invocation,
// response normalization, and persistence of the resulting record graph.
package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/denimworks/qc-engine/pkg/analysis"
	"github.com/denimworks/qc-engine/pkg/models"
	"github.com/denimworks/qc-engine/pkg/repositories"
	"github.com/denimworks/qc-engine/pkg/vision"
)

// AnalysisResponse is what the analysis endpoint returns: the normalized
// model verdict plus the persisted inspection ID (nil when persistence
// failed or was skipped) and the total processing time.
type AnalysisResponse struct {
	models.AnalysisResult
	InspectionID *int64 `json:"idInspeccion"`
	AnalysisMs   int64  `json:"tiempoAnalisisMs"`
}

// CreateInspectionRequest is a pre-normalized analysis result submitted for
// persistence. Defect sub-fields are accepted in both the AI naming and the
// persisted-record naming (see models.DefectPayload).
type CreateInspectionRequest struct {
	ImageBase64    string                 `json:"imagenBase64"`
	Outcome        string                 `json:"resultado"`
	Recommendation string                 `json:"recomendacion"`
	QualityScore   int                    `json:"puntuacionCalidad"`
	Summary        string                 `json:"resumenAnalisis"`
	Notes          string                 `json:"notasIA"`
	RawResponse    string                 `json:"respuestaCompletaIA"`
	AnalysisMs     int64                  `json:"tiempoAnalisisMs"`
	OperatorID     *int64                 `json:"idUsuario"`
	Defects        []models.DefectPayload `json:"defectos"`
}

// AnalysisService runs the image analysis pipeline and persists results.
type AnalysisService interface {
	// Analyze submits the image to the vision model, normalizes the reply,
	// and records the inspection. Persistence failures are logged and
	// reported as a nil inspection ID; the caller still gets the verdict.
	// Only an invocation failure (no model reply at all) returns an error.
	Analyze(ctx context.Context, imageDataURL string) (*AnalysisResponse, error)

	// CreateInspection persists a pre-normalized result: find-or-create
	// today's batch and the default product, insert the inspection with its
	// defects transactionally, and bump the batch counters. Unlike Analyze,
	// persistence failures propagate.
	CreateInspection(ctx context.Context, req *CreateInspectionRequest) (*models.Inspection, error)
}

type analysisService struct {
	analyzer    vision.Analyzer
	batches     repositories.BatchRepository
	products    repositories.ProductRepository
	inspections repositories.InspectionRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewAnalysisService creates the analysis pipeline service.
func NewAnalysisService(
	analyzer vision.Analyzer,
	batches repositories.BatchRepository,
	products repositories.ProductRepository,
	inspections repositories.InspectionRepository,
	logger *zap.Logger,
) AnalysisService {
	return &analysisService{
		analyzer:    analyzer,
		batches:     batches,
		products:    products,
		inspections: inspections,
		logger:      logger.Named("analysis"),
		now:         time.Now,
	}
}

// rejectedOutcome decides which batch counter an inspection outcome feeds.
// There is no separate bucket for ingestion failures: an unreadable model
// reply (outcome "error") counts as a rejection, the same as a garment
// rejected for defects. This is the single place that policy lives.
func rejectedOutcome(outcome string) bool {
	return outcome != models.OutcomeApproved
}

// Analyze implements AnalysisService.
func (s *analysisService) Analyze(ctx context.Context, imageDataURL string) (*AnalysisResponse, error) {
	start := s.now()

	raw, err := s.analyzer.AnalyzeGarment(ctx, imageDataURL)
	if err != nil {
		return nil, err
	}

	result := analysis.Normalize(raw)
	elapsedMs := s.now().Sub(start).Milliseconds()

	id := s.persistResult(ctx, result, imageDataURL, raw, elapsedMs)

	return &AnalysisResponse{
		AnalysisResult: *result,
		InspectionID:   id,
		AnalysisMs:     elapsedMs,
	}, nil
}

// persistResult records an analysis outcome, degrading to a nil ID on any
// failure. The operator always sees the verdict even when storage is down.
func (s *analysisService) persistResult(ctx context.Context, result *models.AnalysisResult, imageDataURL, raw string, elapsedMs int64) *int64 {
	defects := make([]models.DefectPayload, 0, len(result.Defects))
	for _, d := range result.Defects {
		confidence := d.Confidence.Int()
		defects = append(defects, models.DefectPayload{
			Type:           d.Type,
			Severity:       d.Severity,
			Location:       d.Location,
			Confidence:     &confidence,
			Description:    d.Description,
			Recommendation: d.Recommendation,
		})
	}

	insp, err := s.CreateInspection(ctx, &CreateInspectionRequest{
		ImageBase64:    imageDataURL,
		Outcome:        result.Status,
		Recommendation: result.OverallRecommendation,
		QualityScore:   result.QualityScore.Int(),
		Summary:        result.Summary,
		Notes:          result.Notes,
		RawResponse:    raw,
		AnalysisMs:     elapsedMs,
		Defects:        defects,
	})
	if err != nil {
		s.logger.Error("failed to persist inspection, returning verdict without ID",
			zap.String("outcome", result.Status),
			zap.Error(err))
		return nil
	}
	return &insp.ID
}

// CreateInspection implements AnalysisService.
func (s *analysisService) CreateInspection(ctx context.Context, req *CreateInspectionRequest) (*models.Inspection, error) {
	batch, err := s.batches.FindOrCreateForDate(ctx, s.now())
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindOrCreateByName(ctx, models.DefaultProductName)
	if err != nil {
		return nil, err
	}

	defects := make([]models.Defect, 0, len(req.Defects))
	for _, p := range req.Defects {
		defects = append(defects, p.Canonical())
	}

	inspection := &models.Inspection{
		BatchID:        batch.ID,
		ProductID:      product.ID,
		OperatorID:     req.OperatorID,
		ImageBase64:    req.ImageBase64,
		Outcome:        req.Outcome,
		Recommendation: req.Recommendation,
		QualityScore:   req.QualityScore,
		Summary:        req.Summary,
		Notes:          req.Notes,
		RawResponse:    req.RawResponse,
		AnalysisMs:     req.AnalysisMs,
		Defects:        defects,
	}

	if err := s.inspections.Create(ctx, inspection); err != nil {
		return nil, err
	}

	if err := s.batches.RecordOutcome(ctx, batch.ID, !rejectedOutcome(req.Outcome)); err != nil {
		return nil, err
	}

	inspection.Batch = batch
	inspection.Product = product

	s.logger.Info("inspection recorded",
		zap.Int64("inspection_id", inspection.ID),
		zap.String("batch", batch.BatchNumber),
		zap.String("outcome", req.Outcome),
		zap.Int("defects", len(defects)))

	return inspection, nil
}

// Ensure analysisService implements AnalysisService at compile time.
var _ AnalysisService = (*analysisService)(nil)
