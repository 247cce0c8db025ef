package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/denimworks/qc-engine/pkg/models"
	"github.com/denimworks/qc-engine/pkg/repositories"
	"github.com/denimworks/qc-engine/pkg/vision"
)

type fakeBatchRepo struct {
	batch         *models.ProductionBatch
	findErr       error
	outcomeErr    error
	approvedCalls int
	rejectedCalls int
}

func (f *fakeBatchRepo) FindOrCreateForDate(ctx context.Context, day time.Time) (*models.ProductionBatch, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.batch == nil {
		f.batch = &models.ProductionBatch{
			ID:          1,
			BatchNumber: repositories.BatchNumberForDate(day),
			State:       models.BatchStateInProgress,
		}
	}
	return f.batch, nil
}

func (f *fakeBatchRepo) RecordOutcome(ctx context.Context, batchID int64, approved bool) error {
	if f.outcomeErr != nil {
		return f.outcomeErr
	}
	if approved {
		f.approvedCalls++
	} else {
		f.rejectedCalls++
	}
	return nil
}

func (f *fakeBatchRepo) List(ctx context.Context) ([]models.BatchWithCount, error) {
	return nil, nil
}

func (f *fakeBatchRepo) Latest(ctx context.Context) (*models.ProductionBatch, error) {
	return f.batch, nil
}

type fakeProductRepo struct {
	err error
}

func (f *fakeProductRepo) FindOrCreateByName(ctx context.Context, name string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Product{ID: 7, Name: name, Active: true}, nil
}

type fakeInspectionRepo struct {
	created   []*models.Inspection
	createErr error
	nextID    int64
}

func (f *fakeInspectionRepo) Create(ctx context.Context, inspection *models.Inspection) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	inspection.ID = f.nextID
	inspection.InspectedAt = time.Now()
	f.created = append(f.created, inspection)
	return nil
}

func (f *fakeInspectionRepo) List(ctx context.Context, limit, page int) ([]models.Inspection, int64, error) {
	return nil, 0, nil
}

func (f *fakeInspectionRepo) Get(ctx context.Context, id int64) (*models.Inspection, error) {
	return nil, nil
}

func (f *fakeInspectionRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

func newTestService(analyzer vision.Analyzer, batches *fakeBatchRepo, products *fakeProductRepo, inspections *fakeInspectionRepo) AnalysisService {
	return NewAnalysisService(analyzer, batches, products, inspections, zap.NewNop())
}

func TestAnalyze_ApprovedResult(t *testing.T) {
	analyzer := vision.NewMockAnalyzer()
	analyzer.AnalyzeGarmentFunc = func(ctx context.Context, imageDataURL string) (string, error) {
		return `{"status":"approved","summary":"Sin defectos","quality_score":95,"defects":[],"overall_recommendation":"APROBAR"}`, nil
	}
	batches := &fakeBatchRepo{}
	inspections := &fakeInspectionRepo{}
	svc := newTestService(analyzer, batches, &fakeProductRepo{}, inspections)

	resp, err := svc.Analyze(context.Background(), "data:image/jpeg;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeApproved, resp.Status)
	assert.Equal(t, 95, resp.QualityScore.Int())
	require.NotNil(t, resp.InspectionID)
	assert.Equal(t, int64(1), *resp.InspectionID)
	assert.Equal(t, 1, batches.approvedCalls)
	assert.Equal(t, 0, batches.rejectedCalls)
	require.Len(t, inspections.created, 1)
	assert.Equal(t, models.OutcomeApproved, inspections.created[0].Outcome)
}

func TestAnalyze_DefectsFoundCountsAsRejected(t *testing.T) {
	analyzer := vision.NewMockAnalyzer()
	analyzer.AnalyzeGarmentFunc = func(ctx context.Context, imageDataURL string) (string, error) {
		return `{"status":"defects_found","quality_score":40,"defects":[{"type":"mancha","severity":"major","confidence":90}]}`, nil
	}
	batches := &fakeBatchRepo{}
	inspections := &fakeInspectionRepo{}
	svc := newTestService(analyzer, batches, &fakeProductRepo{}, inspections)

	resp, err := svc.Analyze(context.Background(), "img")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDefectsFound, resp.Status)
	assert.Equal(t, 0, batches.approvedCalls)
	assert.Equal(t, 1, batches.rejectedCalls)
	require.Len(t, inspections.created, 1)
	require.Len(t, inspections.created[0].Defects, 1)
	assert.Equal(t, "mancha", inspections.created[0].Defects[0].Type)
	assert.Equal(t, 90, inspections.created[0].Defects[0].Confidence)
}

func TestAnalyze_UnparseableReplyCountsAsRejected(t *testing.T) {
	raw := "no puedo ayudar con eso"
	analyzer := vision.NewMockAnalyzer()
	analyzer.AnalyzeGarmentFunc = func(ctx context.Context, imageDataURL string) (string, error) {
		return raw, nil
	}
	batches := &fakeBatchRepo{}
	inspections := &fakeInspectionRepo{}
	svc := newTestService(analyzer, batches, &fakeProductRepo{}, inspections)

	resp, err := svc.Analyze(context.Background(), "img")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeError, resp.Status)
	assert.Equal(t, "No se pudo procesar la respuesta del modelo", resp.Summary)
	assert.Equal(t, raw, resp.RawResponse)
	assert.Equal(t, 0, batches.approvedCalls)
	assert.Equal(t, 1, batches.rejectedCalls)
	require.Len(t, inspections.created, 1)
	assert.Equal(t, raw, inspections.created[0].RawResponse)
}

func TestAnalyze_InvocationFailurePropagates(t *testing.T) {
	analyzer := vision.NewMockAnalyzer()
	analyzer.AnalyzeGarmentFunc = func(ctx context.Context, imageDataURL string) (string, error) {
		return "", errors.New("connection refused")
	}
	batches := &fakeBatchRepo{}
	inspections := &fakeInspectionRepo{}
	svc := newTestService(analyzer, batches, &fakeProductRepo{}, inspections)

	_, err := svc.Analyze(context.Background(), "img")
	require.Error(t, err)
	assert.Empty(t, inspections.created)
	assert.Equal(t, 0, batches.approvedCalls+batches.rejectedCalls)
}

func TestAnalyze_PersistenceFailureReturnsVerdictWithoutID(t *testing.T) {
	analyzer := vision.NewMockAnalyzer()
	analyzer.AnalyzeGarmentFunc = func(ctx context.Context, imageDataURL string) (string, error) {
		return `{"status":"approved","quality_score":90,"defects":[]}`, nil
	}
	inspections := &fakeInspectionRepo{createErr: errors.New("database down")}
	svc := newTestService(analyzer, &fakeBatchRepo{}, &fakeProductRepo{}, inspections)

	resp, err := svc.Analyze(context.Background(), "img")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeApproved, resp.Status)
	assert.Nil(t, resp.InspectionID)
}

func TestCreateInspection_PersistenceFailurePropagates(t *testing.T) {
	inspections := &fakeInspectionRepo{createErr: errors.New("database down")}
	svc := newTestService(vision.NewMockAnalyzer(), &fakeBatchRepo{}, &fakeProductRepo{}, inspections)

	_, err := svc.CreateInspection(context.Background(), &CreateInspectionRequest{
		Outcome: models.OutcomeApproved,
	})
	require.Error(t, err)
}

func TestCreateInspection_DualConventionDefects(t *testing.T) {
	confidence := 77
	batches := &fakeBatchRepo{}
	inspections := &fakeInspectionRepo{}
	svc := newTestService(vision.NewMockAnalyzer(), batches, &fakeProductRepo{}, inspections)

	insp, err := svc.CreateInspection(context.Background(), &CreateInspectionRequest{
		Outcome: models.OutcomeDefectsFound,
		Defects: []models.DefectPayload{
			{Tipo: "costura_defectuosa", Severidad: "critical", Confianza: &confidence},
		},
	})
	require.NoError(t, err)
	require.Len(t, insp.Defects, 1)
	assert.Equal(t, "costura_defectuosa", insp.Defects[0].Type)
	assert.Equal(t, models.SeverityCritical, insp.Defects[0].Severity)
	assert.Equal(t, 77, insp.Defects[0].Confidence)
	assert.Equal(t, 1, batches.rejectedCalls)
	require.NotNil(t, insp.Batch)
	assert.Equal(t, insp.Batch.ID, insp.BatchID)
	require.NotNil(t, insp.Product)
	assert.Equal(t, models.DefaultProductName, insp.Product.Name)
}

func TestRejectedOutcome(t *testing.T) {
	assert.False(t, rejectedOutcome(models.OutcomeApproved))
	assert.True(t, rejectedOutcome(models.OutcomeDefectsFound))
	assert.True(t, rejectedOutcome(models.OutcomeError))
	assert.True(t, rejectedOutcome("anything_else"))
}
