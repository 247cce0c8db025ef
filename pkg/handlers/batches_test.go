package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/denimworks/qc-engine/pkg/models"
)

func TestBatchHandler_List(t *testing.T) {
	repo := &fakeBatchRepo{
		batches: []models.BatchWithCount{
			{
				ProductionBatch: models.ProductionBatch{
					ID:            1,
					BatchNumber:   "LOTE-20260828",
					ApprovedCount: 5,
					RejectedCount: 2,
					State:         models.BatchStateInProgress,
				},
				InspectionCount: 7,
			},
		},
	}
	handler := NewBatchHandler(repo, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/lotes", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var batches []models.BatchWithCount
	if err := json.NewDecoder(rec.Body).Decode(&batches); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	if batches[0].BatchNumber != "LOTE-20260828" {
		t.Errorf("unexpected batch number: %s", batches[0].BatchNumber)
	}
	if batches[0].InspectionCount != 7 {
		t.Errorf("expected cantidadInspecciones 7, got %d", batches[0].InspectionCount)
	}
}

func TestBatchHandler_List_Error(t *testing.T) {
	handler := NewBatchHandler(&fakeBatchRepo{listErr: errors.New("boom")}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/lotes", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
}
