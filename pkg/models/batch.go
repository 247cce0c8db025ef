// Package models contains domain types for qc-engine.
package models

import "time"

// Batch lifecycle states. The pipeline only ever writes BatchStateInProgress;
// closing a batch is a manual operation outside this service.
const BatchStateInProgress = "en_proceso"

// ProductionBatch aggregates all inspections performed on one calendar day.
// The batch number is derived from the date (LOTE-YYYYMMDD) and is unique,
// so at most one batch exists per day. Counters are maintained with
// in-database increments, never read-modify-write in application code.
type ProductionBatch struct {
	ID             int64     `json:"idLote"`
	BatchNumber    string    `json:"numeroLote"`
	CreatedAt      time.Time `json:"fechaCreacion"`
	TotalCount     int       `json:"cantidadTotal"`
	InspectedCount int       `json:"cantidadInspeccionada"`
	ApprovedCount  int       `json:"cantidadAprobada"`
	RejectedCount  int       `json:"cantidadRechazada"`
	State          string    `json:"estado"`
}

// BatchWithCount is a ProductionBatch plus its number of inspections,
// as returned by the batches listing endpoint.
type BatchWithCount struct {
	ProductionBatch
	InspectionCount int64 `json:"cantidadInspecciones"`
}
