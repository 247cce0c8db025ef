package models

import "time"

// Inspection outcome classifications. These mirror the status values the
// vision model is instructed to emit, plus OutcomeError for replies that
// could not be parsed.
const (
	OutcomeApproved     = "approved"
	OutcomeDefectsFound = "defects_found"
	OutcomeError        = "error"
)

// Inspection is one completed analysis of a single garment image.
// It is owned by its batch and product, owns its defects, and is immutable
// after creation except for deletion (which cascades to the defects).
type Inspection struct {
	ID             int64     `json:"idInspeccion"`
	BatchID        int64     `json:"idLote"`
	ProductID      int64     `json:"idProducto"`
	OperatorID     *int64    `json:"idUsuario"`
	ImageBase64    string    `json:"imagenBase64"`
	Outcome        string    `json:"resultado"`
	Recommendation string    `json:"recomendacion"`
	QualityScore   int       `json:"puntuacionCalidad"`
	Summary        string    `json:"resumenAnalisis"`
	Notes          string    `json:"notasIA"`
	RawResponse    string    `json:"respuestaCompletaIA"`
	AnalysisMs     int64     `json:"tiempoAnalisisMs"`
	InspectedAt    time.Time `json:"fechaInspeccion"`

	Defects  []Defect         `json:"defectos"`
	Batch    *ProductionBatch `json:"lote,omitempty"`
	Product  *Product         `json:"producto,omitempty"`
	Operator *Operator        `json:"usuario,omitempty"`
}

// Operator identifies the factory operator who submitted an inspection.
// User management is out of scope; this is a lookup-only reference.
type Operator struct {
	ID       int64  `json:"idUsuario"`
	Username string `json:"nombreUsuario"`
}
