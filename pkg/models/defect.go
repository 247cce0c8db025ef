package models

// Defect severity levels. Closed enumeration; anything else coming back from
// the model is normalized to SeverityMinor before persistence.
const (
	SeverityCritical = "critical"
	SeverityMajor    = "major"
	SeverityMinor    = "minor"
)

// KnownSeverity reports whether s is one of the three severity levels.
func KnownSeverity(s string) bool {
	return s == SeverityCritical || s == SeverityMajor || s == SeverityMinor
}

// Defect is one specific flaw identified within an inspection. Defects are
// created atomically with their inspection and removed only by cascade.
type Defect struct {
	ID             int64  `json:"idDefecto"`
	InspectionID   int64  `json:"idInspeccion"`
	Type           string `json:"tipo"`
	Severity       string `json:"severidad"`
	Location       string `json:"ubicacion"`
	Confidence     int    `json:"confianza"`
	Description    string `json:"descripcion"`
	Recommendation string `json:"recomendacion"`
}

// DefectPayload is the dual-convention defect shape accepted by the
// inspection creation endpoint. Clients may send either the AI result field
// names (type, severity, ...) or the persisted record field names (tipo,
// severidad, ...); when both are present the AI naming wins.
type DefectPayload struct {
	Type           string `json:"type"`
	Tipo           string `json:"tipo"`
	Severity       string `json:"severity"`
	Severidad      string `json:"severidad"`
	Location       string `json:"location"`
	Ubicacion      string `json:"ubicacion"`
	Confidence     *int   `json:"confidence"`
	Confianza      *int   `json:"confianza"`
	Description    string `json:"description"`
	Descripcion    string `json:"descripcion"`
	Recommendation string `json:"recommendation"`
	Recomendacion  string `json:"recomendacion"`
}

// Canonical maps a dual-convention payload onto the canonical Defect record.
// This is the single adapter between external defect shapes and persistence;
// nothing downstream branches on field presence.
func (p DefectPayload) Canonical() Defect {
	d := Defect{
		Type:           coalesce(p.Type, p.Tipo),
		Severity:       coalesce(p.Severity, p.Severidad),
		Location:       coalesce(p.Location, p.Ubicacion),
		Description:    coalesce(p.Description, p.Descripcion),
		Recommendation: coalesce(p.Recommendation, p.Recomendacion),
	}
	switch {
	case p.Confidence != nil:
		d.Confidence = *p.Confidence
	case p.Confianza != nil:
		d.Confidence = *p.Confianza
	}
	return d
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
