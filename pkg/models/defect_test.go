package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefectPayload_Canonical_AINaming(t *testing.T) {
	var p DefectPayload
	require.NoError(t, json.Unmarshal([]byte(
		`{"type":"mancha","severity":"major","location":"pierna izquierda","confidence":85,"description":"Mancha de aceite","recommendation":"Lavar"}`,
	), &p))

	d := p.Canonical()
	assert.Equal(t, "mancha", d.Type)
	assert.Equal(t, SeverityMajor, d.Severity)
	assert.Equal(t, "pierna izquierda", d.Location)
	assert.Equal(t, 85, d.Confidence)
	assert.Equal(t, "Mancha de aceite", d.Description)
	assert.Equal(t, "Lavar", d.Recommendation)
}

func TestDefectPayload_Canonical_SpanishNaming(t *testing.T) {
	var p DefectPayload
	require.NoError(t, json.Unmarshal([]byte(
		`{"tipo":"costura_defectuosa","severidad":"critical","ubicacion":"bolsillo","confianza":92,"descripcion":"Costura abierta","recomendacion":"Reparar"}`,
	), &p))

	d := p.Canonical()
	assert.Equal(t, "costura_defectuosa", d.Type)
	assert.Equal(t, SeverityCritical, d.Severity)
	assert.Equal(t, "bolsillo", d.Location)
	assert.Equal(t, 92, d.Confidence)
}

func TestDefectPayload_Canonical_AINamingWins(t *testing.T) {
	ai := 70
	es := 30
	p := DefectPayload{
		Type:       "mancha",
		Tipo:       "otro",
		Confidence: &ai,
		Confianza:  &es,
	}

	d := p.Canonical()
	assert.Equal(t, "mancha", d.Type)
	assert.Equal(t, 70, d.Confidence)
}

func TestDefectPayload_Canonical_MissingConfidence(t *testing.T) {
	d := DefectPayload{Tipo: "hilo_suelto", Severidad: "minor"}.Canonical()
	assert.Equal(t, 0, d.Confidence)
}

func TestKnownSeverity(t *testing.T) {
	assert.True(t, KnownSeverity(SeverityCritical))
	assert.True(t, KnownSeverity(SeverityMajor))
	assert.True(t, KnownSeverity(SeverityMinor))
	assert.False(t, KnownSeverity("catastrophic"))
	assert.False(t, KnownSeverity(""))
}
