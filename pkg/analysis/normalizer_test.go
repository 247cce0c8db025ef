package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denimworks/qc-engine/pkg/models"
)

func TestExtractResult_EmbeddedObject(t *testing.T) {
	raw := "Claro, aquí está el análisis solicitado:\n" +
		`{"status":"approved","summary":"Sin defectos visibles","total_defects":0,"quality_score":97,"defects":[],"overall_recommendation":"APROBAR","notes":""}` +
		"\nEspero que sea útil."

	result, ok := ExtractResult(raw)
	require.True(t, ok)
	assert.Equal(t, models.OutcomeApproved, result.Status)
	assert.Equal(t, "Sin defectos visibles", result.Summary)
	assert.Equal(t, 97, result.QualityScore.Int())
	assert.Equal(t, models.RecommendationApprove, result.OverallRecommendation)
	assert.Empty(t, result.Defects)
	assert.Empty(t, result.RawResponse)
}

func TestExtractResult_NoObject(t *testing.T) {
	result, ok := ExtractResult("Lo siento, no puedo analizar esta imagen.")
	assert.False(t, ok)
	assert.Nil(t, result)
}

func TestExtractResult_InvalidJSON(t *testing.T) {
	_, ok := ExtractResult("reply {status: approved} end")
	assert.False(t, ok)
}

func TestExtractResult_MarkdownFence(t *testing.T) {
	raw := "```json\n{\"status\":\"defects_found\",\"quality_score\":60,\"defects\":[{\"type\":\"costura_defectuosa\",\"severity\":\"major\",\"confidence\":88}]}\n```"

	result, ok := ExtractResult(raw)
	require.True(t, ok)
	assert.Equal(t, models.OutcomeDefectsFound, result.Status)
	require.Len(t, result.Defects, 1)
	assert.Equal(t, "costura_defectuosa", result.Defects[0].Type)
	assert.Equal(t, 88, result.Defects[0].Confidence.Int())
}

func TestExtractResult_ClampsScores(t *testing.T) {
	raw := `{"status":"defects_found","quality_score":140,"total_defects":-2,` +
		`"defects":[{"type":"mancha","severity":"catastrophic","confidence":-10}]}`

	result, ok := ExtractResult(raw)
	require.True(t, ok)
	assert.Equal(t, 100, result.QualityScore.Int())
	assert.Equal(t, 0, result.TotalDefects.Int())
	require.Len(t, result.Defects, 1)
	assert.Equal(t, models.SeverityMinor, result.Defects[0].Severity)
	assert.Equal(t, 0, result.Defects[0].Confidence.Int())
}

func TestExtractResult_FlexibleNumericShapes(t *testing.T) {
	raw := `{"status":"approved","quality_score":"95.5","defects":[{"type":"hilo_suelto","severity":"minor","confidence":72.8}]}`

	result, ok := ExtractResult(raw)
	require.True(t, ok)
	assert.Equal(t, 95, result.QualityScore.Int())
	assert.Equal(t, 72, result.Defects[0].Confidence.Int())
}

func TestNormalize_FallbackPreservesRaw(t *testing.T) {
	raw := "El modelo no respondió en el formato esperado"

	result := Normalize(raw)
	assert.Equal(t, models.OutcomeError, result.Status)
	assert.Equal(t, "No se pudo procesar la respuesta del modelo", result.Summary)
	assert.Equal(t, raw, result.RawResponse)
	assert.NotNil(t, result.Defects)
	assert.Empty(t, result.Defects)
}

func TestNormalize_SuccessHasNoRawResponse(t *testing.T) {
	result := Normalize(`{"status":"approved","quality_score":90}`)
	assert.Equal(t, models.OutcomeApproved, result.Status)
	assert.Empty(t, result.RawResponse)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		`texto {"status":"approved","quality_score":88,"defects":[]} texto`,
		"sin json",
		"",
	}
	for _, raw := range inputs {
		first := Normalize(raw)
		second := Normalize(raw)
		assert.Equal(t, first, second)
	}
}

func TestNormalize_NilDefectsBecomesEmpty(t *testing.T) {
	result := Normalize(`{"status":"approved","quality_score":90}`)
	assert.NotNil(t, result.Defects)
	assert.Empty(t, result.Defects)
}
