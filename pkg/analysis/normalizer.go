// Package analysis converts free-text vision model replies into structured
// inspection results.
package analysis

import (
	"encoding/json"
	"strings"

	"github.com/denimworks/qc-engine/pkg/jsonutil"
	"github.com/denimworks/qc-engine/pkg/models"
)

// fallbackSummary is shown to the operator when the model reply could not
// be parsed. Matches the deployment's operating language.
const fallbackSummary = "No se pudo procesar la respuesta del modelo"

// ExtractResult locates the JSON object embedded in a model reply and parses
// it into an AnalysisResult. The scan is greedy: from the first '{' to the
// last '}' in the text, which tolerates conversational wrappers before and
// after the object. Returns (nil, false) when no such region exists or the
// region is not valid JSON.
func ExtractResult(raw string) (*models.AnalysisResult, bool) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return nil, false
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
		return nil, false
	}

	clampResult(&result)
	return &result, true
}

// Normalize parses a model reply, falling back to a synthetic error result
// when extraction fails. The raw text is preserved on the fallback so the
// operator can inspect what the model actually said. Parsing the same text
// twice yields identical output.
func Normalize(raw string) *models.AnalysisResult {
	if result, ok := ExtractResult(raw); ok {
		return result
	}

	return &models.AnalysisResult{
		Status:      models.OutcomeError,
		Summary:     fallbackSummary,
		Defects:     []models.AnalysisDefect{},
		RawResponse: raw,
	}
}

// clampResult bounds numeric fields to their documented ranges and maps
// unknown severities to minor. Brace-matched but sloppy model output passes
// through persistence without tripping column constraints.
func clampResult(r *models.AnalysisResult) {
	r.QualityScore = clampScore(r.QualityScore)
	if r.TotalDefects < 0 {
		r.TotalDefects = 0
	}
	if r.Defects == nil {
		r.Defects = []models.AnalysisDefect{}
	}
	for i := range r.Defects {
		r.Defects[i].Confidence = clampScore(r.Defects[i].Confidence)
		if !models.KnownSeverity(r.Defects[i].Severity) {
			r.Defects[i].Severity = models.SeverityMinor
		}
	}
}

func clampScore(n jsonutil.FlexibleInt) jsonutil.FlexibleInt {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
