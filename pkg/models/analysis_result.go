package models

import "github.com/denimworks/qc-engine/pkg/jsonutil"

// Overall recommendation labels the model is instructed to choose from.
const (
	RecommendationApprove = "APROBAR"
	RecommendationReject  = "RECHAZAR"
	RecommendationRepair  = "REPARAR"
)

// AnalysisResult is the normalized shape of the vision model's verdict.
// Status reuses the Outcome* constants. RawResponse is only populated when
// the model reply could not be parsed, so the operator can inspect it.
type AnalysisResult struct {
	Status                string               `json:"status"`
	Summary               string               `json:"summary"`
	TotalDefects          jsonutil.FlexibleInt `json:"total_defects"`
	QualityScore          jsonutil.FlexibleInt `json:"quality_score"`
	Defects               []AnalysisDefect     `json:"defects"`
	OverallRecommendation string               `json:"overall_recommendation"`
	Notes                 string               `json:"notes"`
	RawResponse           string               `json:"raw_response,omitempty"`
}

// AnalysisDefect is one defect as reported by the model.
type AnalysisDefect struct {
	ID             string               `json:"id"`
	Type           string               `json:"type"`
	Severity       string               `json:"severity"`
	Location       string               `json:"location"`
	Confidence     jsonutil.FlexibleInt `json:"confidence"`
	Description    string               `json:"description"`
	Recommendation string               `json:"recommendation"`
}
