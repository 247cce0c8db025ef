package models

// StatsSummary holds the aggregate inspection counts for a period.
type StatsSummary struct {
	Total      int64
	Approved   int64
	Rejected   int64
	AvgQuality int
}

// SeverityCounts groups defect counts by severity level.
type SeverityCounts struct {
	Critical int64 `json:"critical"`
	Major    int64 `json:"major"`
	Minor    int64 `json:"minor"`
}

// DefectTypeCount is one row of the defects-by-type ranking.
type DefectTypeCount struct {
	Type  string `json:"tipo"`
	Count int64  `json:"cantidad"`
}
