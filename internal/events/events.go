package events

import "time"

type AssessmentCreatedEvent struct {
	AssessmentID string `json:"assessment_id"`
	Company      string `json:"company"`
	Sector       string `json:"sector"`
}

// AssessmentScoredEvent carries the denormalized snapshot written with
// the score set; consumers wanting the full breakdown read the results
// endpoint.
type AssessmentScoredEvent struct {
	AssessmentID    string   `json:"assessment_id"`
	OverallScore    *float64 `json:"overall_score"`
	CalculationUsed string   `json:"calculation_used"`
	ScoreCount      int      `json:"score_count"`
}

type SchemeChangedEvent struct {
	AssessmentID    string   `json:"assessment_id"`
	SchemeID        string   `json:"scheme_id,omitempty"`
	OverallScore    *float64 `json:"overall_score"`
	CalculationUsed string   `json:"calculation_used"`
}

type SchemeEvent struct {
	SchemeID  string `json:"scheme_id"`
	Name      string `json:"name,omitempty"`
	IsDefault bool   `json:"is_default,omitempty"`
}

type StatsEvent struct {
	Total           int       `json:"total"`
	WithScores      int       `json:"with_scores"`
	Weighted        int       `json:"weighted"`
	RawAverage      int       `json:"raw_average"`
	AvgOverallScore float64   `json:"avg_overall_score"`
	Timestamp       time.Time `json:"timestamp"`
}
