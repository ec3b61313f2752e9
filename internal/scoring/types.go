package scoring

import (
	"github.com/google/uuid"
)

// MaxLevel is the top of the maturity rating scale. Levels are integers
// in [1, MaxLevel]; all normalized scores are reported on the same scale.
const MaxLevel = 5

// Calculation identifies which policy produced an overall score.
type Calculation string

const (
	CalcWeighted   Calculation = "weighted"
	CalcRawAverage Calculation = "raw_average"
	CalcNoScores   Calculation = "no_scores"
)

// TemplateCategory is one category of the assessment template with the
// dimensions that belong to it.
type TemplateCategory struct {
	CategoryID   uuid.UUID   `json:"category_id"`
	Name         string      `json:"name,omitempty"`
	DimensionIDs []uuid.UUID `json:"dimension_ids"`
}

// Template is the set of categories and dimensions that apply to one
// assessment. Which template applies to a company is decided upstream;
// the engine takes it as given.
type Template struct {
	Categories []TemplateCategory `json:"categories"`
}

// Score is one answered dimension. Dimensions without a Score are
// unanswered, which is distinct from a zero score.
type Score struct {
	DimensionID uuid.UUID `json:"dimension_id"`
	Level       int       `json:"level"`
}

// DimensionWeight is a configured weight for one dimension within its
// category's weighted computation.
type DimensionWeight struct {
	DimensionID uuid.UUID `json:"dimension_id"`
	Weight      float64   `json:"weight"`
}

// CategoryWeight is a configured weight for one category, optionally
// carrying per-dimension weights scoped to that category.
type CategoryWeight struct {
	CategoryID       uuid.UUID         `json:"category_id"`
	Weight           float64           `json:"weight"`
	DimensionWeights []DimensionWeight `json:"dimension_weights,omitempty"`
}

// Scheme is an immutable weighting configuration loaded once per
// computation. A nil *Scheme means no scheme is assigned, which is a
// normal state, not an error.
type Scheme struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name,omitempty"`
	CategoryWeights []CategoryWeight `json:"category_weights"`
}

// DimensionResult is one answered dimension's contribution. Weight is nil
// when the dimension was excluded from the weighted computation (explicit
// weights configured for the category, none matching this dimension); it
// is still reported informationally with zero contribution.
type DimensionResult struct {
	DimensionID              uuid.UUID `json:"dimension_id"`
	Level                    int       `json:"level"`
	Weight                   *float64  `json:"weight,omitempty"`
	WeightedScore            float64   `json:"weighted_score"`
	MaxPossibleWeightedScore float64   `json:"max_possible_weighted_score"`
}

// CategoryResult is one category's aggregate on the 0-MaxLevel scale.
// RawAchieved/RawMax are informational sums of raw levels over the
// contributing dimensions.
type CategoryResult struct {
	CategoryID      uuid.UUID         `json:"category_id"`
	Name            string            `json:"name,omitempty"`
	NormalizedScore float64           `json:"normalized_score"`
	HasData         bool              `json:"has_data"`
	CategoryWeight  *float64          `json:"category_weight,omitempty"`
	RawAchieved     int               `json:"raw_achieved"`
	RawMax          int               `json:"raw_max"`
	Dimensions      []DimensionResult `json:"dimensions"`
}

// Result is the single canonical scoring output every consumer uses.
// OverallScore is nil only when CalculationUsed is CalcNoScores.
type Result struct {
	OverallScore            *float64         `json:"overall_score"`
	OverallMaxPossibleScore float64          `json:"overall_max_possible_score"`
	CalculationUsed         Calculation      `json:"calculation_used"`
	Categories              []CategoryResult `json:"categories"`
}
