package scoring

import (
	"github.com/google/uuid"
)

// Compute turns raw dimension scores, the assessment template, and an
// optional weighting scheme into the canonical scoring result.
//
// The function is pure: no I/O, no state, identical inputs produce
// deeply equal output. Category order follows the template, dimension
// order follows each category's dimension list. Degenerate inputs never
// raise: an empty score set yields CalcNoScores, a missing or empty
// scheme and a zero relevant weight mass both yield CalcRawAverage.
func Compute(template Template, scores []Score, scheme *Scheme) Result {
	answered := answeredLevels(scores)

	result := Result{
		OverallMaxPossibleScore: MaxLevel,
		Categories:              make([]CategoryResult, 0, len(template.Categories)),
	}

	for _, tc := range template.Categories {
		result.Categories = append(result.Categories, aggregateCategory(tc, answered, categoryWeightFor(scheme, tc.CategoryID)))
	}

	if len(answered) == 0 {
		result.CalculationUsed = CalcNoScores
		return result
	}

	if scheme == nil || len(scheme.CategoryWeights) == 0 {
		return rawAverageResult(result, answered)
	}

	// Weighted path: effective category weight is the configured weight
	// when present, else the even-weight default over data-bearing
	// categories. Categories without data are excluded before
	// normalization, never counted as zero-scoring.
	withData := 0
	for _, cr := range result.Categories {
		if cr.HasData {
			withData++
		}
	}
	if withData == 0 {
		return rawAverageResult(result, answered)
	}

	evenWeight := 1.0 / float64(withData)
	effective := make([]float64, len(result.Categories))
	var totalWeight float64
	for i, cr := range result.Categories {
		if !cr.HasData {
			continue
		}
		w := evenWeight
		if cw := categoryWeightFor(scheme, cr.CategoryID); cw != nil {
			w = cw.Weight
			if w < 0 {
				w = 0
			}
		}
		effective[i] = w
		totalWeight += w
	}
	if totalWeight <= 0 {
		return rawAverageResult(result, answered)
	}

	// Normalize so category weights sum to exactly 1, making the
	// weighted maximum exactly MaxLevel.
	var overall float64
	for i := range result.Categories {
		if !result.Categories[i].HasData {
			continue
		}
		w := effective[i] / totalWeight
		result.Categories[i].CategoryWeight = &w
		overall += result.Categories[i].NormalizedScore * w
	}

	result.OverallScore = &overall
	result.CalculationUsed = CalcWeighted
	return result
}

// RawAverage is the unweighted arithmetic mean of all answered levels,
// ignoring category structure. List and summary views display this
// directly; it is the same quantity the raw_average policy reports.
// Returns nil when nothing is answered.
func RawAverage(scores []Score) *float64 {
	return meanLevel(answeredLevels(scores))
}

// answeredLevels reduces the score slice to the raw score set: one level
// per dimension. Levels outside [1, MaxLevel] are treated as unanswered
// rather than corrupting the aggregates; range enforcement proper is the
// caller's validation concern. Duplicates resolve last-write-wins,
// matching whole-set score replacement semantics.
func answeredLevels(scores []Score) map[uuid.UUID]int {
	answered := make(map[uuid.UUID]int, len(scores))
	for _, s := range scores {
		if s.Level < 1 || s.Level > MaxLevel {
			continue
		}
		answered[s.DimensionID] = s.Level
	}
	return answered
}

func meanLevel(answered map[uuid.UUID]int) *float64 {
	if len(answered) == 0 {
		return nil
	}
	var sum int
	for _, lvl := range answered {
		sum += lvl
	}
	mean := float64(sum) / float64(len(answered))
	return &mean
}

func rawAverageResult(result Result, answered map[uuid.UUID]int) Result {
	result.OverallScore = meanLevel(answered)
	result.CalculationUsed = CalcRawAverage
	return result
}

func categoryWeightFor(scheme *Scheme, categoryID uuid.UUID) *CategoryWeight {
	if scheme == nil {
		return nil
	}
	for i := range scheme.CategoryWeights {
		if scheme.CategoryWeights[i].CategoryID == categoryID {
			return &scheme.CategoryWeights[i]
		}
	}
	return nil
}

// aggregateCategory combines one category's answered dimensions into a
// 0-MaxLevel normalized score.
//
// With at least one configured dimension weight, only answered
// dimensions carrying a matching weight contribute; answered dimensions
// without one are reported with a nil weight and zero contribution.
// With no configured dimension weights, every answered dimension gets
// the even weight 1/|answered|. Unanswered dimensions appear nowhere:
// they are excluded before normalization, not treated as zeros.
func aggregateCategory(tc TemplateCategory, answered map[uuid.UUID]int, cw *CategoryWeight) CategoryResult {
	cr := CategoryResult{
		CategoryID: tc.CategoryID,
		Name:       tc.Name,
		Dimensions: []DimensionResult{},
	}

	answeredCount := 0
	for _, id := range tc.DimensionIDs {
		if _, ok := answered[id]; ok {
			answeredCount++
		}
	}
	if answeredCount == 0 {
		return cr
	}
	cr.HasData = true

	explicit := cw != nil && len(cw.DimensionWeights) > 0
	var configured map[uuid.UUID]float64
	if explicit {
		configured = make(map[uuid.UUID]float64, len(cw.DimensionWeights))
		for _, dw := range cw.DimensionWeights {
			w := dw.Weight
			if w < 0 {
				w = 0
			}
			configured[dw.DimensionID] = w
		}
	}
	evenWeight := 1.0 / float64(answeredCount)

	var weightedSum, weightedMax float64
	for _, id := range tc.DimensionIDs {
		level, ok := answered[id]
		if !ok {
			continue
		}
		dr := DimensionResult{DimensionID: id, Level: level}
		if explicit {
			if w, ok := configured[id]; ok {
				dr.Weight = &w
				dr.WeightedScore = float64(level) * w
				dr.MaxPossibleWeightedScore = MaxLevel * w
			}
		} else {
			w := evenWeight
			dr.Weight = &w
			dr.WeightedScore = float64(level) * w
			dr.MaxPossibleWeightedScore = MaxLevel * w
		}
		if dr.Weight != nil {
			weightedSum += dr.WeightedScore
			weightedMax += dr.MaxPossibleWeightedScore
			cr.RawAchieved += level
			cr.RawMax += MaxLevel
		}
		cr.Dimensions = append(cr.Dimensions, dr)
	}

	if weightedMax > 0 {
		cr.NormalizedScore = weightedSum / weightedMax * MaxLevel
	}
	return cr
}
