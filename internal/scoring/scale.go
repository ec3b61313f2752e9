package scoring

// PercentScale re-expresses a canonical 0-MaxLevel value on the 0-100
// display scale. Presentation scaling is applied after Compute, never
// inside it; the canonical result always stays on the 0-MaxLevel scale.
func PercentScale(v float64) float64 {
	return v * (100.0 / MaxLevel)
}

// PercentView returns a copy of the result with the overall and
// per-category scores on the 0-100 scale. Dimension-level contributions
// are left on the canonical scale; they are weighted quantities, not
// display scores.
func PercentView(r Result) Result {
	out := r
	if r.OverallScore != nil {
		v := PercentScale(*r.OverallScore)
		out.OverallScore = &v
	}
	out.OverallMaxPossibleScore = PercentScale(r.OverallMaxPossibleScore)
	out.Categories = make([]CategoryResult, len(r.Categories))
	for i, cr := range r.Categories {
		cr.NormalizedScore = PercentScale(cr.NormalizedScore)
		out.Categories[i] = cr
	}
	return out
}
