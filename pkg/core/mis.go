package core

import "math"

// PowerHeuristic returns the two-strategy MIS weight for a sample drawn
// with density f, competing against a strategy with density g (exponent 2).
// Both densities are clamped to [Epsilon, +Inf]. An infinite f (a delta
// strategy) always wins, an infinite g always loses.
func PowerHeuristic(f, g float64) float64 {
	f = clampPdf(f)
	g = clampPdf(g)
	if math.IsInf(f, 1) {
		return 1
	}
	if math.IsInf(g, 1) {
		return 0
	}
	// Ratio form keeps f² + g² from overflowing for large densities
	if f >= g {
		r := g / f
		return 1 / (1 + r*r)
	}
	r := f / g
	return r * r / (1 + r*r)
}

func clampPdf(pdf float64) float64 {
	if math.IsNaN(pdf) || pdf < Epsilon {
		return Epsilon
	}
	return pdf
}
