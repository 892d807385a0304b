package scoring

import "math"

const (
	normalizeCenterFrom = 40.0
	normalizeScaleFrom  = 25.0
	normalizeCenterTo   = 50.0
	normalizeScaleTo    = 15.0
)

// Normalize sums the point fields into a base score, applies the affine
// transform centered at (mean=40, stddev=25) -> (center=50, scale=15),
// and clamps to [0, 100], rounded to two decimal places.
func Normalize(p PointFields) (baseScore int, blinkScore float64) {
	baseScore = p.Sum()
	raw := normalizeCenterTo + normalizeScaleTo*(float64(baseScore)-normalizeCenterFrom)/normalizeScaleFrom
	clamped := math.Max(0, math.Min(100, raw))
	return baseScore, roundTo2(clamped)
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
