package plot

import (
	"math"
	"strconv"
)

// NumericTicks generates up to n tick positions spanning [min,max] using a
// 1, 2, 2.5, 5 x 10^k step. Positions outside [min,max] are dropped so the
// ticks never widen an explicit axis range.
func NumericTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Floor(span/step) + 1
		diff := math.Abs(count - float64(n))
		if diff < bestScore {
			bestScore = diff
			bestStep = step
		}
	}
	start := math.Ceil(min/bestStep) * bestStep
	var out []float64
	for v := start; v <= max+bestStep*1e-9; v += bestStep {
		out = append(out, round6(v))
	}
	if len(out) < 2 {
		out = []float64{min, max}
	}
	return out
}

// FormatTick provides a compact label for a tick value.
func FormatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case v == 0:
		return "0"
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'g', 3, 64)
	}
}

// round6 rounds to 6 decimal places to stabilize labels and comparisons.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
