// ABOUTME: Pearson correlation and approximate two-tailed significance.
// ABOUTME: Screening-grade math: explicit zero-variance handling, clamped p-values, never NaN.
package stats

import "math"

// P-value clamp bounds. Degenerate 0/1 values are never returned.
const (
	MinPValue = 0.001
	MaxPValue = 0.999
)

// Pearson computes the Pearson correlation coefficient for two equal-length
// series. When either series has zero variance the coefficient is defined as
// 0 rather than NaN. The result is rounded to 3 decimals so recomputation on
// unchanged data produces identical values.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := 0; i < n; i++ {
		x, y := xs[i], ys[i]
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
		sumY2 += y * y
	}

	fn := float64(n)
	numerator := fn*sumXY - sumX*sumY
	denominator := math.Sqrt((fn*sumX2 - sumX*sumX) * (fn*sumY2 - sumY*sumY))
	if denominator == 0 {
		return 0
	}

	r := numerator / denominator
	// Floating point can push |r| a hair past 1 on exact linear data.
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}
	return Round(r, 3)
}

// ApproxPValue converts a coefficient and sample size into an approximate
// two-tailed p-value via the t-statistic t = r*sqrt((n-2)/(1-r^2)) and a
// standard-normal CDF instead of an exact Student-t distribution.
//
// This is deliberately a "worth showing the user" screening test, not a
// publication-grade one. The product's 0.3/0.05 strength and significance
// thresholds were tuned against this approximation; replacing it with an
// exact test requires retuning both. Rounded to 5 decimals for stability.
func ApproxPValue(r float64, n int) float64 {
	if n <= 2 {
		return MaxPValue
	}

	abs := math.Abs(r)
	if abs >= 1 {
		return MinPValue
	}

	t := abs * math.Sqrt(float64(n-2)/(1-abs*abs))
	p := 2 * (1 - NormalCDF(t))
	return Round(clamp(p, MinPValue, MaxPValue), 5)
}

// NormalCDF is the standard normal cumulative distribution function,
// computed from the error function.
func NormalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
