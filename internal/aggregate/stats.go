package aggregate

import (
	"math"
	"sort"
)

// Summary is a five-number distribution summary plus mean and spread
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Summarize computes a distribution summary. An empty input yields a
// zero-count summary with NaN statistics.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, StdDev: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean := MeanOf(sorted)
	return Summary{
		Count:  len(sorted),
		Mean:   mean,
		StdDev: stdDev(sorted, mean),
		Min:    sorted[0],
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// MeanOf computes the arithmetic mean; NaN for empty input
func MeanOf(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev computes the population standard deviation
func stdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// Quantile computes the q-th quantile (0 <= q <= 1) of sorted values
// using linear interpolation between closest ranks
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ClipZScore removes values more than maxSigma standard deviations from
// the mean, matching the outlier policy of the source analyses. Input
// order is preserved for survivors.
func ClipZScore(values []float64, maxSigma float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	mean := MeanOf(values)
	sd := stdDev(values, mean)
	if sd == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	var out []float64
	for _, v := range values {
		if math.Abs((v-mean)/sd) < maxSigma {
			out = append(out, v)
		}
	}
	return out
}

// ClipQuantile keeps only values strictly inside the (lower, upper)
// quantile bounds, the winsorization-style trim used for heavy-tailed
// columns
func ClipQuantile(values []float64, lower, upper float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	lo := Quantile(sorted, lower)
	hi := Quantile(sorted, upper)

	var out []float64
	for _, v := range values {
		if v > lo && v < hi {
			out = append(out, v)
		}
	}
	return out
}

// ClipUpperQuantile keeps only values strictly below the upper quantile
func ClipUpperQuantile(values []float64, upper float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	hi := Quantile(sorted, upper)

	var out []float64
	for _, v := range values {
		if v < hi {
			out = append(out, v)
		}
	}
	return out
}
