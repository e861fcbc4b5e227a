package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{4, 1, 3, 2, 5})

	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3.0, s.Mean, 1e-9)
	assert.InDelta(t, 1.0, s.Min, 1e-9)
	assert.InDelta(t, 5.0, s.Max, 1e-9)
	assert.InDelta(t, 3.0, s.Median, 1e-9)
	assert.InDelta(t, 2.0, s.Q1, 1e-9)
	assert.InDelta(t, 4.0, s.Q3, 1e-9)
	assert.InDelta(t, math.Sqrt(2), s.StdDev, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Count)
	assert.True(t, math.IsNaN(s.Mean))
	assert.True(t, math.IsNaN(s.Median))
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.0, Quantile(sorted, 0), 1e-9)
	assert.InDelta(t, 4.0, Quantile(sorted, 1), 1e-9)
	assert.InDelta(t, 2.5, Quantile(sorted, 0.5), 1e-9)
	assert.InDelta(t, 1.75, Quantile(sorted, 0.25), 1e-9)
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestClipZScore(t *testing.T) {
	// One extreme outlier among many tight values. The sample must be
	// large enough for the outlier's z-score to clear 3 despite its own
	// pull on the standard deviation.
	values := make([]float64, 0, 31)
	for i := 0; i < 30; i++ {
		values = append(values, 10+float64(i%3))
	}
	values = append(values, 10000)

	clipped := ClipZScore(values, 3)

	require.NotContains(t, clipped, 10000.0)
	assert.Len(t, clipped, 30)
	// Survivor order is preserved
	assert.Equal(t, values[:30], clipped)
}

func TestClipZScore_ConstantValues(t *testing.T) {
	values := []float64{5, 5, 5}
	assert.Equal(t, values, ClipZScore(values, 3))
}

func TestClipQuantile(t *testing.T) {
	values := make([]float64, 0, 100)
	for i := 1; i <= 100; i++ {
		values = append(values, float64(i))
	}

	clipped := ClipQuantile(values, 0.01, 0.99)

	assert.NotContains(t, clipped, 1.0)
	assert.NotContains(t, clipped, 100.0)
	assert.Contains(t, clipped, 50.0)
}

func TestClipUpperQuantile(t *testing.T) {
	values := make([]float64, 0, 100)
	for i := 1; i <= 100; i++ {
		values = append(values, float64(i))
	}

	clipped := ClipUpperQuantile(values, 0.99)

	assert.NotContains(t, clipped, 100.0)
	assert.Contains(t, clipped, 1.0)
}

func TestMeanOf_Empty(t *testing.T) {
	assert.True(t, math.IsNaN(MeanOf(nil)))
}
