package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantilesLinearInterpolation(t *testing.T) {
	q := Quantiles([]float64{4, 1, 3, 2}, 0.25, 0.5, 0.75)
	require.Len(t, q, 3)
	assert.InDelta(t, 1.75, q[0], 1e-12)
	assert.InDelta(t, 2.5, q[1], 1e-12)
	assert.InDelta(t, 3.25, q[2], 1e-12)
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestMedianDoesNotMutate(t *testing.T) {
	x := []float64{3, 1, 2}
	assert.Equal(t, 2.0, Median(x))
	assert.Equal(t, []float64{3, 1, 2}, x)
}

func TestSkewness(t *testing.T) {
	// g1 = 1.5 for this sample; the small-sample adjustment gives sqrt(5).
	assert.InDelta(t, math.Sqrt(5), Skewness([]float64{1, 1, 1, 1, 10}), 1e-9)
	assert.InDelta(t, 0, Skewness([]float64{1, 2, 3}), 1e-12)
	assert.Equal(t, 0.0, Skewness([]float64{7, 7, 7, 7}))
	assert.True(t, math.IsNaN(Skewness([]float64{10, 1e6})))
}

func TestStdAndVariance(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 4.0, PopVariance(x), 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), Std(x), 1e-12)
	assert.True(t, math.IsNaN(Std([]float64{1})))
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.0, Pearson(x, []float64{2, 4, 6, 8}), 1e-12)
	assert.InDelta(t, -1.0, Pearson(x, []float64{8, 6, 4, 2}), 1e-12)
	assert.True(t, math.IsNaN(Pearson(x, []float64{5, 5, 5, 5})))
	assert.True(t, math.IsNaN(Pearson([]float64{1}, []float64{1})))
}

func TestModeFirstSeenWinsTies(t *testing.T) {
	m, n, ok := Mode([]string{"Chrome", "Safari", "Safari", "Chrome", "Edge"})
	require.True(t, ok)
	assert.Equal(t, "Chrome", m)
	assert.Equal(t, 2, n)

	_, _, ok = Mode(nil)
	assert.False(t, ok)
}

func TestMinMax(t *testing.T) {
	lo, hi := MinMax([]float64{3, -1, 8, 2})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 8.0, hi)
}
