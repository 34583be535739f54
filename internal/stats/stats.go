// Package stats provides the column statistics used by the cleaning stages:
// central tendency, quantiles, skewness, mode and Pearson correlation.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, or NaN for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// Std returns the sample standard deviation (n-1), or NaN when n < 2.
func Std(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.StdDev(x, nil)
}

// PopVariance returns the population variance (n).
func PopVariance(x []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return 0
	}
	return stat.Variance(x, nil) * (n - 1) / n
}

// Median returns the 50th percentile. x is not modified.
func Median(x []float64) float64 {
	return Quantiles(x, 0.5)[0]
}

// Quantiles returns the requested quantiles of x using linear interpolation
// between closest ranks. x is not modified.
func Quantiles(x []float64, qs ...float64) []float64 {
	cp := make([]float64, len(x))
	copy(cp, x)
	sort.Float64s(cp)
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = Quantile(cp, q)
	}
	return out
}

// Quantile reads quantile q from an already sorted slice.
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
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Skewness returns the adjusted Fisher-Pearson sample skewness. It is NaN for
// fewer than three values and 0 for constant data.
func Skewness(x []float64) float64 {
	if len(x) < 3 {
		return math.NaN()
	}
	_, std := stat.MeanStdDev(x, nil)
	if std == 0 {
		return 0
	}
	return stat.Skew(x, nil)
}

// MinMax returns the smallest and largest values.
func MinMax(x []float64) (lo, hi float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	lo, hi = x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Pearson returns the correlation coefficient of x and y. It is NaN when
// either side has zero variance or fewer than two pairs exist.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return clampUnit(stat.Correlation(x, y, nil))
}

func clampUnit(r float64) float64 {
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}

// Mode returns the most frequent value; ties go to the value seen first.
// ok is false for an empty slice.
func Mode(values []string) (mode string, count int, ok bool) {
	counts := make(map[string]int, len(values))
	order := make([]string, 0)
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	for _, v := range order {
		if counts[v] > count {
			mode, count, ok = v, counts[v], true
		}
	}
	return mode, count, ok
}
