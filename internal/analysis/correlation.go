package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/sessionlens-cli/internal/stats"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// Correlation computes pairwise Pearson correlations over the numeric and
// boolean columns of t (booleans as 0/1). The diagonal is 1; pairs with zero
// variance are NaN. Missing cells are excluded pairwise.
func Correlation(t *table.Table) *CorrMatrix {
	var cols []*table.Column
	for _, c := range t.Columns() {
		if c.Kind == table.Numeric || c.Kind == table.Boolean {
			cols = append(cols, c)
		}
	}
	m := &CorrMatrix{Columns: make([]string, len(cols)), Values: make([][]float64, len(cols))}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, len(cols))
	}
	if len(cols) == 0 {
		return m
	}
	complete := true
	for _, c := range cols {
		if c.MissingCount() > 0 {
			complete = false
			break
		}
	}
	if complete && t.NumRows() >= 2 {
		denseCorrelation(m, cols, t.NumRows())
	} else {
		pairwiseCorrelation(m, cols)
	}
	for i := range cols {
		m.Values[i][i] = 1
	}
	return m
}

func denseCorrelation(m *CorrMatrix, cols []*table.Column, rows int) {
	k := len(cols)
	x := mat.NewDense(rows, k, nil)
	zeroVar := make([]bool, k)
	for j, c := range cols {
		vals := c.Floats()
		x.SetCol(j, vals)
		zeroVar[j] = stat.Variance(vals, nil) == 0
	}
	corr := mat.NewSymDense(k, nil)
	stat.CorrelationMatrix(corr, x, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if zeroVar[i] || zeroVar[j] {
				m.Values[i][j] = math.NaN()
				continue
			}
			r := corr.At(i, j)
			if r > 1 {
				r = 1
			} else if r < -1 {
				r = -1
			}
			m.Values[i][j] = r
		}
	}
}

func pairwiseCorrelation(m *CorrMatrix, cols []*table.Column) {
	for a := range cols {
		for b := a + 1; b < len(cols); b++ {
			var xs, ys []float64
			for i := 0; i < cols[a].Len(); i++ {
				x, okx := cols[a].Float(i)
				y, oky := cols[b].Float(i)
				if okx && oky {
					xs = append(xs, x)
					ys = append(ys, y)
				}
			}
			r := stats.Pearson(xs, ys)
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
}

// Index returns the position of a column in the matrix, or -1.
func (m *CorrMatrix) Index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// TopPairs lists up to n upper-triangle pairs by |r|, skipping NaN.
func (m *CorrMatrix) TopPairs(n int) []PairCorr {
	var pairs []PairCorr
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].R) > math.Abs(pairs[j].R)
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}
