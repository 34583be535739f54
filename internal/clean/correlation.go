package clean

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/sessionlens-cli/internal/analysis"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// HighlyCorrelated walks the upper triangle of m in column order and marks
// column j when |r(i,j)| > threshold for an earlier column i that is itself
// kept. Only the later column of a correlated pair is marked, so every marked
// column has a surviving partner. NaN entries never exceed the threshold.
func HighlyCorrelated(m *analysis.CorrMatrix, threshold float64) []string {
	kept := make([]bool, len(m.Columns))
	var out []string
	for j := range m.Columns {
		kept[j] = true
		for i := 0; i < j; i++ {
			if kept[i] && math.Abs(m.Values[i][j]) > threshold {
				kept[j] = false
				out = append(out, m.Columns[j])
				break
			}
		}
	}
	return out
}

// PruneCorrelated drops the columns HighlyCorrelated marks and returns their names.
func PruneCorrelated(t *table.Table, threshold float64) ([]string, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("correlation threshold %v outside [0, 1]", threshold)
	}
	drop := HighlyCorrelated(analysis.Correlation(t), threshold)
	t.DropColumns(drop...)
	return drop, nil
}
