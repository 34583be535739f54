package clean

import (
	"math"

	"github.com/KaramelBytes/sessionlens-cli/internal/stats"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// Fill strategies.
const (
	FillMode   = "mode"
	FillMedian = "median"
	FillMean   = "mean"
)

// medianSkew is the |skewness| above which numeric gaps are filled with the median.
const medianSkew = 1.0

// ColumnFill describes how one column's gaps were filled.
type ColumnFill struct {
	Column   string  `yaml:"column"`
	Strategy string  `yaml:"strategy"`
	Value    string  `yaml:"value"`
	Skew     float64 `yaml:"skew,omitempty"`
	Filled   int     `yaml:"filled"`
}

// ImputeReport lists the columns that had missing cells.
type ImputeReport struct {
	Fills []ColumnFill `yaml:"fills"`
}

// Filled returns the total number of cells filled.
func (r ImputeReport) Filled() int {
	n := 0
	for _, f := range r.Fills {
		n += f.Filled
	}
	return n
}

// ImputeMissing fills every missing cell in place. Categorical, text and boolean
// columns take their most frequent value. Numeric columns take the median when
// |skewness| exceeds 1 and the mean otherwise. A column with no present values
// is a fatal *DataQualityError wrapping ErrAllMissing; the table is not touched
// in that case.
func ImputeMissing(t *table.Table) (ImputeReport, error) {
	var rep ImputeReport
	for _, c := range t.Columns() {
		if c.Len() > 0 && c.MissingCount() == c.Len() {
			return rep, &DataQualityError{Stage: "impute", Column: c.Name, Err: ErrAllMissing}
		}
	}
	for _, c := range t.Columns() {
		missing := c.MissingCount()
		if missing == 0 {
			continue
		}
		fill := ColumnFill{Column: c.Name, Filled: missing}
		if c.Kind == table.Numeric {
			vals := c.Floats()
			fill.Skew = stats.Skewness(vals)
			v := stats.Mean(vals)
			fill.Strategy = FillMean
			if !math.IsNaN(fill.Skew) && math.Abs(fill.Skew) > medianSkew {
				v = stats.Median(vals)
				fill.Strategy = FillMedian
			}
			for i := range c.Valid {
				if !c.Valid[i] {
					c.Nums[i] = v
					c.Valid[i] = true
				}
			}
			fill.Value = table.FormatFloat(v)
		} else {
			present := make([]string, 0, c.Len()-missing)
			for i := range c.Valid {
				if c.Valid[i] {
					present = append(present, c.Format(i))
				}
			}
			mode, _, _ := stats.Mode(present)
			for i := range c.Valid {
				if !c.Valid[i] {
					if err := c.Set(i, mode); err != nil {
						return rep, &DataQualityError{Stage: "impute", Column: c.Name, Err: err}
					}
				}
			}
			fill.Strategy = FillMode
			fill.Value = mode
		}
		rep.Fills = append(rep.Fills, fill)
	}
	return rep, nil
}
