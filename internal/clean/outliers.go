package clean

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/sessionlens-cli/internal/stats"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// MethodIQR is the interquartile-range fence, the only supported trim method.
const MethodIQR = "IQR"

// iqrFence is the fence multiplier applied to the IQR.
const iqrFence = 1.5

// Bounds is the retained interval for one column. Lo and Hi are inclusive.
type Bounds struct {
	Column  string  `yaml:"column"`
	Q1      float64 `yaml:"q1"`
	Q3      float64 `yaml:"q3"`
	IQR     float64 `yaml:"iqr"`
	Lo      float64 `yaml:"lo"`
	Hi      float64 `yaml:"hi"`
	Dropped int     `yaml:"dropped"`
}

// Contains reports whether v lies inside the fence.
func (b Bounds) Contains(v float64) bool { return v >= b.Lo && v <= b.Hi }

// TrimReport summarizes an outlier pass.
type TrimReport struct {
	Method     string   `yaml:"method"`
	RowsBefore int      `yaml:"rows_before"`
	RowsAfter  int      `yaml:"rows_after"`
	Columns    []Bounds `yaml:"columns"`
}

// IQRBounds computes the fence for a column from its present values.
func IQRBounds(c *table.Column) Bounds {
	q := stats.Quantiles(c.Floats(), 0.25, 0.75)
	b := Bounds{Column: c.Name, Q1: q[0], Q3: q[1]}
	b.IQR = b.Q3 - b.Q1
	b.Lo = b.Q1 - iqrFence*b.IQR
	b.Hi = b.Q3 + iqrFence*b.IQR
	return b
}

// ApplyBounds drops the rows whose value in b.Column is missing or outside b.
// It returns the number of rows removed.
func ApplyBounds(t *table.Table, b Bounds) (int, error) {
	c, err := numericColumn(t, "trim", b.Column)
	if err != nil {
		return 0, err
	}
	keep := make([]bool, c.Len())
	dropped := 0
	for i := range keep {
		keep[i] = c.Valid[i] && b.Contains(c.Nums[i])
		if !keep[i] {
			dropped++
		}
	}
	if err := t.FilterRows(keep); err != nil {
		return 0, fmt.Errorf("trim %s: %w", b.Column, err)
	}
	return dropped, nil
}

// TrimOutliers removes rows outside the IQR fence of each column, in order.
// Each column's quartiles are computed on the table already filtered by the
// previous columns.
func TrimOutliers(t *table.Table, cols []string, method string) (TrimReport, error) {
	rep := TrimReport{Method: method, RowsBefore: t.NumRows()}
	if !strings.EqualFold(method, MethodIQR) {
		return rep, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	rep.Method = MethodIQR
	for _, name := range cols {
		if _, err := numericColumn(t, "trim", name); err != nil {
			return rep, err
		}
	}
	for _, name := range cols {
		c, _ := t.Column(name)
		b := IQRBounds(c)
		n, err := ApplyBounds(t, b)
		if err != nil {
			return rep, err
		}
		b.Dropped = n
		rep.Columns = append(rep.Columns, b)
	}
	rep.RowsAfter = t.NumRows()
	return rep, nil
}

func numericColumn(t *table.Table, stage, name string) (*table.Column, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, &DataQualityError{Stage: stage, Column: name, Err: ErrUnknownColumn}
	}
	if c.Kind != table.Numeric {
		return nil, &DataQualityError{Stage: stage, Column: name, Err: ErrNotNumeric}
	}
	return c, nil
}
