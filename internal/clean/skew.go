package clean

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/KaramelBytes/sessionlens-cli/internal/stats"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// Transform names recorded in SkewResult.
const (
	TransformBoxCox     = "box-cox"
	TransformYeoJohnson = "yeo-johnson"
	TransformNone       = "none"
)

// SkewResult describes the transform applied to one column. Lambda is kept
// for diagnostics only.
type SkewResult struct {
	Column    string  `yaml:"column"`
	Transform string  `yaml:"transform"`
	Lambda    float64 `yaml:"lambda"`
	Before    float64 `yaml:"skew_before"`
	After     float64 `yaml:"skew_after"`
	Error     string  `yaml:"error,omitempty"`
}

// SkewReport lists the per-column outcomes of CorrectSkew.
type SkewReport struct {
	Results []SkewResult `yaml:"results"`
}

// FindSkewedColumns returns the numeric columns whose |skewness| exceeds threshold.
func FindSkewedColumns(t *table.Table, threshold float64) []string {
	var out []string
	for _, c := range t.Columns() {
		if c.Kind != table.Numeric {
			continue
		}
		s := stats.Skewness(c.Floats())
		if !math.IsNaN(s) && math.Abs(s) > threshold {
			out = append(out, c.Name)
		}
	}
	return out
}

// CorrectSkew power-transforms each named column in place. Strictly positive
// columns get Box-Cox; Yeo-Johnson is used otherwise and whenever Box-Cox fails.
// A column neither transform can handle is left as is and logged. Missing cells
// are left untouched.
func CorrectSkew(t *table.Table, cols []string, log logrus.FieldLogger) SkewReport {
	var rep SkewReport
	for _, name := range cols {
		res := SkewResult{Column: name, Transform: TransformNone, Before: math.NaN(), After: math.NaN()}
		entry := log.WithField("column", name)
		c, err := numericColumn(t, "skew", name)
		if err != nil {
			res.Error = err.Error()
			entry.WithError(err).Warn("skew correction skipped")
			rep.Results = append(rep.Results, res)
			continue
		}
		x := c.Floats()
		res.Before = stats.Skewness(x)

		y, lmb, err := BoxCox(x)
		res.Transform = TransformBoxCox
		if err != nil {
			entry.WithError(err).Debug("box-cox unavailable, trying yeo-johnson")
			y, lmb, err = YeoJohnson(x)
			res.Transform = TransformYeoJohnson
		}
		if err != nil {
			res.Transform = TransformNone
			res.After = res.Before
			res.Error = err.Error()
			entry.WithError(err).Warn("skew correction failed; column left unmodified")
			rep.Results = append(rep.Results, res)
			continue
		}
		j := 0
		for i := range c.Valid {
			if c.Valid[i] {
				c.Nums[i] = y[j]
				j++
			}
		}
		res.Lambda = lmb
		res.After = stats.Skewness(y)
		entry.WithFields(logrus.Fields{
			"transform":   res.Transform,
			"lambda":      lmb,
			"skew_before": res.Before,
			"skew_after":  res.After,
		}).Info("skew corrected")
		rep.Results = append(rep.Results, res)
	}
	return rep
}
