package clean

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/KaramelBytes/sessionlens-cli/internal/analysis"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// DefaultCategorical lists the session columns that carry enumerated values.
var DefaultCategorical = []string{"month", "operating_systems", "browser", "region", "traffic_type", "visitor_type"}

// Options configures a Pipeline run.
type Options struct {
	// Categorical columns are coerced before any statistics are taken.
	Categorical []string
	// SkewThreshold selects columns for skew correction by |skewness|.
	SkewThreshold float64
	// CorrThreshold is the |r| above which the later column of a pair is dropped.
	CorrThreshold float64
	// OutlierMethod must be "IQR".
	OutlierMethod string
	// OutlierColumns defaults to every numeric column after imputation.
	OutlierColumns []string
	// SkewColumns defaults to FindSkewedColumns evaluated before trimming.
	SkewColumns []string
}

// DefaultOptions returns the settings used for the customer activity table.
func DefaultOptions() Options {
	return Options{
		Categorical:   append([]string(nil), DefaultCategorical...),
		SkewThreshold: 0.5,
		CorrThreshold: 0.9,
		OutlierMethod: MethodIQR,
	}
}

// RunResult collects what each stage did.
type RunResult struct {
	MissingBefore []analysis.MissingCount
	MissingAfter  []analysis.MissingCount
	Impute        ImputeReport
	Trim          TrimReport
	Skew          SkewReport
	Dropped       []string
	Rows          int
	Columns       []string
}

// Pipeline runs the cleaning stages strictly in sequence over one table.
type Pipeline struct {
	opt Options
	log logrus.FieldLogger
}

// NewPipeline builds a pipeline. A nil logger discards output.
func NewPipeline(opt Options, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Pipeline{opt: opt, log: log}
}

// Run coerces, imputes, trims, corrects skew and prunes t in place. Any stage
// error aborts the run; skew failures are logged and never abort.
func (p *Pipeline) Run(ctx context.Context, t *table.Table) (*RunResult, error) {
	res := &RunResult{}
	log := p.log.WithField("rows", t.NumRows())

	if err := CoerceCategorical(t, p.opt.Categorical); err != nil {
		return nil, err
	}
	res.MissingBefore = analysis.MissingCounts(t)
	log.WithField("missing", analysis.TotalMissing(res.MissingBefore)).Info("loaded table")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	imp, err := ImputeMissing(t)
	if err != nil {
		return nil, err
	}
	res.Impute = imp
	for _, f := range imp.Fills {
		p.log.WithFields(logrus.Fields{"column": f.Column, "strategy": f.Strategy, "value": f.Value, "filled": f.Filled}).Debug("imputed")
	}
	res.MissingAfter = analysis.MissingCounts(t)
	p.log.WithField("filled", imp.Filled()).Info("imputation done")

	skewCols := p.opt.SkewColumns
	if skewCols == nil {
		skewCols = FindSkewedColumns(t, p.opt.SkewThreshold)
	}
	outCols := p.opt.OutlierColumns
	if outCols == nil {
		outCols = t.NumericColumns()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	trim, err := TrimOutliers(t, outCols, p.opt.OutlierMethod)
	if err != nil {
		return nil, fmt.Errorf("outliers: %w", err)
	}
	res.Trim = trim
	p.log.WithFields(logrus.Fields{"before": trim.RowsBefore, "after": trim.RowsAfter}).Info("outliers trimmed")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Skew = CorrectSkew(t, skewCols, p.log)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dropped, err := PruneCorrelated(t, p.opt.CorrThreshold)
	if err != nil {
		return nil, err
	}
	res.Dropped = dropped
	if len(dropped) > 0 {
		p.log.WithField("columns", dropped).Info("dropped correlated columns")
	}

	res.Rows = t.NumRows()
	res.Columns = t.Names()
	return res, nil
}
