package report

import (
	"fmt"

	"github.com/KaramelBytes/sessionlens-cli/internal/analysis"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

var durationColumns = []string{"administrative_duration", "product_related_duration", "informational_duration"}

// Performance reports where sales come from: weekend share, region, traffic
// source, month and how session time is split across page types.
func Performance(t *table.Table) (*Report, error) {
	if err := requireColumns(t, append([]string{"weekend", "region", "traffic_type", "month", "revenue"}, durationColumns...)...); err != nil {
		return nil, err
	}
	r := &Report{Name: "performance"}

	total, err := columnSum(t, "revenue")
	if err != nil {
		return nil, err
	}
	byWeekend, err := analysis.GroupBy(t, "weekend")
	if err != nil {
		return nil, err
	}
	var weekend float64
	for _, g := range byWeekend {
		if v, ok := table.ParseBool(g.Key[0]); ok && v {
			weekend += g.Value("revenue", analysis.AggSum)
		}
	}
	share := Section{Title: "weekend sales"}
	if total > 0 {
		share.Lines = append(share.Lines, fmt.Sprintf("Weekend share of sales: %s (%s of %s)", fmtPct(weekend/total*100), fmtCount(weekend), fmtCount(total)))
	} else {
		share.Lines = append(share.Lines, "No sales recorded.")
	}
	r.Sections = append(r.Sections, share)

	for _, key := range []string{"region", "traffic_type"} {
		groups, err := analysis.GroupBy(t, key)
		if err != nil {
			return nil, err
		}
		analysis.SortByMetric(groups, "revenue", analysis.AggSum)
		r.Sections = append(r.Sections, groupTable("sales by "+key, groups, []string{key}, "sales", sumOf("revenue"), fmtCount))
	}

	spent := Section{Title: "time spent by page type", Headers: []string{"page type", "total", "share"}}
	var sums []float64
	var all float64
	for _, c := range durationColumns {
		s, err := columnSum(t, c)
		if err != nil {
			return nil, err
		}
		sums = append(sums, s)
		all += s
	}
	for i, c := range durationColumns {
		pct := 0.0
		if all != 0 {
			pct = sums[i] / all * 100
		}
		spent.Rows = append(spent.Rows, []string{c, fmtDec(sums[i]), fmtPct(pct)})
	}
	r.Sections = append(r.Sections, spent)

	avg := Section{Title: "average page durations", Headers: []string{"page type", "mean"}}
	for _, c := range []string{"administrative_duration", "informational_duration"} {
		col, _ := t.MustColumn(c)
		vals := col.Floats()
		mean := 0.0
		if len(vals) > 0 {
			mean = sums[indexOf(durationColumns, c)] / float64(len(vals))
		}
		avg.Rows = append(avg.Rows, []string{c, fmtDec(mean)})
	}
	r.Sections = append(r.Sections, avg)

	months, err := analysis.GroupBy(t, "month")
	if err != nil {
		return nil, err
	}
	analysis.SortByMetric(months, "revenue", analysis.AggSum)
	r.Sections = append(r.Sections, groupTable("sales by month", months, []string{"month"}, "sales", sumOf("revenue"), fmtCount))
	return r, nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
