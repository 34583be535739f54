package report

import (
	"github.com/KaramelBytes/sessionlens-cli/internal/analysis"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// Conversion reports the share of sessions ending in a purchase, broken down by
// visitor type, weekend, month and traffic source.
func Conversion(t *table.Table) (*Report, error) {
	if err := requireColumns(t, "region", "visitor_type", "weekend", "month", "traffic_type", "revenue"); err != nil {
		return nil, err
	}
	r := &Report{Name: "conversion"}

	regions, err := analysis.GroupBy(t, "region")
	if err != nil {
		return nil, err
	}
	analysis.SortByMetric(regions, "revenue", analysis.AggSum)
	r.Sections = append(r.Sections, groupTable("purchases by region", regions, []string{"region"}, "purchases", sumOf("revenue"), fmtCount))

	for _, b := range []struct {
		key    string
		sorted bool
	}{
		{"visitor_type", false},
		{"weekend", false},
		{"month", true},
		{"traffic_type", true},
	} {
		groups, err := analysis.GroupBy(t, b.key)
		if err != nil {
			return nil, err
		}
		if b.sorted {
			sortDesc(groups, pctOf("revenue"))
		}
		r.Sections = append(r.Sections, groupTable("conversion rate by "+b.key, groups, []string{b.key}, "conversion", pctOf("revenue"), fmtPct))
	}
	return r, nil
}
