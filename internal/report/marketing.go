package report

import (
	"strings"

	"github.com/KaramelBytes/sessionlens-cli/internal/analysis"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// Marketing reports sales and bounce rates per region and traffic source, and
// the monthly sales trend of paid ad traffic.
func Marketing(t *table.Table) (*Report, error) {
	if err := requireColumns(t, "region", "traffic_type", "month", "revenue", "bounce_rates"); err != nil {
		return nil, err
	}
	r := &Report{Name: "marketing"}
	keys := []string{"region", "traffic_type"}

	groups, err := analysis.GroupBy(t, keys...)
	if err != nil {
		return nil, err
	}
	analysis.SortByMetric(groups, "revenue", analysis.AggSum)
	r.Sections = append(r.Sections, groupTable("sales by region and traffic type", groups, keys, "sales", sumOf("revenue"), fmtCount))

	bounce := append([]analysis.GroupResult(nil), groups...)
	analysis.SortByMetric(bounce, "bounce_rates", analysis.AggMean)
	r.Sections = append(r.Sections, groupTable("bounce rate by region and traffic type", bounce, keys, "mean bounce rate", meanOf("bounce_rates"), fmtDec))

	ads, err := adsOnly(t)
	if err != nil {
		return nil, err
	}
	months, err := analysis.GroupBy(ads, "month")
	if err != nil {
		return nil, err
	}
	analysis.SortByOrder(months, Months)
	sec := groupTable("ad campaign sales by month", months, []string{"month"}, "sales", sumOf("revenue"), fmtCount)
	if len(months) == 0 {
		sec.Lines = []string{"No sessions from ad traffic."}
	}
	r.Sections = append(r.Sections, sec)
	return r, nil
}

// adsOnly returns a copy of t restricted to sessions whose traffic type
// mentions ads.
func adsOnly(t *table.Table) (*table.Table, error) {
	c, err := t.MustColumn("traffic_type")
	if err != nil {
		return nil, err
	}
	keep := make([]bool, t.NumRows())
	for i := range keep {
		keep[i] = !c.IsMissing(i) && strings.Contains(strings.ToLower(c.Format(i)), "ads")
	}
	out := t.Clone()
	if err := out.FilterRows(keep); err != nil {
		return nil, err
	}
	return out, nil
}
