package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// GroupResult captures aggregated metrics per group key.
type GroupResult struct {
	Key     []string // one value per grouping column
	Size    int
	Metrics map[string]NumSummary // by column name
}

// NumSummary aggregates the present values of one column within a group.
type NumSummary struct {
	Count               int
	Sum, Min, Max, Mean float64
}

// KeyString joins the key values, e.g. "North America | 2".
func (g GroupResult) KeyString() string { return strings.Join(g.Key, " | ") }

// Metric returns the named summary or a zero summary.
func (g GroupResult) Metric(col string) NumSummary { return g.Metrics[col] }

// GroupBy partitions the rows of t by the given key columns and aggregates every
// numeric and boolean column that is not a key (booleans as 0/1, so Sum counts
// true values and Mean is their share). Rows with a missing key are excluded.
// Groups are returned sorted by key.
func GroupBy(t *table.Table, keys ...string) ([]GroupResult, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("group by: no key columns")
	}
	keyCols := make([]*table.Column, len(keys))
	isKey := map[string]bool{}
	for i, k := range keys {
		c, err := t.MustColumn(k)
		if err != nil {
			return nil, fmt.Errorf("group by: %w", err)
		}
		keyCols[i] = c
		isKey[c.Name] = true
	}
	var metricCols []*table.Column
	for _, c := range t.Columns() {
		if isKey[c.Name] {
			continue
		}
		if c.Kind == table.Numeric || c.Kind == table.Boolean {
			metricCols = append(metricCols, c)
		}
	}

	groups := map[string]*GroupResult{}
	var order []string
rows:
	for i := 0; i < t.NumRows(); i++ {
		parts := make([]string, len(keyCols))
		for j, kc := range keyCols {
			if kc.IsMissing(i) {
				continue rows
			}
			parts[j] = kc.Format(i)
		}
		id := strings.Join(parts, "\x00")
		g := groups[id]
		if g == nil {
			g = &GroupResult{Key: parts, Metrics: map[string]NumSummary{}}
			groups[id] = g
			order = append(order, id)
		}
		g.Size++
		for _, mc := range metricCols {
			v, ok := mc.Float(i)
			if !ok {
				continue
			}
			s, seen := g.Metrics[mc.Name]
			if !seen {
				s = NumSummary{Min: math.Inf(1), Max: math.Inf(-1)}
			}
			s.Count++
			s.Sum += v
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
			g.Metrics[mc.Name] = s
		}
	}
	out := make([]GroupResult, 0, len(order))
	for _, id := range order {
		g := groups[id]
		for name, s := range g.Metrics {
			s.Mean = s.Sum / float64(s.Count)
			g.Metrics[name] = s
		}
		out = append(out, *g)
	}
	sort.SliceStable(out, func(i, j int) bool { return lessKey(out[i].Key, out[j].Key) })
	return out, nil
}

func lessKey(a, b []string) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Aggregate selects the statistic used by SortByMetric.
type Aggregate int

const (
	AggSum Aggregate = iota
	AggMean
	AggCount
)

func (a Aggregate) of(s NumSummary) float64 {
	switch a {
	case AggMean:
		if s.Count == 0 {
			return 0
		}
		return s.Mean
	case AggCount:
		return float64(s.Count)
	default:
		return s.Sum
	}
}

// Value returns the aggregate of a column within the group.
func (g GroupResult) Value(col string, agg Aggregate) float64 { return agg.of(g.Metrics[col]) }

// SortByMetric orders groups by an aggregate of col, descending. Ties keep key order.
func SortByMetric(groups []GroupResult, col string, agg Aggregate) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Value(col, agg) > groups[j].Value(col, agg)
	})
}

// SortBySize orders groups by row count, descending.
func SortBySize(groups []GroupResult) {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Size > groups[j].Size })
}

// SortByOrder orders groups by the position of their first key value in order.
// Values not listed go last, in key order.
func SortByOrder(groups []GroupResult, order []string) {
	pos := make(map[string]int, len(order))
	for i, v := range order {
		pos[strings.ToLower(v)] = i
	}
	rank := func(g GroupResult) int {
		if len(g.Key) == 0 {
			return len(order)
		}
		if p, ok := pos[strings.ToLower(g.Key[0])]; ok {
			return p
		}
		return len(order)
	}
	sort.SliceStable(groups, func(i, j int) bool { return rank(groups[i]) < rank(groups[j]) })
}
