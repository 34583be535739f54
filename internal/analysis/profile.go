package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/sessionlens-cli/internal/stats"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// Options controls profiling behavior.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// TopValues caps the categorical value list per column.
	TopValues int
	// Correlations computes Pearson correlations among numeric and boolean columns.
	Correlations bool
}

// DefaultOptions returns reasonable defaults for dataset profiling.
func DefaultOptions() Options {
	return Options{SampleRows: 5, TopValues: 8, Correlations: true}
}

// Report is a markdown-friendly profile of a table.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  [][]string
	Corr     *CorrMatrix
	Warnings []string
}

// ColumnSummary captures kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min    float64
	Max    float64
	Mean   float64
	Std    float64
	Median float64
	Skew   float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// MissingPercent returns the missing share of the column as a percentage.
func (c ColumnSummary) MissingPercent() float64 {
	total := c.NonNull + c.Missing
	if total == 0 {
		return 0
	}
	return float64(c.Missing) * 100.0 / float64(total)
}

// Profile computes descriptive statistics for every column of t.
func Profile(name string, t *table.Table, opt Options) *Report {
	rep := &Report{Name: name, Rows: t.NumRows()}
	sampleRows := opt.SampleRows
	if sampleRows < 0 {
		sampleRows = 0
	}
	for i := 0; i < t.NumRows() && i < sampleRows; i++ {
		rep.Samples = append(rep.Samples, t.Record(i))
	}
	topN := opt.TopValues
	if topN <= 0 {
		topN = 8
	}
	for _, c := range t.Columns() {
		s := ColumnSummary{Name: c.Name, Kind: c.Kind.String(), Missing: c.MissingCount()}
		s.NonNull = c.Len() - s.Missing
		switch c.Kind {
		case table.Numeric:
			vals := c.Floats()
			if len(vals) > 0 {
				s.Min, s.Max = stats.MinMax(vals)
				s.Mean = stats.Mean(vals)
				s.Std = stats.Std(vals)
				s.Median = stats.Median(vals)
				s.Skew = stats.Skewness(vals)
			}
			s.Unique = uniqueCount(c)
		default:
			tops := valueCounts(c)
			s.Unique = len(tops)
			if len(tops) > topN {
				tops = tops[:topN]
			}
			s.TopValues = tops
			if c.Kind == table.Boolean && s.NonNull > 0 {
				s.Mean = stats.Mean(c.Floats())
			}
		}
		if s.NonNull == 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s has no values", c.Name))
		}
		rep.Cols = append(rep.Cols, s)
	}
	if opt.Correlations {
		if m := Correlation(t); len(m.Columns) >= 2 {
			rep.Corr = m
		}
	}
	return rep
}

func uniqueCount(c *table.Column) int {
	seen := make(map[string]struct{})
	for i := 0; i < c.Len(); i++ {
		if c.Valid[i] {
			seen[c.Format(i)] = struct{}{}
		}
	}
	return len(seen)
}

// valueCounts counts present values, most frequent first; ties keep first-seen order.
func valueCounts(c *table.Column) []CategoryCount {
	idx := map[string]int{}
	var out []CategoryCount
	for i := 0; i < c.Len(); i++ {
		if !c.Valid[i] {
			continue
		}
		v := c.Format(i)
		j, ok := idx[v]
		if !ok {
			j = len(out)
			idx[v] = j
			out = append(out, CategoryCount{Value: v})
		}
		out[j].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %d / %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, c.Missing, c.MissingPercent()))
		switch c.Kind {
		case "numeric":
			if c.NonNull > 0 {
				b.WriteString(fmt.Sprintf(" — mean %.4g, std %s, median %.4g, min %.4g, max %.4g", c.Mean, fmtNum(c.Std), c.Median, c.Min, c.Max))
				if !math.IsNaN(c.Skew) {
					b.WriteString(fmt.Sprintf(", skew %.3f", c.Skew))
				}
			}
		case "categorical", "text", "boolean":
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range r.Corr.TopPairs(10) {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func fmtNum(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", v)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
