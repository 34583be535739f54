// Package report answers the business questions asked of the cleaned session
// table: sales performance, conversion, marketing reach and software usage.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/sessionlens-cli/internal/analysis"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// Kinds lists the available reports in the order "all" renders them.
var Kinds = []string{"performance", "conversion", "marketing", "software"}

// Months is the calendar order used for month-keyed tables.
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "June", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Section is one titled table with optional free-form lines above it.
type Section struct {
	Title   string
	Lines   []string
	Headers []string
	Rows    [][]string
}

// Report is an ordered list of sections.
type Report struct {
	Name     string
	Sections []Section
}

// Build renders the named report, or every report for "all".
func Build(kind string, t *table.Table) (*Report, error) {
	builders := map[string]func(*table.Table) (*Report, error){
		"performance": Performance,
		"conversion":  Conversion,
		"marketing":   Marketing,
		"software":    Software,
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "all" {
		out := &Report{Name: "all"}
		for _, k := range Kinds {
			r, err := builders[k](t)
			if err != nil {
				return nil, fmt.Errorf("%s report: %w", k, err)
			}
			out.Sections = append(out.Sections, r.Sections...)
		}
		return out, nil
	}
	b, ok := builders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown report %q (want one of %s, all)", kind, strings.Join(Kinds, ", "))
	}
	return b(t)
}

// Markdown renders the report as bracketed sections with pipe tables.
func (r *Report) Markdown() string {
	var b strings.Builder
	for i, s := range r.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[" + strings.ToUpper(s.Title) + "]\n")
		for _, l := range s.Lines {
			b.WriteString(l + "\n")
		}
		if len(s.Headers) == 0 {
			continue
		}
		b.WriteString("| " + strings.Join(s.Headers, " | ") + " |\n")
		sep := make([]string, len(s.Headers))
		for j := range sep {
			sep[j] = "---"
		}
		b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
		for _, row := range s.Rows {
			b.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
	}
	return b.String()
}

// groupTable renders one metric per group as a two-or-more column table.
func groupTable(title string, groups []analysis.GroupResult, keys []string, header string, value func(analysis.GroupResult) float64, format func(float64) string) Section {
	s := Section{Title: title, Headers: append(append([]string(nil), keys...), header)}
	for _, g := range groups {
		row := append(append([]string(nil), g.Key...), format(value(g)))
		s.Rows = append(s.Rows, row)
	}
	return s
}

func sumOf(col string) func(analysis.GroupResult) float64 {
	return func(g analysis.GroupResult) float64 { return g.Value(col, analysis.AggSum) }
}

func pctOf(col string) func(analysis.GroupResult) float64 {
	return func(g analysis.GroupResult) float64 { return g.Value(col, analysis.AggMean) * 100 }
}

func meanOf(col string) func(analysis.GroupResult) float64 {
	return func(g analysis.GroupResult) float64 { return g.Value(col, analysis.AggMean) }
}

func fmtCount(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func fmtPct(v float64) string { return fmt.Sprintf("%.2f%%", v) }

func fmtDec(v float64) string { return fmt.Sprintf("%.4f", v) }

// sortDesc orders groups by a derived value, largest first.
func sortDesc(groups []analysis.GroupResult, value func(analysis.GroupResult) float64) {
	sort.SliceStable(groups, func(i, j int) bool { return value(groups[i]) > value(groups[j]) })
}

// columnSum adds the present values of a numeric or boolean column.
func columnSum(t *table.Table, name string) (float64, error) {
	c, err := t.MustColumn(name)
	if err != nil {
		return 0, err
	}
	var s float64
	for _, v := range c.Floats() {
		s += v
	}
	return s, nil
}

func requireColumns(t *table.Table, names ...string) error {
	for _, n := range names {
		if _, err := t.MustColumn(n); err != nil {
			return err
		}
	}
	return nil
}
