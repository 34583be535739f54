package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// MissingCount is the number of missing cells in one column.
type MissingCount struct {
	Column  string
	Missing int
	Percent float64
}

// MissingCounts lists every column of t with its missing-cell count, in column order.
func MissingCounts(t *table.Table) []MissingCount {
	out := make([]MissingCount, 0, t.NumCols())
	for _, c := range t.Columns() {
		mc := MissingCount{Column: c.Name, Missing: c.MissingCount()}
		if t.NumRows() > 0 {
			mc.Percent = float64(mc.Missing) * 100.0 / float64(t.NumRows())
		}
		out = append(out, mc)
	}
	return out
}

// TotalMissing sums the counts.
func TotalMissing(counts []MissingCount) int {
	n := 0
	for _, c := range counts {
		n += c.Missing
	}
	return n
}

// CompareMissing renders a before/after missing-value table. Columns that only
// exist on one side are shown with "-" for the other.
func CompareMissing(before, after []MissingCount) string {
	var b strings.Builder
	b.WriteString("[MISSING VALUES]\n")
	b.WriteString("| column | before | after |\n| --- | --- | --- |\n")
	afterBy := make(map[string]int, len(after))
	for _, a := range after {
		afterBy[a.Column] = a.Missing
	}
	seen := map[string]bool{}
	for _, bc := range before {
		seen[bc.Column] = true
		av := "-"
		if n, ok := afterBy[bc.Column]; ok {
			av = fmt.Sprintf("%d", n)
		}
		b.WriteString(fmt.Sprintf("| %s | %d | %s |\n", safeName(bc.Column), bc.Missing, av))
	}
	for _, a := range after {
		if !seen[a.Column] {
			b.WriteString(fmt.Sprintf("| %s | - | %d |\n", safeName(a.Column), a.Missing))
		}
	}
	b.WriteString(fmt.Sprintf("Total: %d -> %d\n", TotalMissing(before), TotalMissing(after)))
	return b.String()
}
