package report

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/sessionlens-cli/internal/analysis"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// OS categories.
const (
	CategoryMobile  = "Mobile"
	CategoryDesktop = "Desktop"
	CategoryOthers  = "Others"
)

var categories = []string{CategoryDesktop, CategoryMobile, CategoryOthers}

// OSCategory buckets an operating system name.
func OSCategory(os string) string {
	switch os {
	case "Android", "iOS":
		return CategoryMobile
	case "Windows", "Mac OS", "Linux":
		return CategoryDesktop
	default:
		return CategoryOthers
	}
}

// Software reports the operating systems and browsers sessions use, so
// development effort can follow the audience.
func Software(t *table.Table) (*Report, error) {
	if err := requireColumns(t, "operating_systems", "browser", "region"); err != nil {
		return nil, err
	}
	r := &Report{Name: "software"}

	osGroups, err := analysis.GroupBy(t, "operating_systems")
	if err != nil {
		return nil, err
	}
	analysis.SortBySize(osGroups)
	var total int
	for _, g := range osGroups {
		total += g.Size
	}
	osSec := Section{Title: "operating systems", Headers: []string{"operating_systems", "sessions", "share"}}
	for _, g := range osGroups {
		osSec.Rows = append(osSec.Rows, []string{g.Key[0], fmt.Sprintf("%d", g.Size), fmtPct(float64(g.Size) / float64(total) * 100)})
	}
	r.Sections = append(r.Sections, osSec)

	osCol, _ := t.MustColumn("operating_systems")
	browser, _ := t.MustColumn("browser")
	region, _ := t.MustColumn("region")

	catSec := Section{Title: "os categories", Headers: []string{"category", "sessions"}}
	catCounts := map[string]int{}
	for i := 0; i < t.NumRows(); i++ {
		if !osCol.IsMissing(i) {
			catCounts[OSCategory(osCol.Format(i))]++
		}
	}
	for _, c := range categories {
		catSec.Rows = append(catSec.Rows, []string{c, fmt.Sprintf("%d", catCounts[c])})
	}
	r.Sections = append(r.Sections, catSec)

	bp := newPivot()
	for i := 0; i < t.NumRows(); i++ {
		if browser.IsMissing(i) || osCol.IsMissing(i) {
			continue
		}
		bp.add(browser.Format(i), OSCategory(osCol.Format(i)))
	}
	r.Sections = append(r.Sections, bp.section("browsers by os category", "browser", categories))

	rp := newPivot()
	for i := 0; i < t.NumRows(); i++ {
		if region.IsMissing(i) || osCol.IsMissing(i) {
			continue
		}
		rp.add(region.Format(i), osCol.Format(i))
	}
	r.Sections = append(r.Sections, rp.section("operating systems by region", "region", rp.columns()))
	return r, nil
}

// pivot counts (row, column) occurrences.
type pivot struct {
	counts map[string]map[string]int
	cols   map[string]bool
}

func newPivot() *pivot {
	return &pivot{counts: map[string]map[string]int{}, cols: map[string]bool{}}
}

func (p *pivot) add(row, col string) {
	if p.counts[row] == nil {
		p.counts[row] = map[string]int{}
	}
	p.counts[row][col]++
	p.cols[col] = true
}

func (p *pivot) columns() []string {
	out := make([]string, 0, len(p.cols))
	for c := range p.cols {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// section renders rows ordered by their total count, descending, then by name.
func (p *pivot) section(title, rowHeader string, cols []string) Section {
	type row struct {
		name  string
		total int
	}
	rows := make([]row, 0, len(p.counts))
	for name, cs := range p.counts {
		n := 0
		for _, v := range cs {
			n += v
		}
		rows = append(rows, row{name, n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].total != rows[j].total {
			return rows[i].total > rows[j].total
		}
		return rows[i].name < rows[j].name
	})
	s := Section{Title: title, Headers: append(append([]string{rowHeader}, cols...), "total")}
	for _, r := range rows {
		line := []string{r.name}
		for _, c := range cols {
			line = append(line, fmt.Sprintf("%d", p.counts[r.name][c]))
		}
		s.Rows = append(s.Rows, append(line, fmt.Sprintf("%d", r.total)))
	}
	return s
}
