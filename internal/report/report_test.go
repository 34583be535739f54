package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

func fixture(t *testing.T) *table.Table {
	t.Helper()
	header := []string{"region", "traffic_type", "weekend", "month", "visitor_type", "revenue", "bounce_rates",
		"administrative_duration", "informational_duration", "product_related_duration", "operating_systems", "browser"}
	records := [][]string{
		{"Europe", "Google ads", "True", "Feb", "Returning_Visitor", "True", "0.1", "10", "0", "90", "Windows", "Chrome"},
		{"Europe", "Direct", "False", "Mar", "New_Visitor", "False", "0.3", "20", "10", "70", "Android", "Chrome"},
		{"Asia", "Facebook ads", "False", "Feb", "Returning_Visitor", "True", "0.2", "0", "0", "100", "iOS", "Safari"},
		{"Asia", "Facebook ads", "True", "Nov", "Returning_Visitor", "True", "0.4", "30", "10", "60", "Mac OS", "Safari"},
		{"North America", "Direct", "False", "Nov", "New_Visitor", "False", "0", "40", "20", "40", "Chrome OS", "Chrome"},
	}
	tbl, err := table.FromRecords(header, records)
	require.NoError(t, err)
	return tbl
}

func section(t *testing.T, r *Report, title string) Section {
	t.Helper()
	for _, s := range r.Sections {
		if s.Title == title {
			return s
		}
	}
	t.Fatalf("section %q not found", title)
	return Section{}
}

func TestPerformance(t *testing.T) {
	r, err := Performance(fixture(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Weekend share of sales: 66.67% (2 of 3)"}, section(t, r, "weekend sales").Lines)
	assert.Equal(t, [][]string{{"Asia", "2"}, {"Europe", "1"}, {"North America", "0"}}, section(t, r, "sales by region").Rows)
	assert.Equal(t, [][]string{
		{"administrative_duration", "100.0000", "20.00%"},
		{"product_related_duration", "360.0000", "72.00%"},
		{"informational_duration", "40.0000", "8.00%"},
	}, section(t, r, "time spent by page type").Rows)
	assert.Equal(t, [][]string{{"administrative_duration", "20.0000"}, {"informational_duration", "8.0000"}}, section(t, r, "average page durations").Rows)
	assert.Equal(t, "Feb", section(t, r, "sales by month").Rows[0][0])
}

func TestConversion(t *testing.T) {
	r, err := Conversion(fixture(t))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"New_Visitor", "0.00%"}, {"Returning_Visitor", "100.00%"}}, section(t, r, "conversion rate by visitor_type").Rows)
	assert.Equal(t, [][]string{{"False", "33.33%"}, {"True", "100.00%"}}, section(t, r, "conversion rate by weekend").Rows)
	traffic := section(t, r, "conversion rate by traffic_type").Rows
	assert.Equal(t, "Facebook ads", traffic[0][0])
	assert.Equal(t, "Direct", traffic[len(traffic)-1][0])
}

func TestMarketing(t *testing.T) {
	r, err := Marketing(fixture(t))
	require.NoError(t, err)
	sales := section(t, r, "sales by region and traffic type").Rows
	assert.Equal(t, []string{"Asia", "Facebook ads", "2"}, sales[0])
	bounce := section(t, r, "bounce rate by region and traffic type").Rows
	assert.Equal(t, []string{"Asia", "Facebook ads", "0.3000"}, bounce[0])
	assert.Equal(t, [][]string{{"Feb", "2"}, {"Nov", "1"}}, section(t, r, "ad campaign sales by month").Rows)
}

func TestSoftware(t *testing.T) {
	r, err := Software(fixture(t))
	require.NoError(t, err)
	assert.Len(t, section(t, r, "operating systems").Rows, 5)
	assert.Equal(t, "20.00%", section(t, r, "operating systems").Rows[0][2])
	assert.Equal(t, [][]string{{"Desktop", "2"}, {"Mobile", "2"}, {"Others", "1"}}, section(t, r, "os categories").Rows)
	browsers := section(t, r, "browsers by os category")
	assert.Equal(t, []string{"browser", "Desktop", "Mobile", "Others", "total"}, browsers.Headers)
	assert.Equal(t, [][]string{{"Chrome", "1", "1", "1", "3"}, {"Safari", "1", "1", "0", "2"}}, browsers.Rows)
	assert.Equal(t, "Asia", section(t, r, "operating systems by region").Rows[0][0])
}

func TestOSCategory(t *testing.T) {
	assert.Equal(t, CategoryMobile, OSCategory("iOS"))
	assert.Equal(t, CategoryDesktop, OSCategory("Linux"))
	assert.Equal(t, CategoryOthers, OSCategory("Chrome OS"))
}

func TestBuildAndMarkdown(t *testing.T) {
	tbl := fixture(t)
	all, err := Build("ALL", tbl)
	require.NoError(t, err)
	md := all.Markdown()
	for _, want := range []string{"[WEEKEND SALES]", "[CONVERSION RATE BY MONTH]", "[AD CAMPAIGN SALES BY MONTH]", "[OS CATEGORIES]", "| region | sales |", "| --- | --- |", "| Asia | 2 |"} {
		assert.Contains(t, md, want)
	}

	_, err = Build("weather", tbl)
	assert.ErrorContains(t, err, "unknown report")

	tbl.DropColumns("browser")
	_, err = Build("software", tbl)
	assert.Error(t, err)
}
