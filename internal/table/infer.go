package table

import (
	"fmt"
	"strconv"
	"strings"
)

var missingTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "NaN": {}, "nan": {}, "null": {}, "NULL": {}, "None": {},
}

// IsMissingToken reports whether a raw cell denotes a missing value.
func IsMissingToken(s string) bool {
	_, ok := missingTokens[strings.TrimSpace(s)]
	return ok
}

// FromRecords builds a table from a header and string records, inferring each
// column's kind from its non-missing cells: all floats → numeric, all true/false →
// boolean, anything else → text. Short records are padded with missing cells;
// long records are a schema error.
func FromRecords(header []string, records [][]string) (*Table, error) {
	t := New()
	ncol := len(header)
	for i, rec := range records {
		if len(rec) > ncol {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(rec), ncol)
		}
	}
	for j, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = fmt.Sprintf("column_%d", j+1)
		}
		cells := make([]string, len(records))
		for i, rec := range records {
			if j < len(rec) {
				cells[i] = strings.TrimSpace(rec[j])
			}
		}
		if err := t.AddColumn(inferColumn(name, cells)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func inferColumn(name string, cells []string) *Column {
	n := len(cells)
	valid := make([]bool, n)
	present := 0
	isNum, isBool := true, true
	for i, s := range cells {
		if IsMissingToken(s) {
			continue
		}
		valid[i] = true
		present++
		if isNum {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				isNum = false
			}
		}
		if isBool {
			if _, ok := ParseBool(s); !ok {
				isBool = false
			}
		}
	}
	switch {
	case present > 0 && isNum:
		nums := make([]float64, n)
		for i, s := range cells {
			if valid[i] {
				nums[i], _ = strconv.ParseFloat(s, 64)
			}
		}
		return NewNumeric(name, nums, valid)
	case present > 0 && isBool:
		bools := make([]bool, n)
		for i, s := range cells {
			if valid[i] {
				bools[i], _ = ParseBool(s)
			}
		}
		return NewBoolean(name, bools, valid)
	case present == 0:
		// Nothing to infer from; an all-missing column stays numeric so the
		// imputer can flag it.
		return NewNumeric(name, make([]float64, n), valid)
	default:
		strs := make([]string, n)
		for i, s := range cells {
			if valid[i] {
				strs[i] = s
			}
		}
		return NewText(name, strs, valid)
	}
}
