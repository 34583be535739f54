package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags how a column's values are stored and which cleaning policy applies.
type Kind int

const (
	Numeric Kind = iota
	Categorical
	Boolean
	Text
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Boolean:
		return "boolean"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// IsString reports whether values of this kind live in Column.Strs.
func (k Kind) IsString() bool { return k == Categorical || k == Text }

// Column is a single named sequence of cells. Exactly one of Nums, Strs or
// Bools is populated, selected by Kind. Valid[i] is false for a missing cell.
type Column struct {
	Name  string
	Kind  Kind
	Nums  []float64
	Strs  []string
	Bools []bool
	Valid []bool
}

// NewNumeric builds a numeric column. A nil valid mask marks every cell present.
func NewNumeric(name string, vals []float64, valid []bool) *Column {
	return &Column{Name: name, Kind: Numeric, Nums: vals, Valid: fillMask(valid, len(vals))}
}

// NewCategorical builds a categorical column.
func NewCategorical(name string, vals []string, valid []bool) *Column {
	return &Column{Name: name, Kind: Categorical, Strs: vals, Valid: fillMask(valid, len(vals))}
}

// NewText builds a plain string column that has not been declared categorical.
func NewText(name string, vals []string, valid []bool) *Column {
	return &Column{Name: name, Kind: Text, Strs: vals, Valid: fillMask(valid, len(vals))}
}

// NewBoolean builds a boolean column.
func NewBoolean(name string, vals []bool, valid []bool) *Column {
	return &Column{Name: name, Kind: Boolean, Bools: vals, Valid: fillMask(valid, len(vals))}
}

func fillMask(valid []bool, n int) []bool {
	if valid != nil {
		return valid
	}
	m := make([]bool, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Valid) }

// IsMissing reports whether cell i has no value.
func (c *Column) IsMissing(i int) bool { return !c.Valid[i] }

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, ok := range c.Valid {
		if !ok {
			n++
		}
	}
	return n
}

// Floats returns the present values of a numeric or boolean column as float64
// (true == 1). String columns return nil.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Valid))
	switch c.Kind {
	case Numeric:
		for i, ok := range c.Valid {
			if ok {
				out = append(out, c.Nums[i])
			}
		}
	case Boolean:
		for i, ok := range c.Valid {
			if ok {
				out = append(out, boolFloat(c.Bools[i]))
			}
		}
	default:
		return nil
	}
	return out
}

// Float returns cell i as a float for numeric and boolean columns.
func (c *Column) Float(i int) (float64, bool) {
	if !c.Valid[i] {
		return 0, false
	}
	switch c.Kind {
	case Numeric:
		return c.Nums[i], true
	case Boolean:
		return boolFloat(c.Bools[i]), true
	}
	return 0, false
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Format renders cell i the way it is written to CSV. Missing cells are "".
func (c *Column) Format(i int) string {
	if !c.Valid[i] {
		return ""
	}
	switch c.Kind {
	case Numeric:
		return FormatFloat(c.Nums[i])
	case Boolean:
		return FormatBool(c.Bools[i])
	default:
		return c.Strs[i]
	}
}

// FormatFloat renders v in shortest round-trip decimal form.
func FormatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatBool renders b as True/False.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// Set assigns a value to cell i from its formatted representation and marks it present.
func (c *Column) Set(i int, v string) error {
	switch c.Kind {
	case Numeric:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		c.Nums[i] = f
	case Boolean:
		b, ok := ParseBool(v)
		if !ok {
			return strconv.ErrSyntax
		}
		c.Bools[i] = b
	default:
		c.Strs[i] = v
	}
	c.Valid[i] = true
	return nil
}

// toCategorical re-tags the column as categorical, converting stored values to strings.
func (c *Column) toCategorical() {
	switch c.Kind {
	case Categorical:
		return
	case Text:
		c.Kind = Categorical
		return
	}
	strs := make([]string, c.Len())
	for i := range strs {
		strs[i] = c.Format(i)
	}
	c.Kind = Categorical
	c.Strs = strs
	c.Nums = nil
	c.Bools = nil
}

func (c *Column) filter(keep []bool, n int) {
	valid := make([]bool, 0, n)
	switch c.Kind {
	case Numeric:
		nums := make([]float64, 0, n)
		for i, k := range keep {
			if k {
				nums = append(nums, c.Nums[i])
				valid = append(valid, c.Valid[i])
			}
		}
		c.Nums = nums
	case Boolean:
		bools := make([]bool, 0, n)
		for i, k := range keep {
			if k {
				bools = append(bools, c.Bools[i])
				valid = append(valid, c.Valid[i])
			}
		}
		c.Bools = bools
	default:
		strs := make([]string, 0, n)
		for i, k := range keep {
			if k {
				strs = append(strs, c.Strs[i])
				valid = append(valid, c.Valid[i])
			}
		}
		c.Strs = strs
	}
	c.Valid = valid
}

func (c *Column) clone() *Column {
	cp := &Column{Name: c.Name, Kind: c.Kind, Valid: append([]bool(nil), c.Valid...)}
	if c.Nums != nil {
		cp.Nums = append([]float64(nil), c.Nums...)
	}
	if c.Strs != nil {
		cp.Strs = append([]string(nil), c.Strs...)
	}
	if c.Bools != nil {
		cp.Bools = append([]bool(nil), c.Bools...)
	}
	return cp
}

// ParseBool accepts true/false in any letter case.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
