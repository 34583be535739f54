package clean

import (
	"errors"
	"fmt"
)

var (
	// ErrAllMissing means a column has no present values to derive a fill from.
	ErrAllMissing = errors.New("column has no present values")
	// ErrUnknownColumn means a stage was pointed at a column the table lacks.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNotNumeric means a numeric stage was pointed at a non-numeric column.
	ErrNotNumeric = errors.New("column is not numeric")
	// ErrUnknownMethod means the outlier method is not supported.
	ErrUnknownMethod = errors.New("unknown outlier method")
)

// DataQualityError reports a fatal problem with one column in one stage.
type DataQualityError struct {
	Stage  string
	Column string
	Err    error
}

func (e *DataQualityError) Error() string {
	if e == nil {
		return "data quality error"
	}
	return fmt.Sprintf("%s: column %q: %v", e.Stage, e.Column, e.Err)
}

func (e *DataQualityError) Unwrap() error { return e.Err }
