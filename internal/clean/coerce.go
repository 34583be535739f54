// Package clean implements the session-table cleaning stages: categorical
// coercion, imputation, outlier trimming, skew correction and correlation
// pruning, plus the Pipeline that runs them in order.
package clean

import (
	"errors"

	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// CoerceCategorical tags the named columns as categorical. Numeric and boolean
// values are converted to their formatted strings; missing cells stay missing.
func CoerceCategorical(t *table.Table, names []string) error {
	for _, n := range names {
		if err := t.SetCategorical(n); err != nil {
			if errors.Is(err, table.ErrColumnNotFound) {
				return &DataQualityError{Stage: "coerce", Column: n, Err: ErrUnknownColumn}
			}
			return &DataQualityError{Stage: "coerce", Column: n, Err: err}
		}
	}
	return nil
}
