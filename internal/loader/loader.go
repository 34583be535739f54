// Package loader reads session tables from CSV, TSV and XLSX files and writes
// cleaned tables back out as CSV or SQLite.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// ErrUnsupported indicates a file format no registered loader handles.
var ErrUnsupported = errors.New("unsupported table format")

// Options tunes how a file is read.
type Options struct {
	// Delimiter for CSV. If 0, '\t' for .tsv and ',' otherwise.
	Delimiter rune
	// Sheet selects an XLSX worksheet by name (case-insensitive).
	Sheet string
	// SheetIndex selects an XLSX worksheet by 1-based index when Sheet is empty.
	SheetIndex int
}

// Loader turns a file into a header and string records.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt Options) (header []string, records [][]string, err error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

// LoadFile selects a loader by filename and builds a typed table. Any read or
// schema error is returned without a partial table.
func LoadFile(path string, opt Options) (*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		header, records, err := l.Load(path, opt)
		if err != nil {
			return nil, err
		}
		if len(header) == 0 {
			return nil, fmt.Errorf("%s: no header row", filepath.Base(path))
		}
		t, err := table.FromRecords(header, records)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}
