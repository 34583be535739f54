// Package manifest records what a cleaning run did as a YAML document next to
// the cleaned output.
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/sessionlens-cli/internal/analysis"
	"github.com/KaramelBytes/sessionlens-cli/internal/clean"
	"github.com/KaramelBytes/sessionlens-cli/internal/utils"
)

// Settings are the pipeline options in effect for the run.
type Settings struct {
	Categorical   []string `yaml:"categorical"`
	SkewThreshold float64  `yaml:"skew_threshold"`
	CorrThreshold float64  `yaml:"corr_threshold"`
	OutlierMethod string   `yaml:"outlier_method"`
}

// Missing is one column's missing-cell count before and after imputation.
type Missing struct {
	Column string `yaml:"column"`
	Before int    `yaml:"before"`
	After  int    `yaml:"after"`
}

// Manifest describes one cleaning run.
type Manifest struct {
	RunID      string    `yaml:"run_id"`
	Input      string    `yaml:"input"`
	Output     string    `yaml:"output,omitempty"`
	SQLite     string    `yaml:"sqlite,omitempty"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`
	Settings   Settings  `yaml:"settings"`

	RowsOut int       `yaml:"rows_out"`
	Columns []string  `yaml:"columns"`
	Missing []Missing `yaml:"missing"`

	Impute  clean.ImputeReport `yaml:"impute"`
	Trim    clean.TrimReport   `yaml:"trim"`
	Skew    clean.SkewReport   `yaml:"skew"`
	Dropped []string           `yaml:"dropped"`
}

// New starts a manifest for input with a fresh run id.
func New(input string, opt clean.Options) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		Input:     input,
		StartedAt: time.Now().UTC(),
		Settings: Settings{
			Categorical:   opt.Categorical,
			SkewThreshold: opt.SkewThreshold,
			CorrThreshold: opt.CorrThreshold,
			OutlierMethod: opt.OutlierMethod,
		},
	}
}

// Record copies the stage reports of a finished run.
func (m *Manifest) Record(res *clean.RunResult) {
	m.FinishedAt = time.Now().UTC()
	m.RowsOut = res.Rows
	m.Columns = res.Columns
	m.Missing = pairMissing(res.MissingBefore, res.MissingAfter)
	m.Impute = res.Impute
	m.Trim = res.Trim
	m.Skew = res.Skew
	m.Dropped = res.Dropped
}

func pairMissing(before, after []analysis.MissingCount) []Missing {
	afterBy := make(map[string]int, len(after))
	for _, a := range after {
		afterBy[a.Column] = a.Missing
	}
	out := make([]Missing, 0, len(before))
	for _, b := range before {
		out = append(out, Missing{Column: b.Column, Before: b.Missing, After: afterBy[b.Column]})
	}
	return out
}

// PathFor derives the manifest path from the cleaned output path.
func PathFor(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".manifest.yaml"
}

// Save writes the manifest using atomic write.
func (m *Manifest) Save(path string) error {
	if m.FinishedAt.IsZero() {
		m.FinishedAt = time.Now().UTC()
	}
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return utils.SafeWriteFile(path, b)
}

// Load reads a manifest written by Save.
func Load(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
