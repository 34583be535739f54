package manifest_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/KaramelBytes/sessionlens-cli/internal/clean"
	"github.com/KaramelBytes/sessionlens-cli/internal/manifest"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

func TestManifestRecordsRun(t *testing.T) {
	tbl := table.New()
	if err := tbl.AddColumn(table.NewText("region", []string{"A", "A", "B"}, nil)); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddColumn(table.NewNumeric("revenue", []float64{10, 0, 1000000}, []bool{true, false, true})); err != nil {
		t.Fatal(err)
	}
	opt := clean.DefaultOptions()
	opt.Categorical = []string{"region"}
	res, err := clean.NewPipeline(opt, nil).Run(context.Background(), tbl)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	m := manifest.New("customer_activity.csv", opt)
	if _, err := uuid.Parse(m.RunID); err != nil {
		t.Fatalf("run id %q: %v", m.RunID, err)
	}
	m.Output = filepath.Join(t.TempDir(), "cleaned.csv")
	m.Record(res)

	path := manifest.PathFor(m.Output)
	if filepath.Base(path) != "cleaned.manifest.yaml" {
		t.Fatalf("path = %s", path)
	}
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := manifest.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.RunID != m.RunID || got.RowsOut != 3 || got.Settings.CorrThreshold != 0.9 {
		t.Fatalf("loaded = %+v", got)
	}
	if len(got.Missing) != 2 || got.Missing[1].Column != "revenue" || got.Missing[1].Before != 1 || got.Missing[1].After != 0 {
		t.Fatalf("missing = %+v", got.Missing)
	}
	if len(got.Impute.Fills) != 1 || got.Impute.Fills[0].Value != "500005" {
		t.Fatalf("impute = %+v", got.Impute)
	}
	if len(got.Trim.Columns) != 1 || got.Trim.Columns[0].Lo != -499985 {
		t.Fatalf("trim = %+v", got.Trim)
	}
	if got.FinishedAt.Before(got.StartedAt) {
		t.Fatal("finished before started")
	}
}

func TestLoadMissingManifest(t *testing.T) {
	if _, err := manifest.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error")
	}
}
