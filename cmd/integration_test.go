package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/sessionlens-cli/internal/manifest"
)

// resetFlags restores every flag to its default so state doesn't leak between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd is a helper to execute the root command with args and capture stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func execCmd(args ...string) (string, error) {
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestCLI_CleanWritesCSVManifestAndSQLite(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "sessions.csv")
	if err := os.WriteFile(in, []byte("region,revenue\nA,10\nA,\nB,1000000\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	out := filepath.Join(home, "clean.csv")
	db := filepath.Join(home, "clean.db")

	stdout := runCmd(t, "clean", in, "-o", out, "--categorical", "region", "--manifest", "--sqlite", db)

	for _, want := range []string{"[MISSING VALUES]", "| revenue | 1 | 0 |", "Outliers: 3 -> 3 rows (IQR)", "Dropped correlated columns: none"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("stdout missing %q:\n%s", want, stdout)
		}
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if got, want := string(b), "region,revenue\nA,10\nA,500005\nB,1000000\n"; got != want {
		t.Fatalf("cleaned csv = %q, want %q", got, want)
	}
	m, err := manifest.Load(manifest.PathFor(out))
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if m.RunID == "" || m.RowsOut != 3 || m.SQLite != db || m.Input != in {
		t.Fatalf("manifest = %+v", m)
	}
	if _, err := os.Stat(db); err != nil {
		t.Fatalf("sqlite output missing: %v", err)
	}
}

func TestCLI_CleanDefaultOutputName(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "data.csv")
	if err := os.WriteFile(in, []byte("region,revenue\nA,1\nB,2\nA,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	runCmd(t, "clean", in, "--categorical", "region")
	if _, err := os.Stat(filepath.Join(home, "data_clean.csv")); err != nil {
		t.Fatalf("default output not written: %v", err)
	}
}

func TestCLI_CleanRequiresInput(t *testing.T) {
	isolateHome(t)
	if _, err := execCmd("clean"); err == nil || !strings.Contains(err.Error(), "input file or --from-db") {
		t.Fatalf("expected missing input error, got %v", err)
	}
}

func TestCLI_CleanUnknownCategoricalColumnFails(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "x.csv")
	if err := os.WriteFile(in, []byte("a\n1\n2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execCmd("clean", in); err == nil {
		t.Fatal("expected error for default categorical columns missing from input")
	}
}

func TestCLI_ProfileAndReport(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "cleaned.csv")
	csv := "region,traffic_type,weekend,month,visitor_type,revenue,bounce_rates,administrative_duration,informational_duration,product_related_duration,operating_systems,browser\n" +
		"Europe,Google ads,True,Feb,Returning_Visitor,True,0.1,10,0,90,Windows,Chrome\n" +
		"Asia,Facebook ads,False,Nov,New_Visitor,False,0.3,20,5,60,Android,Safari\n"
	if err := os.WriteFile(in, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	prof := filepath.Join(home, "profile.md")
	runCmd(t, "profile", in, "-o", prof, "--sample-rows", "1")
	b, err := os.ReadFile(prof)
	if err != nil {
		t.Fatalf("read profile: %v", err)
	}
	if !strings.Contains(string(b), "[SCHEMA]") || !strings.Contains(string(b), "Rows: 2") {
		t.Fatalf("profile content:\n%s", b)
	}

	out := runCmd(t, "report", "all", in)
	for _, want := range []string{"[WEEKEND SALES]", "[CONVERSION RATE BY VISITOR_TYPE]", "[AD CAMPAIGN SALES BY MONTH]", "[BROWSERS BY OS CATEGORY]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if _, err := execCmd("report", "weather", in); err == nil {
		t.Fatal("expected error for unknown report")
	}
}

func TestCLI_ConfigSetAndShowMasksPassword(t *testing.T) {
	home := isolateHome(t)
	cfgPath := filepath.Join(home, "cfg.yaml")
	runCmd(t, "--config", cfgPath, "config", "set", "rds_password", "supersecret")
	runCmd(t, "--config", cfgPath, "config", "set", "corr_threshold", "0.8")
	if _, err := execCmd("--config", cfgPath, "config", "set", "corr_threshold", "2"); err == nil {
		t.Fatal("expected error for out-of-range corr_threshold")
	}
	out := runCmd(t, "--config", cfgPath, "config", "show")
	if !strings.Contains(out, "rds_password: sup****ret") || strings.Contains(out, "supersecret") {
		t.Fatalf("password not masked:\n%s", out)
	}
	if !strings.Contains(out, "corr_threshold: 0.800") {
		t.Fatalf("corr_threshold not saved:\n%s", out)
	}
}

func TestCLI_ExtractRequiresCredentials(t *testing.T) {
	isolateHome(t)
	if _, err := execCmd("extract", "-o", filepath.Join(t.TempDir(), "x.csv")); err == nil || !strings.Contains(err.Error(), "host is required") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}
