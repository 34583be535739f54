package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sessionlens-cli/internal/analysis"
	"github.com/KaramelBytes/sessionlens-cli/internal/clean"
	"github.com/KaramelBytes/sessionlens-cli/internal/loader"
	"github.com/KaramelBytes/sessionlens-cli/internal/logging"
	"github.com/KaramelBytes/sessionlens-cli/internal/manifest"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

var (
	clnOutput      string
	clnFromDB      bool
	clnTable       string
	clnDSN         string
	clnCorrThr     float64
	clnSkewThr     float64
	clnOutlier     string
	clnCategorical []string
	clnManifest    bool
	clnSQLite      string
	clnSQLiteTable string
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Run the cleaning pipeline and write the cleaned table",
	Long: `Clean coerces categorical columns, imputes missing values, trims IQR outliers,
corrects skewed columns with Box-Cox or Yeo-Johnson and drops highly correlated
columns. The input is a CSV/TSV/XLSX file, or the source table with --from-db.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := settings()

		var (
			t     *table.Table
			input string
			err   error
		)
		switch {
		case clnFromDB:
			if len(args) > 0 {
				return fmt.Errorf("--from-db does not take an input file")
			}
			input = clnTable
			if input == "" {
				input = c.SourceTable
			}
			t, err = fetchTable(ctx, clnDSN, input)
		case len(args) == 1:
			input = args[0]
			t, err = loadInput(input)
		default:
			return fmt.Errorf("an input file or --from-db is required")
		}
		if err != nil {
			return err
		}

		opt := clean.Options{
			Categorical:   c.CategoricalColumns,
			SkewThreshold: c.SkewThreshold,
			CorrThreshold: c.CorrThreshold,
			OutlierMethod: c.OutlierMethod,
		}
		f := cmd.Flags()
		if f.Changed("categorical") {
			opt.Categorical = clnCategorical
		}
		if f.Changed("skew-threshold") {
			opt.SkewThreshold = clnSkewThr
		}
		if f.Changed("corr-threshold") {
			opt.CorrThreshold = clnCorrThr
		}
		if f.Changed("outlier-method") {
			opt.OutlierMethod = clnOutlier
		}

		out := clnOutput
		if out == "" {
			out = defaultCleanOutput(input)
		}
		m := manifest.New(input, opt)
		m.Output = out
		ctx = logging.WithRunID(ctx, m.RunID)
		runLog := logging.FromContext(ctx, logger)

		res, err := clean.NewPipeline(opt, runLog).Run(ctx, t)
		if err != nil {
			return err
		}
		if err := loader.WriteCSV(out, t); err != nil {
			return err
		}
		if clnSQLite != "" {
			name := clnSQLiteTable
			if name == "" {
				name = "cleaned"
			}
			if err := loader.WriteSQLite(ctx, clnSQLite, name, t); err != nil {
				return err
			}
			m.SQLite = clnSQLite
			runLog.WithField("path", clnSQLite).Info("wrote sqlite table")
		}

		w := cmd.OutOrStdout()
		fmt.Fprint(w, analysis.CompareMissing(res.MissingBefore, res.MissingAfter))
		fmt.Fprintf(w, "Outliers: %d -> %d rows (%s)\n", res.Trim.RowsBefore, res.Trim.RowsAfter, res.Trim.Method)
		for _, s := range res.Skew.Results {
			if s.Transform == clean.TransformNone {
				fmt.Fprintf(w, "Skew: %s left unchanged (%s)\n", s.Column, s.Error)
				continue
			}
			fmt.Fprintf(w, "Skew: %s %s lambda=%.4f skew %.3f -> %.3f\n", s.Column, s.Transform, s.Lambda, s.Before, s.After)
		}
		if len(res.Dropped) > 0 {
			fmt.Fprintf(w, "Dropped correlated columns: %s\n", strings.Join(res.Dropped, ", "))
		} else {
			fmt.Fprintln(w, "Dropped correlated columns: none")
		}

		if clnManifest {
			m.Record(res)
			mp := manifest.PathFor(out)
			if err := m.Save(mp); err != nil {
				return err
			}
			fmt.Fprintf(w, "✓ Wrote manifest to %s\n", mp)
		}
		fmt.Fprintf(w, "✓ Wrote cleaned table to %s (%d rows, %d columns)\n", out, res.Rows, len(res.Columns))
		return nil
	},
}

// defaultCleanOutput derives <name>_clean.csv next to the input, or in the
// working directory for database tables.
func defaultCleanOutput(input string) string {
	if clnFromDB {
		return input + "_clean.csv"
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_clean.csv"
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&clnOutput, "output", "o", "", "cleaned CSV path (default <input>_clean.csv)")
	cleanCmd.Flags().BoolVar(&clnFromDB, "from-db", false, "read the source table from the database instead of a file")
	cleanCmd.Flags().StringVarP(&clnTable, "table", "t", "", "source table for --from-db (default from config)")
	cleanCmd.Flags().StringVar(&clnDSN, "dsn", "", "database URL for --from-db (default: RDS credentials)")
	cleanCmd.Flags().Float64Var(&clnCorrThr, "corr-threshold", 0.9, "drop the later column of pairs with |r| above this")
	cleanCmd.Flags().Float64Var(&clnSkewThr, "skew-threshold", 0.5, "correct columns with |skewness| above this")
	cleanCmd.Flags().StringVar(&clnOutlier, "outlier-method", clean.MethodIQR, "outlier method (IQR)")
	cleanCmd.Flags().StringSliceVar(&clnCategorical, "categorical", nil, "columns to treat as categorical (default from config)")
	cleanCmd.Flags().BoolVar(&clnManifest, "manifest", false, "write a YAML run manifest next to the output")
	cleanCmd.Flags().StringVar(&clnSQLite, "sqlite", "", "also write the cleaned table into this SQLite database")
	cleanCmd.Flags().StringVar(&clnSQLiteTable, "sqlite-table", "cleaned", "table name for --sqlite")
	addInputFlags(cleanCmd)
}
