package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sessionlens-cli/internal/analysis"
	"github.com/KaramelBytes/sessionlens-cli/internal/utils"
)

var (
	prfOutput     string
	prfSampleRows int
	prfTopValues  int
	prfNoCorr     bool
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Summarize a table: schema, statistics, missing values and correlations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		t, err := loadInput(path)
		if err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		if prfSampleRows >= 0 {
			opt.SampleRows = prfSampleRows
		}
		if prfTopValues > 0 {
			opt.TopValues = prfTopValues
		}
		opt.Correlations = !prfNoCorr
		md := analysis.Profile(filepath.Base(path), t, opt).Markdown()
		return writeOrPrint(cmd, prfOutput, md, "profile")
	},
}

// writeOrPrint writes md to path when set, otherwise to stdout.
func writeOrPrint(cmd *cobra.Command, path, md, what string) error {
	if path == "" {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}
	if err := utils.SafeWriteFile(path, []byte(md)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s to %s\n", what, path)
	return nil
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&prfOutput, "output", "o", "", "write the profile to this file instead of stdout")
	profileCmd.Flags().IntVar(&prfSampleRows, "sample-rows", 5, "number of sample rows to include")
	profileCmd.Flags().IntVar(&prfTopValues, "top-values", 8, "categorical values listed per column")
	profileCmd.Flags().BoolVar(&prfNoCorr, "no-corr", false, "skip the correlation matrix")
	addInputFlags(profileCmd)
}
