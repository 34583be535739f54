package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sessionlens-cli/internal/report"
)

var rptOutput string

var reportCmd = &cobra.Command{
	Use:       "report <kind> <file>",
	Short:     "Answer business questions from a cleaned session table",
	Long:      fmt.Sprintf("Report renders one of the business reports (%s) or all of them.", strings.Join(report.Kinds, ", ")),
	Args:      cobra.ExactArgs(2),
	ValidArgs: append(append([]string(nil), report.Kinds...), "all"),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadInput(args[1])
		if err != nil {
			return err
		}
		r, err := report.Build(args[0], t)
		if err != nil {
			return err
		}
		return writeOrPrint(cmd, rptOutput, r.Markdown(), args[0]+" report")
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&rptOutput, "output", "o", "", "write the report to this file instead of stdout")
	addInputFlags(reportCmd)
}
