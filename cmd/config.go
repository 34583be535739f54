package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sessionlens-cli/internal/clean"
	cfgpkg "github.com/KaramelBytes/sessionlens-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set SessionLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "rds_host: %s\n", cfg.RDSHost)
		fmt.Fprintf(w, "rds_port: %d\n", cfg.RDSPort)
		fmt.Fprintf(w, "rds_database: %s\n", cfg.RDSDatabase)
		fmt.Fprintf(w, "rds_user: %s\n", cfg.RDSUser)
		fmt.Fprintf(w, "rds_password: %s\n", mask(cfg.RDSPassword))
		fmt.Fprintf(w, "source_table: %s\n", cfg.SourceTable)
		fmt.Fprintf(w, "categorical_columns: %s\n", strings.Join(cfg.CategoricalColumns, ","))
		fmt.Fprintf(w, "skew_threshold: %.3f\n", cfg.SkewThreshold)
		fmt.Fprintf(w, "corr_threshold: %.3f\n", cfg.CorrThreshold)
		fmt.Fprintf(w, "outlier_method: %s\n", cfg.OutlierMethod)
		fmt.Fprintf(w, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(w, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := strings.ToLower(args[0]), args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile, credFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "rds_host":
			cfg.RDSHost = val
		case "rds_port":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 || i > 65535 {
				return fmt.Errorf("invalid port for rds_port: %v", val)
			}
			cfg.RDSPort = i
		case "rds_database":
			cfg.RDSDatabase = val
		case "rds_user":
			cfg.RDSUser = val
		case "rds_password":
			cfg.RDSPassword = val
		case "source_table":
			cfg.SourceTable = val
		case "categorical_columns":
			var cols []string
			for _, c := range strings.Split(val, ",") {
				if c = strings.TrimSpace(c); c != "" {
					cols = append(cols, c)
				}
			}
			cfg.CategoricalColumns = cols
		case "skew_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid float for skew_threshold: %v", val)
			}
			cfg.SkewThreshold = f
		case "corr_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid float for corr_threshold: %v (want 0..1)", val)
			}
			cfg.CorrThreshold = f
		case "outlier_method":
			if !strings.EqualFold(val, clean.MethodIQR) {
				return fmt.Errorf("invalid outlier_method: %s (use IQR)", val)
			}
			cfg.OutlierMethod = clean.MethodIQR
		case "log_level":
			switch strings.ToLower(val) {
			case "debug", "info", "warn", "warning", "error":
				cfg.LogLevel = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
		case "log_format":
			switch strings.ToLower(val) {
			case "text", "json":
				cfg.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
