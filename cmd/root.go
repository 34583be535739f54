package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sessionlens-cli/internal/clean"
	cfgpkg "github.com/KaramelBytes/sessionlens-cli/internal/config"
	"github.com/KaramelBytes/sessionlens-cli/internal/logging"
)

var (
	// Global flags
	cfgFile   string
	credFile  string
	debug     bool
	logLevel  string
	logFormat string

	// Loaded configuration; nil when loading failed.
	cfg    *cfgpkg.Global
	cfgErr error

	logger = logging.Setup(os.Stderr, "info", "text")
)

var rootCmd = &cobra.Command{
	Use:   "sessionlens",
	Short: "SessionLens CLI: clean and report on e-commerce session data",
	Long: `SessionLens extracts the customer activity table from a database or file, cleans it
(imputation, outlier trimming, skew correction, correlation pruning) and produces
profiles and business reports from the cleaned data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.sessionlens/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&credFile, "credentials", "", "database credentials yaml (default ./credentials.yaml when present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides config)")
}

func loadConfig() {
	// .env only seeds the environment; a missing file is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load .env: %v\n", err)
	}
	c, err := cfgpkg.Load(cfgFile, credFile)
	cfg, cfgErr = c, err

	level, format := "info", "text"
	if c != nil {
		level, format = c.LogLevel, c.LogFormat
	}
	f := rootCmd.PersistentFlags()
	if f.Changed("log-level") {
		level = logLevel
	}
	if f.Changed("log-format") {
		format = logFormat
	}
	if debug {
		level = "debug"
	}
	logger = logging.Setup(os.Stderr, level, format)
	if err != nil {
		// Non-fatal: commands that don't need config still run on defaults.
		logger.WithError(err).Warn("failed to load config")
	}
}

// settings returns the loaded config, or built-in defaults when loading failed.
func settings() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		RDSPort:            5432,
		SourceTable:        "customer_activity",
		CategoricalColumns: append([]string(nil), clean.DefaultCategorical...),
		SkewThreshold:      0.5,
		CorrThreshold:      0.9,
		OutlierMethod:      clean.MethodIQR,
	}
}
