package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/sessionlens-cli/internal/utils"
)

// DefaultCredentialsFile is merged from the working directory when present.
const DefaultCredentialsFile = "credentials.yaml"

// Global configuration structure.
type Global struct {
	// Database connection (RDS_* keys in credentials.yaml)
	RDSHost     string `mapstructure:"rds_host" yaml:"rds_host"`
	RDSPort     int    `mapstructure:"rds_port" yaml:"rds_port"`
	RDSDatabase string `mapstructure:"rds_database" yaml:"rds_database"`
	RDSUser     string `mapstructure:"rds_user" yaml:"rds_user"`
	RDSPassword string `mapstructure:"rds_password" yaml:"rds_password"`
	SourceTable string `mapstructure:"source_table" yaml:"source_table"`

	// Cleaning
	CategoricalColumns []string `mapstructure:"categorical_columns" yaml:"categorical_columns"`
	SkewThreshold      float64  `mapstructure:"skew_threshold" yaml:"skew_threshold"`
	CorrThreshold      float64  `mapstructure:"corr_threshold" yaml:"corr_threshold"`
	OutlierMethod      string   `mapstructure:"outlier_method" yaml:"outlier_method"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Dir returns ~/.sessionlens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".sessionlens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.sessionlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from defaults, the config file, the credentials
// file and SESSIONLENS_* environment variables.
// Precedence: env > credentials file > config file > defaults.
// An explicitly named credentials file must exist; the default one is optional.
func Load(cfgFile, credFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SESSIONLENS")
	v.AutomaticEnv()

	v.SetDefault("rds_host", "")
	v.SetDefault("rds_port", 5432)
	v.SetDefault("rds_database", "")
	v.SetDefault("rds_user", "")
	v.SetDefault("rds_password", "")
	v.SetDefault("source_table", "customer_activity")
	v.SetDefault("categorical_columns", []string{"month", "operating_systems", "browser", "region", "traffic_type", "visitor_type"})
	v.SetDefault("skew_threshold", 0.5)
	v.SetDefault("corr_threshold", 0.9)
	v.SetDefault("outlier_method", "IQR")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetConfigType("yaml")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
	}
	// A missing config file is fine; a malformed one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	explicit := credFile != ""
	if !explicit {
		credFile = DefaultCredentialsFile
	}
	if _, err := os.Stat(credFile); err == nil {
		v.SetConfigFile(credFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
	} else if explicit {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
