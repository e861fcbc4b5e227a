package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	yaml "gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Cleaning CleaningConfig `yaml:"cleaning" envconfig:"CLEANING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains the data directory layout. AcceptedDir, RejectedDir
// and ReportsDir are resolved relative to DataDir when not absolute.
type PathsConfig struct {
	DataDir     string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	AcceptedDir string `yaml:"accepted_dir" envconfig:"ACCEPTED_DIR"`
	RejectedDir string `yaml:"rejected_dir" envconfig:"REJECTED_DIR"`
	ReportsDir  string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir     string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// CleaningConfig enumerates the recognized cleaning options applied
// before any aggregation
type CleaningConfig struct {
	DropIncomplete bool `yaml:"drop_incomplete" envconfig:"DROP_INCOMPLETE"`
	CoerceTypes    bool `yaml:"coerce_types" envconfig:"COERCE_TYPES"`
	RestrictStatus bool `yaml:"restrict_status" envconfig:"RESTRICT_STATUS"`
}

// envPrefix is the prefix for all environment variable overrides
const envPrefix = "LOANLENS"

// defaultConfigFile is looked up in the working directory
const defaultConfigFile = "loanlens.yml"

// defaultConfig returns the baseline configuration before file and
// environment overrides are applied
func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "loanlens.log",
		},
		Paths: PathsConfig{
			DataDir:     "data",
			AcceptedDir: "accepted",
			RejectedDir: "rejected",
			ReportsDir:  "reports",
			LogsDir:     "logs",
		},
		Cleaning: CleaningConfig{
			DropIncomplete: true,
			CoerceTypes:    true,
			RestrictStatus: true,
		},
	}
}

// Load loads configuration from the optional YAML file, then applies
// environment variable overrides and validates the result.
func Load() (*Config, error) {
	return LoadFrom(defaultConfigFile)
}

// LoadFrom loads configuration from the given YAML file path. A missing
// file is not an error; defaults and environment variables still apply.
// Precedence: defaults < file < environment.
func LoadFrom(configFile string) (*Config, error) {
	cfg := defaultConfig()

	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.resolvePaths()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// resolvePaths joins relative subdirectories onto DataDir
func (c *Config) resolvePaths() {
	if !filepath.IsAbs(c.Paths.AcceptedDir) {
		c.Paths.AcceptedDir = filepath.Join(c.Paths.DataDir, c.Paths.AcceptedDir)
	}
	if !filepath.IsAbs(c.Paths.RejectedDir) {
		c.Paths.RejectedDir = filepath.Join(c.Paths.DataDir, c.Paths.RejectedDir)
	}
	if !filepath.IsAbs(c.Paths.ReportsDir) {
		c.Paths.ReportsDir = filepath.Join(c.Paths.DataDir, c.Paths.ReportsDir)
	}
	if c.Logging.FilePath != "" && !filepath.IsAbs(c.Logging.FilePath) {
		c.Logging.FilePath = filepath.Join(c.Paths.LogsDir, filepath.Base(c.Logging.FilePath))
	}
}

// validate runs struct-level validation on the merged configuration
func (c *Config) validate() error {
	return validator.New().Struct(c)
}

// GetReportPath returns the path of a report artifact under ReportsDir
func (c *Config) GetReportPath(name string) string {
	return filepath.Join(c.Paths.ReportsDir, name)
}

// EnsureDirectories creates the reports and logs directories if missing.
// The data directories are inputs and are never created here.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ReportsDir, c.Paths.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
