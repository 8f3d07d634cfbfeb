package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Paths   PathsConfig   `yaml:"paths"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	Output      string `yaml:"output"`
	FilePath    string `yaml:"file_path"`
	Development bool   `yaml:"development"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir"`
	ReportsDir string `yaml:"reports_dir"`
	LogsDir    string `yaml:"logs_dir"`
}

// Load loads configuration from an optional YAML file. Missing file means
// defaults; a present but malformed file is an error, never a silent
// fallback. No environment variables are consulted.
func Load() (*Config, error) {
	configFile := getConfigFilePath()
	if configFile == "" {
		cfg := Default()
		return cfg, nil
	}
	return LoadFromFile(configFile)
}

// LoadFromFile loads configuration from a specific YAML file
func LoadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize fills in blanks left by a sparse config file
func (c *Config) normalize() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/surveycli.log"
	}
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = "data"
	}
	if c.Paths.ReportsDir == "" {
		c.Paths.ReportsDir = "reports"
	}
	if c.Paths.LogsDir == "" {
		c.Paths.LogsDir = "logs"
	}
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"surveycli.yaml",
		"configs/surveycli.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use defaults
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			Output:      "console",
			FilePath:    "logs/surveycli.log",
			Development: false,
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ReportsDir: "reports",
			LogsDir:    "logs",
		},
	}
}
