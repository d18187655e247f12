package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration file
type Config struct {
	Automation Automation `yaml:"automation,omitempty"`
	Collection Collection `yaml:"collection,omitempty"`
	Mirror     Mirror     `yaml:"mirror,omitempty"`
}

// Automation describes where finished reports are published
type Automation struct {
	Project      string `yaml:"project,omitempty"`       // Automation project, used as quota project
	Bucket       string `yaml:"bucket,omitempty"`        // Cloud Storage bucket receiving reports
	ReportPrefix string `yaml:"report_prefix,omitempty"` // Object prefix, default gcp-cost-analysis
}

// Collection tunes project admission and concurrency
type Collection struct {
	RequiredAPI         string   `yaml:"required_api,omitempty"`
	RequiredPermissions []string `yaml:"required_permissions,omitempty"`
	MaxConcurrency      int      `yaml:"max_concurrency,omitempty"`
}

// Mirror is an optional S3 copy of every uploaded report
type Mirror struct {
	S3Bucket   string `yaml:"s3_bucket,omitempty"`
	AWSProfile string `yaml:"aws_profile,omitempty"`
	AWSRegion  string `yaml:"aws_region,omitempty"`
}

// GetConfigDir returns the config directory path
// ($XDG_CONFIG_HOME/bucketscope, falling back to ~/.config/bucketscope)
func GetConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bucketscope")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bucketscope"
	}
	return filepath.Join(home, ".config", "bucketscope")
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// LoadConfig loads the configuration from path, or the default path when
// path is empty. A missing file yields an empty config.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to path, or the default path when
// path is empty.
func SaveConfig(path string, cfg *Config) error {
	if path == "" {
		path = GetConfigPath()
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
