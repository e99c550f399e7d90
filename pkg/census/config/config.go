package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jamesainslie/census/pkg/census/logging"
)

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Path    string `mapstructure:"path"`
	Console bool   `mapstructure:"console"`
}

// Config represents the application configuration.
type Config struct {
	// Roots are the directory roots to scan, in order.
	Roots []string `mapstructure:"roots"`

	// Output is the dataset destination path; "-" writes to stdout.
	Output string `mapstructure:"output"`

	// Content controls whether the fileContent column is populated.
	Content bool `mapstructure:"content"`

	// MaxDepth is the traversal depth below each root.
	MaxDepth int `mapstructure:"max_depth"`

	// PreviewBytes bounds the per-file content preview.
	PreviewBytes int `mapstructure:"preview_bytes"`

	// Checksum names the digest algorithm (sha256, sha1, md5).
	Checksum string `mapstructure:"checksum"`

	// ImportOptions is an optional path for the importer-options
	// sidecar; empty disables it.
	ImportOptions string `mapstructure:"import_options"`

	Logging LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/census/config.yaml
//   - $HOME/.config/census/config.yaml
//
// Environment variables are prefixed with CENSUS_ (e.g. CENSUS_OUTPUT).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, DefaultConfigDirName))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", DefaultConfigDirName))

	v.SetEnvPrefix("CENSUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults registers the default values on a viper instance. The
// CLI shares this with Load so flag defaults and file defaults agree.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("content", DefaultContent)
	v.SetDefault("max_depth", DefaultMaxDepth)
	v.SetDefault("preview_bytes", DefaultPreviewBytes)
	v.SetDefault("checksum", DefaultChecksum)
	v.SetDefault("import_options", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", logging.DefaultLogPath())
	v.SetDefault("logging.console", true)
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, DefaultConfigDirName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", DefaultConfigDirName), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}
