package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			// Config file is optional, don't fail if it doesn't exist
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	// Override with environment variables
	loadFromEnv(cfg)

	return cfg, nil
}

// LoadFile loads configuration from an explicit path, then applies
// environment overrides. The file must exist.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadFromFile(cfg, path); err != nil {
		return nil, err
	}
	loadFromEnv(cfg)
	return cfg, nil
}

// getConfigPath returns the path to the config file.
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "webwright", "config.yaml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// macOS installs favor Application Support when it already exists
	if runtime.GOOS == "darwin" {
		appSupport := filepath.Join(homeDir, "Library", "Application Support", "webwright", "config.yaml")
		if _, err := os.Stat(appSupport); err == nil {
			return appSupport
		}
	}

	return filepath.Join(homeDir, ".config", "webwright", "config.yaml")
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Expand environment variables in the config file
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		cfg.API.GroqKey = key
	}
	// GEMINI_API_KEY takes precedence over the legacy GOOGLE_API_KEY name
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.API.GeminiKey = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		cfg.API.GeminiKey = key
	}

	if model := os.Getenv("WEBWRIGHT_MODEL"); model != "" {
		cfg.Model.Name = model
	}
	if root := os.Getenv("WEBWRIGHT_SANDBOX"); root != "" {
		cfg.Sandbox.Root = root
	}
}

// Validate checks configuration invariants that hold for every provider.
// Provider-specific key checks happen when the client is constructed.
func (c *Config) Validate() error {
	if c.Model.Name == "" {
		return fmt.Errorf("model name must not be empty")
	}
	if c.Build.Iterations < 1 {
		return fmt.Errorf("build iterations must be at least 1, got %d", c.Build.Iterations)
	}
	return nil
}

// ConfigError is a sentinel configuration error.
type ConfigError string

func (e ConfigError) Error() string {
	return string(e)
}

const (
	ErrMissingAuth ConfigError = "missing authentication: set GROQ_API_KEY or GEMINI_API_KEY"
)

// GetConfigPath returns the path to the config file (exported for external use).
func GetConfigPath() string {
	return getConfigPath()
}
