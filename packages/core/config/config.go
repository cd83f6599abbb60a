package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the apirunner project configuration. Paths are relative to
// the project root unless absolute.
type Config struct {
	APIDir    string         `json:"apiDir,omitempty"`
	SuiteDir  string         `json:"suiteDir,omitempty"`
	EnvFile   string         `json:"envFile,omitempty"`
	EnvPrefix string         `json:"envPrefix,omitempty"` // system env harvested as bindings
	Variables map[string]any `json:"variables,omitempty"` // project-wide bound variables
	Verbose   *bool          `json:"verbose,omitempty"`
	NoColor   *bool          `json:"noColor,omitempty"`
}

// ConfigFilenames contains the config file names searched in order.
var ConfigFilenames = []string{
	".apirunner.json",
	"apirunner.config.json",
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		APIDir:   filepath.Join("tests", "api"),
		SuiteDir: filepath.Join("tests", "suite"),
	}
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetVerbose returns the verbose setting, defaulting to false.
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false.
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ResolveDir anchors dir at root unless dir is absolute.
func ResolveDir(root, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// LoadConfig loads configuration from the specified path, or searches the
// project root for known config file names when path is empty.
func LoadConfig(root, path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(root)
}

// FindAndLoadConfig searches for a config file in the given directory and
// falls back to defaults when none exists.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge merges another config into this one, with other taking
// precedence.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.APIDir != "" {
		result.APIDir = other.APIDir
	}
	if other.SuiteDir != "" {
		result.SuiteDir = other.SuiteDir
	}
	if other.EnvFile != "" {
		result.EnvFile = other.EnvFile
	}
	if other.EnvPrefix != "" {
		result.EnvPrefix = other.EnvPrefix
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if len(other.Variables) > 0 {
		merged := make(map[string]any, len(c.Variables)+len(other.Variables))
		for k, v := range c.Variables {
			merged[k] = v
		}
		for k, v := range other.Variables {
			merged[k] = v
		}
		result.Variables = merged
	}

	return &result
}
