package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for Quell.
type FileConfig struct {
	Include         *string `yaml:"include"`
	Exclude         *string `yaml:"exclude"`
	MaxBytes        *int64  `yaml:"max_bytes"`
	MaxFindings     *int    `yaml:"max_findings"`
	MaxSnippetChars *int    `yaml:"max_snippet_chars"`
	LogLevel        *string `yaml:"log_level"`
	NoColor         *bool   `yaml:"no_color"`
	CacheTTL        *int    `yaml:"cache_ttl"` // seconds

	// Suppression policy overrides.
	NeverSuppressFunctions []string           `yaml:"never_suppress_functions"`
	StrictMinThresholds    map[string]float64 `yaml:"strict_min_thresholds"`
	DefaultMinThreshold    *float64           `yaml:"default_min_threshold"`

	// Flawfinder integration config.
	Flawfinder *FlawfinderConfig `yaml:"flawfinder"`
}

// FlawfinderConfig holds configuration for the flawfinder analyzer.
type FlawfinderConfig struct {
	// BinaryPath is an explicit path to the flawfinder binary.
	// If empty, the binary is searched in $PATH.
	BinaryPath *string `yaml:"binary"`

	// Timeout bounds a single flawfinder invocation, in seconds.
	Timeout *int `yaml:"timeout"`

	// MinRisk drops findings below this flawfinder risk level (0-5).
	MinRisk *int `yaml:"min_risk"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
// It supports .quell.yml/.yaml and quell.yml/.yaml.
func LoadLocal(repoRoot string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".quell.yml", ".quell.yaml", "quell.yml", "quell.yaml"} {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "quell", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// GetFlawfinderConfig returns the flawfinder configuration with defaults
// applied for nil fields.
func (fc FileConfig) GetFlawfinderConfig() FlawfinderConfig {
	var cfg FlawfinderConfig
	if fc.Flawfinder != nil {
		cfg = *fc.Flawfinder
	}
	if cfg.Timeout == nil {
		timeout := 30
		cfg.Timeout = &timeout
	}
	if cfg.MinRisk == nil {
		minRisk := 1
		cfg.MinRisk = &minRisk
	}
	return cfg
}

// GetBinaryPath returns the custom binary path or empty string.
func (fc FlawfinderConfig) GetBinaryPath() string {
	if fc.BinaryPath == nil {
		return ""
	}
	return *fc.BinaryPath
}

// GetTimeout returns the invocation timeout in seconds (default 30).
func (fc FlawfinderConfig) GetTimeout() int {
	if fc.Timeout == nil {
		return 30
	}
	return *fc.Timeout
}

// GetMinRisk returns the minimum flawfinder risk level to keep (default 1).
func (fc FlawfinderConfig) GetMinRisk() int {
	if fc.MinRisk == nil {
		return 1
	}
	return *fc.MinRisk
}
