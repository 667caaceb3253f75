package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how commands render their results.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// Config holds all configuration for gdf.
type Config struct {
	// OutputFormat is the default rendering of command results,
	// "text" or "json". The --json flag overrides it per run.
	OutputFormat OutputFormat `yaml:"output_format" env:"GDF_OUTPUT_FORMAT"`

	// LogLevel is the minimum level the logger emits
	// (debug, info, warn, error).
	LogLevel string `yaml:"log_level" env:"GDF_LOG_LEVEL"`

	// CacheDir is where analysis reports and file hashes are persisted.
	CacheDir string `yaml:"cache_dir" env:"GDF_CACHE_DIR"`

	// CacheEnabled turns the report cache on or off.
	CacheEnabled bool `yaml:"cache_enabled" env:"GDF_CACHE_ENABLED"`

	// CacheMaxEntries bounds the report cache before LRU eviction.
	CacheMaxEntries int `yaml:"cache_max_entries" env:"GDF_CACHE_MAX_ENTRIES"`

	// MaxSolverVisits caps worklist visits per solver pass.
	// Zero runs every analysis to its fixed point.
	MaxSolverVisits int `yaml:"max_solver_visits" env:"GDF_MAX_SOLVER_VISITS"`

	// Exclude lists extra directory names the project scanner skips,
	// on top of the built-in skip list.
	Exclude []string `yaml:"exclude" env:"GDF_EXCLUDE"`

	// Verbose switches the logger to debug level regardless of LogLevel.
	Verbose bool `yaml:"verbose" env:"GDF_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputFormat:    OutputText,
		LogLevel:        "info",
		CacheDir:        ".gdf/cache",
		CacheEnabled:    true,
		CacheMaxEntries: 512,
		MaxSolverVisits: 0,
		Exclude:         nil,
		Verbose:         false,
	}
}

// GlobalPath returns the global config file path (~/.gdf/config.yaml).
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gdf/config.yaml"
	}
	return filepath.Join(home, ".gdf", "config.yaml")
}

// ProjectPath returns the project-level config file path (./.gdf/config.yaml).
func ProjectPath() string {
	return ".gdf/config.yaml"
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables (GDF_*)
// 2. Project-level config (./.gdf/config.yaml)
// 3. Global config (~/.gdf/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	globalPath := GlobalPath()
	if data, err := os.ReadFile(globalPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", globalPath, err)
		}
	}

	projectPath := ProjectPath()
	if data, err := os.ReadFile(projectPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", projectPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path.
// Environment overrides still apply.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GDF_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}
	if v := os.Getenv("GDF_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GDF_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("GDF_CACHE_ENABLED"); v != "" {
		if b, ok := parseBool(v); ok {
			cfg.CacheEnabled = b
		}
	}
	if v := os.Getenv("GDF_CACHE_MAX_ENTRIES"); v != "" {
		if i := parseInt(v); i > 0 {
			cfg.CacheMaxEntries = i
		}
	}
	if v := os.Getenv("GDF_MAX_SOLVER_VISITS"); v != "" {
		if i := parseInt(v); i > 0 {
			cfg.MaxSolverVisits = i
		}
	}
	if v := os.Getenv("GDF_EXCLUDE"); v != "" {
		cfg.Exclude = splitList(v)
	}
	if v := os.Getenv("GDF_VERBOSE"); v != "" {
		if b, ok := parseBool(v); ok {
			cfg.Verbose = b
		}
	}
}

// Validate checks that the configuration has valid required fields.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("invalid output_format: %s (must be 'text' or 'json')", c.OutputFormat)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s (must be 'debug', 'info', 'warn' or 'error')", c.LogLevel)
	}

	if c.CacheDir == "" {
		return fmt.Errorf("cache_dir must not be empty")
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("cache_max_entries must be positive")
	}
	if c.MaxSolverVisits < 0 {
		return fmt.Errorf("max_solver_visits must be non-negative")
	}

	return nil
}

// parseInt attempts to parse a string as int.
func parseInt(s string) int {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0
	}
	return i
}

// parseBool recognizes the usual spellings of true and false. The
// second return reports whether the input was one of them.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

// splitList splits a comma-separated env value into trimmed entries.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
