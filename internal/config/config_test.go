package config

import (
	"os"
	"path/filepath"
	"testing"
)

// gdfEnvVars lists every env var the config reads, for test cleanup.
var gdfEnvVars = []string{
	"GDF_OUTPUT_FORMAT",
	"GDF_LOG_LEVEL",
	"GDF_CACHE_DIR",
	"GDF_CACHE_ENABLED",
	"GDF_CACHE_MAX_ENTRIES",
	"GDF_MAX_SOLVER_VISITS",
	"GDF_EXCLUDE",
	"GDF_VERBOSE",
}

func clearEnv() {
	for _, k := range gdfEnvVars {
		os.Unsetenv(k)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"OutputFormat", cfg.OutputFormat, OutputText},
		{"LogLevel", cfg.LogLevel, "info"},
		{"CacheDir", cfg.CacheDir, ".gdf/cache"},
		{"CacheEnabled", cfg.CacheEnabled, true},
		{"CacheMaxEntries", cfg.CacheMaxEntries, 512},
		{"MaxSolverVisits", cfg.MaxSolverVisits, 0},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("DefaultConfig().%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	if len(cfg.Exclude) != 0 {
		t.Errorf("DefaultConfig().Exclude = %v, want empty", cfg.Exclude)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() does not validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config { return DefaultConfig() }

	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errContains string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "json output format",
			mutate:  func(c *Config) { c.OutputFormat = OutputJSON },
			wantErr: false,
		},
		{
			name:        "invalid output format",
			mutate:      func(c *Config) { c.OutputFormat = "xml" },
			wantErr:     true,
			errContains: "invalid output_format",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "trace" },
			wantErr:     true,
			errContains: "invalid log_level",
		},
		{
			name:        "empty cache dir",
			mutate:      func(c *Config) { c.CacheDir = "" },
			wantErr:     true,
			errContains: "cache_dir must not be empty",
		},
		{
			name:        "zero cache entries",
			mutate:      func(c *Config) { c.CacheMaxEntries = 0 },
			wantErr:     true,
			errContains: "cache_max_entries must be positive",
		},
		{
			name:        "negative solver cap",
			mutate:      func(c *Config) { c.MaxSolverVisits = -1 },
			wantErr:     true,
			errContains: "max_solver_visits must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error containing %q, got nil", tt.errContains)
				} else if !contains(err.Error(), tt.errContains) {
					t.Errorf("Error = %q, should contain %q", err.Error(), tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name        string
		configYAML  string
		envVars     map[string]string
		checkCfg    func(*testing.T, *Config)
		wantErr     bool
		errContains string
	}{
		{
			name: "load valid config from file",
			configYAML: `
output_format: json
log_level: debug
cache_dir: /tmp/gdf-cache
cache_enabled: false
cache_max_entries: 128
max_solver_visits: 10000
exclude:
  - generated
  - target
verbose: true
`,
			checkCfg: func(t *testing.T, cfg *Config) {
				if cfg.OutputFormat != OutputJSON {
					t.Errorf("OutputFormat = %v, want json", cfg.OutputFormat)
				}
				if cfg.LogLevel != "debug" {
					t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
				}
				if cfg.CacheDir != "/tmp/gdf-cache" {
					t.Errorf("CacheDir = %v, want /tmp/gdf-cache", cfg.CacheDir)
				}
				if cfg.CacheEnabled {
					t.Error("CacheEnabled = true, want false")
				}
				if cfg.CacheMaxEntries != 128 {
					t.Errorf("CacheMaxEntries = %v, want 128", cfg.CacheMaxEntries)
				}
				if cfg.MaxSolverVisits != 10000 {
					t.Errorf("MaxSolverVisits = %v, want 10000", cfg.MaxSolverVisits)
				}
				if len(cfg.Exclude) != 2 || cfg.Exclude[0] != "generated" || cfg.Exclude[1] != "target" {
					t.Errorf("Exclude = %v, want [generated target]", cfg.Exclude)
				}
				if !cfg.Verbose {
					t.Error("Verbose = false, want true")
				}
			},
			wantErr: false,
		},
		{
			name: "partial file keeps defaults",
			configYAML: `
log_level: warn
`,
			checkCfg: func(t *testing.T, cfg *Config) {
				if cfg.LogLevel != "warn" {
					t.Errorf("LogLevel = %v, want warn", cfg.LogLevel)
				}
				if cfg.OutputFormat != OutputText {
					t.Errorf("OutputFormat = %v, want text (default)", cfg.OutputFormat)
				}
				if cfg.CacheMaxEntries != 512 {
					t.Errorf("CacheMaxEntries = %v, want 512 (default)", cfg.CacheMaxEntries)
				}
			},
			wantErr: false,
		},
		{
			name: "env var overrides file values",
			configYAML: `
log_level: warn
cache_dir: from-file
`,
			envVars: map[string]string{
				"GDF_LOG_LEVEL": "error",
				"GDF_CACHE_DIR": "from-env",
			},
			checkCfg: func(t *testing.T, cfg *Config) {
				if cfg.LogLevel != "error" {
					t.Errorf("LogLevel = %v, want error (from env)", cfg.LogLevel)
				}
				if cfg.CacheDir != "from-env" {
					t.Errorf("CacheDir = %v, want from-env (from env)", cfg.CacheDir)
				}
			},
			wantErr: false,
		},
		{
			name: "invalid yaml",
			configYAML: `
log_level: info
  invalid: indent
`,
			wantErr:     true,
			errContains: "failed to parse",
		},
		{
			name: "invalid value in file",
			configYAML: `
output_format: csv
`,
			wantErr:     true,
			errContains: "invalid output_format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			for k, v := range tt.envVars {
				os.Setenv(k, v)
				defer os.Unsetenv(k)
			}

			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.configYAML), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}

			cfg, err := LoadFromFile(configPath)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error containing %q, got nil", tt.errContains)
				} else if !contains(err.Error(), tt.errContains) {
					t.Errorf("Error = %q, should contain %q", err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if tt.checkCfg != nil {
				tt.checkCfg(t, cfg)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(*testing.T, *Config)
	}{
		{
			name: "override output format",
			envVars: map[string]string{
				"GDF_OUTPUT_FORMAT": "json",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.OutputFormat != OutputJSON {
					t.Errorf("OutputFormat = %v, want json", cfg.OutputFormat)
				}
			},
		},
		{
			name: "override cache settings",
			envVars: map[string]string{
				"GDF_CACHE_DIR":         "/var/cache/gdf",
				"GDF_CACHE_MAX_ENTRIES": "64",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.CacheDir != "/var/cache/gdf" {
					t.Errorf("CacheDir = %v, want /var/cache/gdf", cfg.CacheDir)
				}
				if cfg.CacheMaxEntries != 64 {
					t.Errorf("CacheMaxEntries = %v, want 64", cfg.CacheMaxEntries)
				}
			},
		},
		{
			name: "disable cache with false",
			envVars: map[string]string{
				"GDF_CACHE_ENABLED": "false",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.CacheEnabled {
					t.Error("CacheEnabled = true, want false")
				}
			},
		},
		{
			name: "disable cache with 0",
			envVars: map[string]string{
				"GDF_CACHE_ENABLED": "0",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.CacheEnabled {
					t.Error("CacheEnabled = true, want false (from '0')")
				}
			},
		},
		{
			name: "enable verbose with yes",
			envVars: map[string]string{
				"GDF_VERBOSE": "yes",
			},
			check: func(t *testing.T, cfg *Config) {
				if !cfg.Verbose {
					t.Error("Verbose = false, want true (from 'yes')")
				}
			},
		},
		{
			name: "unrecognized bool ignored",
			envVars: map[string]string{
				"GDF_CACHE_ENABLED": "maybe",
			},
			check: func(t *testing.T, cfg *Config) {
				if !cfg.CacheEnabled {
					t.Error("CacheEnabled = false, want true (default kept)")
				}
			},
		},
		{
			name: "exclude list split on commas",
			envVars: map[string]string{
				"GDF_EXCLUDE": "generated, target ,out",
			},
			check: func(t *testing.T, cfg *Config) {
				want := []string{"generated", "target", "out"}
				if len(cfg.Exclude) != len(want) {
					t.Fatalf("Exclude = %v, want %v", cfg.Exclude, want)
				}
				for i := range want {
					if cfg.Exclude[i] != want[i] {
						t.Errorf("Exclude[%d] = %q, want %q", i, cfg.Exclude[i], want[i])
					}
				}
			},
		},
		{
			name: "invalid int ignored",
			envVars: map[string]string{
				"GDF_CACHE_MAX_ENTRIES": "not-an-int",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.CacheMaxEntries != 512 {
					t.Errorf("CacheMaxEntries = %v, want 512 (default)", cfg.CacheMaxEntries)
				}
			},
		},
		{
			name: "negative int ignored",
			envVars: map[string]string{
				"GDF_MAX_SOLVER_VISITS": "-5",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.MaxSolverVisits != 0 {
					t.Errorf("MaxSolverVisits = %v, want 0 (default)", cfg.MaxSolverVisits)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}
			defer clearEnv()

			cfg := DefaultConfig()
			applyEnvOverrides(cfg)

			tt.check(t, cfg)
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"0", 0},
		{"100", 100},
		{"512", 512},
		{"invalid", 0},
		{"", 0},
		{"abc123", 0},
		{"10.5", 10}, // Will parse 10 from 10.5
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseInt(tt.input)
			if result != tt.expected {
				t.Errorf("parseInt(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input  string
		value  bool
		parsed bool
	}{
		{"true", true, true},
		{"TRUE", true, true},
		{"1", true, true},
		{"yes", true, true},
		{"false", false, true},
		{"0", false, true},
		{"no", false, true},
		{"maybe", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			value, parsed := parseBool(tt.input)
			if value != tt.value || parsed != tt.parsed {
				t.Errorf("parseBool(%q) = (%v, %v), want (%v, %v)",
					tt.input, value, parsed, tt.value, tt.parsed)
			}
		})
	}
}

func TestConfigSave(t *testing.T) {
	clearEnv()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.OutputFormat = OutputJSON
	cfg.LogLevel = "warn"
	cfg.CacheMaxEntries = 64
	cfg.Exclude = []string{"generated"}

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatalf("Config file was not created at %s", configPath)
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}

	if loaded.OutputFormat != cfg.OutputFormat {
		t.Errorf("OutputFormat mismatch: got %s, want %s", loaded.OutputFormat, cfg.OutputFormat)
	}
	if loaded.LogLevel != cfg.LogLevel {
		t.Errorf("LogLevel mismatch: got %s, want %s", loaded.LogLevel, cfg.LogLevel)
	}
	if loaded.CacheMaxEntries != cfg.CacheMaxEntries {
		t.Errorf("CacheMaxEntries mismatch: got %d, want %d", loaded.CacheMaxEntries, cfg.CacheMaxEntries)
	}
	if len(loaded.Exclude) != 1 || loaded.Exclude[0] != "generated" {
		t.Errorf("Exclude mismatch: got %v, want [generated]", loaded.Exclude)
	}
}

func TestConfigSaveCreatesParentDirs(t *testing.T) {
	clearEnv()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "dirs", "config.yaml")

	cfg := DefaultConfig()

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() failed to create parent dirs: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatalf("Config file was not created at %s", configPath)
	}
}

// Helper functions

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > 0 && containsAt(s, substr))
}

func containsAt(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
