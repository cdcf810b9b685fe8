// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolateEnv points config discovery at an empty temp dir so the developer's
// own config.yaml or .env cannot leak into a test.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv(DotEnvPathEnvVar, filepath.Join(dir, "missing.env"))
	for env := range envMappings {
		t.Setenv(strings.ToUpper(env), "")
		os.Unsetenv(strings.ToUpper(env))
	}
	return dir
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Database.Path != DefaultDatabasePath {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, DefaultDatabasePath)
	}
	if cfg.Database.QueryTimeout != 30*time.Second {
		t.Errorf("Database.QueryTimeout = %v, want 30s", cfg.Database.QueryTimeout)
	}
	if cfg.Recommend.DefaultLimit != 5 {
		t.Errorf("Recommend.DefaultLimit = %d, want 5", cfg.Recommend.DefaultLimit)
	}
	if cfg.Recommend.HistorySize != 10 {
		t.Errorf("Recommend.HistorySize = %d, want 10", cfg.Recommend.HistorySize)
	}
	if cfg.Recommend.PopularSize != 20 {
		t.Errorf("Recommend.PopularSize = %d, want 20", cfg.Recommend.PopularSize)
	}
	if cfg.Recommend.CartWeight != 2 || cfg.Recommend.HistoryWeight != 1 {
		t.Errorf("weights = (%v, %v), want (2, 1)", cfg.Recommend.CartWeight, cfg.Recommend.HistoryWeight)
	}
	if cfg.Recommend.Cache.Enabled {
		t.Error("Recommend.Cache.Enabled should be false by default")
	}
	if cfg.Server.Port != 3858 {
		t.Errorf("Server.Port = %d, want 3858", cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DATABASE_PATH", "database.path"},
		{"SQLITE_PATH", "database.sqlite_path"},
		{"SEED_DEMO_DATA", "database.seed_demo_data"},
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"RECOMMEND_DEFAULT_LIMIT", "recommend.default_limit"},
		{"RECOMMEND_CACHE_TTL", "recommend.cache.ttl"},
		{"BREAKER_TIMEOUT", "breaker.timeout"},
		{"database_path", "database.path"},

		// Unmapped variables are dropped
		{"PATH", ""},
		{"HOME", ""},
		{"RANDOM_THING", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolateEnv(t)

	t.Run("no config file exists", func(t *testing.T) {
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("logging:\n  level: info\n"), 0o600); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		if result := findConfigFile(); result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(dir, "custom.yaml")
		if err := os.WriteFile(customPath, []byte("logging:\n  level: info\n"), 0o600); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, customPath)

		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")

		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolateEnv(t)

	t.Setenv("DATABASE_PATH", "/tmp/shop.duckdb")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_DEFAULT_LIMIT", "8")
	t.Setenv("RECOMMEND_CACHE_ENABLED", "true")
	t.Setenv("RECOMMEND_CACHE_TTL", "90s")
	t.Setenv("CORS_ORIGINS", "https://shop.example, https://admin.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/shop.duckdb" {
		t.Errorf("Database.Path = %q, want /tmp/shop.duckdb", cfg.Database.Path)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.DefaultLimit != 8 {
		t.Errorf("Recommend.DefaultLimit = %d, want 8", cfg.Recommend.DefaultLimit)
	}
	if !cfg.Recommend.Cache.Enabled || cfg.Recommend.Cache.TTL != 90*time.Second {
		t.Errorf("Recommend.Cache = %+v, want enabled with 90s TTL", cfg.Recommend.Cache)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://admin.example" {
		t.Errorf("Security.CORSOrigins = %v, want two trimmed origins", cfg.Security.CORSOrigins)
	}

	// Defaults still apply for unset values
	if cfg.Recommend.HistorySize != 10 {
		t.Errorf("Recommend.HistorySize = %d, want 10 (default)", cfg.Recommend.HistorySize)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := isolateEnv(t)

	configContent := `
database:
  path: /data/checkout.duckdb
  sqlite_path: /data/checkout.db
recommend:
  default_limit: 3
  popular_size: 10
server:
  port: 8080
`
	configPath := filepath.Join(dir, "basketwise.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Database.Path != "/data/checkout.duckdb" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Database.SQLitePath != "/data/checkout.db" {
		t.Errorf("Database.SQLitePath = %q", cfg.Database.SQLitePath)
	}
	if cfg.Recommend.DefaultLimit != 3 || cfg.Recommend.PopularSize != 10 {
		t.Errorf("Recommend = %+v, want limit 3 and popular 10", cfg.Recommend)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	dir := isolateEnv(t)

	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("database:\n  path: /from/file.duckdb\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("DATABASE_PATH", "/from/env.duckdb")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Database.Path != "/from/env.duckdb" {
		t.Errorf("Database.Path = %q, want env value to win", cfg.Database.Path)
	}
}

func TestLoadWithKoanfDotEnv(t *testing.T) {
	dir := isolateEnv(t)

	envFile := filepath.Join(dir, "local.env")
	if err := os.WriteFile(envFile, []byte("DATABASE_PATH=/from/dotenv.duckdb\nLOG_FORMAT=console\n"), 0o600); err != nil {
		t.Fatalf("Failed to write .env file: %v", err)
	}
	t.Setenv(DotEnvPathEnvVar, envFile)
	// godotenv writes straight into the process environment
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_PATH")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Database.Path != "/from/dotenv.duckdb" {
		t.Errorf("Database.Path = %q, want value from .env", cfg.Database.Path)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		errMsg  string
	}{
		{
			name:    "invalid port",
			envVars: map[string]string{"HTTP_PORT": "70000"},
			errMsg:  "HTTP_PORT must be between 1 and 65535",
		},
		{
			name:    "invalid log level",
			envVars: map[string]string{"LOG_LEVEL": "loud"},
			errMsg:  "LOG_LEVEL must be one of",
		},
		{
			name:    "negative limit",
			envVars: map[string]string{"RECOMMEND_DEFAULT_LIMIT": "-1"},
			errMsg:  "RECOMMEND_DEFAULT_LIMIT must be non-negative",
		},
		{
			name:    "cache enabled without ttl",
			envVars: map[string]string{"RECOMMEND_CACHE_ENABLED": "true", "RECOMMEND_CACHE_TTL": "0s"},
			errMsg:  "RECOMMEND_CACHE_TTL must be positive",
		},
		{
			name:    "breaker ratio out of range",
			envVars: map[string]string{"BREAKER_FAILURE_RATIO": "1.5"},
			errMsg:  "BREAKER_FAILURE_RATIO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatalf("LoadWithKoanf() expected error containing %q", tt.errMsg)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := isolateEnv(t)

	// A discoverable config.yaml must be ignored in favor of the explicit file.
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 7000\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	explicit := filepath.Join(dir, "cli.yaml")
	if err := os.WriteFile(explicit, []byte("recommend:\n  default_limit: 2\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadFile(explicit)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Recommend.DefaultLimit != 2 {
		t.Errorf("Recommend.DefaultLimit = %d, want 2", cfg.Recommend.DefaultLimit)
	}
	if cfg.Server.Port != 3858 {
		t.Errorf("Server.Port = %d, want default 3858", cfg.Server.Port)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadFile() should fail for a missing file")
	}
}
