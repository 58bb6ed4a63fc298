package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"
)

func TestLoad_MissingConfig(t *testing.T) {
	t.Setenv("HABITS_CONFIG", "nonexistent.yaml")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

func TestLoadOptional_MissingConfig(t *testing.T) {
	t.Setenv("HABITS_CONFIG", filepath.Join(t.TempDir(), "nonexistent.yaml"))
	t.Setenv("HABITS_USER", "alice")

	cfg, err := LoadOptional()
	if err != nil {
		t.Fatalf("expected defaults for a missing file, got %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080" || cfg.UserID != "alice" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadOptional_BrokenConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("HABITS_CONFIG", configFile)
	if err := os.WriteFile(configFile, []byte("listen_addr: [unterminated\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if _, err := LoadOptional(); err == nil {
		t.Fatal("expected a parse error, got nil")
	}
}

func TestLoad_CustomConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	t.Setenv("HABITS_CONFIG", configFile)

	c := Config{DBPath: "/var/lib/habits.db", LogLevel: "debug"}
	d, err := yaml.Marshal(&c)
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	if err := os.WriteFile(configFile, d, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal("error opening config:", err)
	}
	if cfg.DBPath != "/var/lib/habits.db" {
		t.Fatalf("got db path %q", cfg.DBPath)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("got level %v want debug", cfg.SlogLevel())
	}
}

func TestLoad_DefaultsAndEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	t.Setenv("HABITS_CONFIG", configFile)
	t.Setenv("HABITS_API_BASE", "http://habits.internal:9000")
	t.Setenv("HABITS_NOTIFY_EMAIL", "me@example.com")

	if err := os.WriteFile(configFile, []byte("log_format: json\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal("error opening config:", err)
	}
	if cfg.ListenAddr != ":8080" || cfg.DBPath != "habits.db" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("got log format %q want json", cfg.LogFormat)
	}
	if cfg.APIBaseURL != "http://habits.internal:9000" {
		t.Fatalf("env override not applied, got %q", cfg.APIBaseURL)
	}
	if cfg.Nudge.Email != "me@example.com" {
		t.Fatalf("env override not applied, got %q", cfg.Nudge.Email)
	}
}

func TestSlogLevel_Invalid(t *testing.T) {
	c := Config{LogLevel: "loud"}
	if c.SlogLevel() != slog.LevelInfo {
		t.Fatalf("got %v want info", c.SlogLevel())
	}
}
