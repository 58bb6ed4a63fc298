package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	ListenAddr string      `yaml:"listen_addr"`
	APIBaseURL string      `yaml:"api_base_url"`
	DBPath     string      `yaml:"db_path"`
	UserID     string      `yaml:"user_id"`
	LogLevel   string      `yaml:"log_level"`
	LogFormat  string      `yaml:"log_format"`
	Nudge      NudgeConfig `yaml:"nudge"`
}

type NudgeConfig struct {
	ResendAPIKey string `yaml:"resend_api_key"`
	Email        string `yaml:"email"`
	From         string `yaml:"from"`
}

func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		APIBaseURL: "http://localhost:8080",
		DBPath:     "habits.db",
		LogLevel:   "info",
		LogFormat:  "text",
		Nudge: NudgeConfig{
			From: "onboarding@resend.dev",
		},
	}
}

// Path returns the config file location, HABITS_CONFIG or ./config.yaml.
func Path() string {
	return getenv("HABITS_CONFIG", "config.yaml")
}

// Load reads the YAML config file on top of the defaults and then applies
// environment overrides. A missing file is an error.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", Path(), err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadOptional is Load for commands that can run without a config file: a
// missing file yields the defaults plus environment overrides.
func LoadOptional() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		cfg.applyEnv()
		return cfg, nil
	}
	return cfg, err
}

func (c *Config) applyEnv() {
	c.APIBaseURL = getenv("HABITS_API_BASE", c.APIBaseURL)
	c.DBPath = getenv("HABITS_DB_PATH", c.DBPath)
	c.UserID = getenv("HABITS_USER", c.UserID)
	c.Nudge.ResendAPIKey = getenv("HABITS_RESEND_API_KEY", c.Nudge.ResendAPIKey)
	c.Nudge.Email = getenv("HABITS_NOTIFY_EMAIL", c.Nudge.Email)
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
