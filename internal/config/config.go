// Package config loads the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds connection settings for the calendar service.
type ServerConfig struct {
	// BaseURL is the root URL of the API server.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns the request timeout as a duration.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// LogConfig holds logging settings. The TUI owns the terminal, so logs
// go to a file.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Config is the top-level application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// ConfigDir returns the directory holding the config file, session
// database, and log file.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "calendar-assistant")
}

// DefaultConfigPath returns the default path of the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// SessionDBPath returns the default path of the session database.
func SessionDBPath() string {
	return filepath.Join(ConfigDir(), "session.db")
}

// defaultConfig returns the built-in defaults.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:    "http://localhost:8000",
			TimeoutSec: 30,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(ConfigDir(), "assistant.log"),
		},
	}
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns the default configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("server.base_url", "http://localhost:8000")
	v.SetDefault("server.timeout_sec", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(ConfigDir(), "assistant.log"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
