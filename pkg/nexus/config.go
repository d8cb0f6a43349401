package nexus

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Backend     BackendConfig `mapstructure:"backend"`
	User        UserConfig    `mapstructure:"user"`
	Voice       VoiceConfig   `mapstructure:"voice"`
	Recognizer  VendorConfig  `mapstructure:"recognizer"`
	Status      StatusConfig  `mapstructure:"status"`
	Prefs       PrefsConfig   `mapstructure:"prefs"`
	Environment string        `mapstructure:"environment"`
	LogLevel    string        `mapstructure:"log_level"`
	LogFormat   string        `mapstructure:"log_format"`
}

type BackendConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

type UserConfig struct {
	ID        string `mapstructure:"id"`
	SessionID string `mapstructure:"session_id"`
}

type VoiceConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type StatusConfig struct {
	RefreshMS int `mapstructure:"refresh_ms"`
}

type PrefsConfig struct {
	Path string `mapstructure:"path"`
}

func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout_ms", 15000)
	v.SetDefault("user.id", "demo-user")
	v.SetDefault("user.session_id", "")
	v.SetDefault("voice.enabled", true)
	v.SetDefault("recognizer.provider", "mock")
	v.SetDefault("status.refresh_ms", 30000)
	v.SetDefault("prefs.path", "nexus_prefs.json")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Backend:     BackendConfig{BaseURL: "http://localhost:8000", TimeoutMS: 15000},
		User:        UserConfig{ID: "demo-user"},
		Voice:       VoiceConfig{Enabled: true},
		Recognizer:  VendorConfig{Provider: "mock"},
		Status:      StatusConfig{RefreshMS: 30000},
		Prefs:       PrefsConfig{Path: "nexus_prefs.json"},
		Environment: "development",
		LogLevel:    "info",
		LogFormat:   "text",
	}
}
