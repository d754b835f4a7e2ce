// Package config provides application configuration backed by Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// LoggerConfig holds logger settings.
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	Encoding    string `mapstructure:"encoding"`
	EnableColor bool   `mapstructure:"enable_color"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ScannerConfig holds settings for page fetching and sub-page crawling.
type ScannerConfig struct {
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	SubpageTimeout time.Duration `mapstructure:"subpage_timeout"`
	MaxSubpages    int           `mapstructure:"max_subpages"`
	RateLimitRPS   int           `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// GeminiConfig holds settings for the Google Generative Language API.
type GeminiConfig struct {
	APIKey string   `mapstructure:"api_key"`
	Models []string `mapstructure:"models"`
}

// OpenAIConfig holds settings for the OpenAI chat completions API.
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// ProvidersConfig groups the AI provider settings.
type ProvidersConfig struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
	OpenAI OpenAIConfig `mapstructure:"openai"`
}

// Config is the root application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scanner   ScannerConfig   `mapstructure:"scanner"`
	Providers ProvidersConfig `mapstructure:"providers"`
}

// Load unmarshals the current Viper state into a Config.
// InitializeViper must have been called first.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
