package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default scanner values.
const (
	// DefaultUserAgent identifies the scanner to target sites.
	DefaultUserAgent = "AgentReadyScanner/1.0"
	// DefaultMaxSubpages bounds the sub-page crawl per scan.
	DefaultMaxSubpages = 3
	// DefaultRateLimitRPS limits outbound page fetches per second.
	DefaultRateLimitRPS = 10
)

// InitializeViper loads the .env file, binds environment variables, sets
// production-safe defaults, and reads the optional config file. When debug
// is set the logger is forced to debug level with console output.
func InitializeViper(cfgFile string, debug bool) error {
	// .env file is optional; environment variables win regardless.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := bindEnvVars(); err != nil {
		return err
	}

	// Config file is optional: defaults and environment variables suffice.
	_ = viper.ReadInConfig()

	setupDevelopmentLogging(debug)

	return nil
}

// setupDevelopmentLogging adjusts logger settings for debug runs and
// development environments.
func setupDevelopmentLogging(debug bool) {
	if debug || viper.GetBool("app.debug") {
		viper.Set("logger.level", "debug")
	}

	if viper.GetString("app.environment") == "development" {
		viper.Set("logger.development", true)
		viper.Set("logger.enable_color", true)
		viper.Set("logger.encoding", "console")
	}
}

// bindEnvVars maps well-known environment variables to config keys.
func bindEnvVars() error {
	bindings := map[string][]string{
		"app.environment":       {"APP_ENV"},
		"app.debug":             {"APP_DEBUG"},
		"logger.level":          {"LOG_LEVEL"},
		"logger.encoding":       {"LOG_FORMAT"},
		"server.address":        {"SERVER_ADDRESS"},
		"database.host":         {"DATABASE_HOST"},
		"database.port":         {"DATABASE_PORT"},
		"database.user":         {"DATABASE_USER"},
		"database.password":     {"DATABASE_PASSWORD"},
		"database.dbname":       {"DATABASE_NAME"},
		"database.sslmode":      {"DATABASE_SSLMODE"},
		"providers.gemini.api_key": {
			"GEMINI_API_KEY", "GOOGLE_GENERATIVE_AI_API_KEY",
		},
		"providers.openai.api_key": {"OPENAI_API_KEY"},
	}

	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := viper.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	return nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("app", map[string]any{
		"name":        "agentscan",
		"environment": "production",
		"debug":       false,
	})

	viper.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"encoding":     "json",
		"enable_color": false,
	})

	viper.SetDefault("server", map[string]any{
		"address":       ":8080",
		"read_timeout":  "15s",
		"write_timeout": "60s",
		"idle_timeout":  "60s",
	})

	viper.SetDefault("database", map[string]any{
		"host":    "127.0.0.1",
		"port":    "5432",
		"user":    "postgres",
		"dbname":  "agentscan",
		"sslmode": "disable",
	})

	viper.SetDefault("scanner", map[string]any{
		"user_agent":       DefaultUserAgent,
		"request_timeout":  "30s",
		"subpage_timeout":  "5s",
		"max_subpages":     DefaultMaxSubpages,
		"rate_limit_rps":   DefaultRateLimitRPS,
		"rate_limit_burst": DefaultRateLimitRPS,
	})

	viper.SetDefault("providers", map[string]any{
		"gemini": map[string]any{
			"models": []string{"gemini-2.5-flash", "gemini-1.5-pro", "gemini-1.5-flash"},
		},
		"openai": map[string]any{
			"model": "gpt-4o-mini",
		},
	})
}
