//nolint:testpackage // Tests manipulate the package-global Viper state
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	require.NoError(t, InitializeViper("", false))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "agentscan", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, DefaultUserAgent, cfg.Scanner.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.Scanner.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.Scanner.SubpageTimeout)
	assert.Equal(t, DefaultMaxSubpages, cfg.Scanner.MaxSubpages)
	assert.Equal(t,
		[]string{"gemini-2.5-flash", "gemini-1.5-pro", "gemini-1.5-flash"},
		cfg.Providers.Gemini.Models)
	assert.Equal(t, "gpt-4o-mini", cfg.Providers.OpenAI.Model)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("GEMINI_API_KEY", "gemini-secret")
	t.Setenv("OPENAI_API_KEY", "openai-secret")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("LOG_LEVEL", "warn")

	require.NoError(t, InitializeViper("", false))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini-secret", cfg.Providers.Gemini.APIKey)
	assert.Equal(t, "openai-secret", cfg.Providers.OpenAI.APIKey)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoad_GoogleKeyAlias(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("GOOGLE_GENERATIVE_AI_API_KEY", "alias-secret")

	require.NoError(t, InitializeViper("", false))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "alias-secret", cfg.Providers.Gemini.APIKey)
}

func TestInitializeViper_DebugForcesLevel(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	require.NoError(t, InitializeViper("", true))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
}
