package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"GEMINI_API_KEY": "key"}))
	require.NoError(t, err)

	assert.Equal(t, PROVIDER_GEMINI, cfg.Provider)
	assert.Equal(t, "key", cfg.GeminiApiKey)
	assert.Equal(t, DEFAULT_GEMINI_MODEL, cfg.Model)
	assert.Equal(t, DEFAULT_MAX_OUTPUT_TOKENS, cfg.MaxOutputTokens)
	assert.Equal(t, DEFAULT_SYSTEM_INSTRUCTION, cfg.SystemInstruction)
	assert.Equal(t, DEFAULT_HTTP_ADDR, cfg.HttpAddr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.ArchiveDSN)
}

func TestDefaultSystemInstructionPersona(t *testing.T) {
	assert.Contains(t, DEFAULT_SYSTEM_INSTRUCTION, "skill issue from our prestigious dev team")
	assert.Contains(t, DEFAULT_SYSTEM_INSTRUCTION, "Hindi videos will be added sooon to the app.")
}

func TestFromEnvGoogleKeyFallback(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"GOOGLE_API_KEY": "google"}))
	require.NoError(t, err)
	assert.Equal(t, "google", cfg.GeminiApiKey)
}

func TestFromEnvMissingCredential(t *testing.T) {
	_, err := FromEnv(envOf(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	_, err = FromEnv(envOf(map[string]string{"LLM_PROVIDER": "openai", "GEMINI_API_KEY": "key"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestFromEnvOpenAi(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"LLM_PROVIDER":      "OpenAI",
		"OPENAI_API_KEY":    "sk",
		"MAX_OUTPUT_TOKENS": "256",
		"LOG_LEVEL":         "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, PROVIDER_OPENAI, cfg.Provider)
	assert.Equal(t, DEFAULT_OPENAI_MODEL, cfg.Model)
	assert.Equal(t, 256, cfg.MaxOutputTokens)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown provider": {"LLM_PROVIDER": "ollama", "GEMINI_API_KEY": "key"},
		"tokens not int":   {"GEMINI_API_KEY": "key", "MAX_OUTPUT_TOKENS": "many"},
		"tokens zero":      {"GEMINI_API_KEY": "key", "MAX_OUTPUT_TOKENS": "0"},
		"bad log level":    {"GEMINI_API_KEY": "key", "LOG_LEVEL": "loud"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envOf(env))
			assert.Error(t, err)
		})
	}
}

func TestRequireTelegram(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"GEMINI_API_KEY": "key"}))
	require.NoError(t, err)
	assert.Error(t, cfg.RequireTelegram())

	cfg.TelegramToken = "token"
	assert.NoError(t, cfg.RequireTelegram())
}
