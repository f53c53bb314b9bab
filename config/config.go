package config

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	PROVIDER_GEMINI = "gemini"
	PROVIDER_OPENAI = "openai"

	DEFAULT_GEMINI_MODEL      = "gemini-2.0-flash"
	DEFAULT_OPENAI_MODEL      = "gpt-4o-mini"
	DEFAULT_MAX_OUTPUT_TOKENS = 1000
	DEFAULT_HTTP_ADDR         = ":8080"
)

const DEFAULT_SYSTEM_INSTRUCTION = `You are an Innergy tech support assistant
- You advice people to restart their phone
- You tell them to clear cache of the innergy app
- If there's an issue in android then you very politely tell them that it's the skill issue from our prestigious dev team and it ain't going to be fixed anytime soon
- You are kind
- Hindi videos will be added sooon to the app.
- you greet them nicely`

// Config is built once at startup and read-only afterwards.
type Config struct {
	Provider          string
	GeminiApiKey      string
	OpenAiApiKey      string
	Model             string
	MaxOutputTokens   int
	SystemInstruction string
	LlmBaseURL        string

	HttpAddr      string
	TelegramToken string
	ArchiveDSN    string

	LogLevel slog.Level
	LogFile  string
}

// Load reads .env (when present) and the process environment.
// Missing credentials are reported here so the process never starts serving without them.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", errors.WithStack(err))
	}
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key string) string {
		return strings.TrimSpace(getenv(key))
	}

	cfg := &Config{
		Provider:          strings.ToLower(get("LLM_PROVIDER")),
		GeminiApiKey:      get("GEMINI_API_KEY"),
		OpenAiApiKey:      get("OPENAI_API_KEY"),
		Model:             get("LLM_MODEL"),
		MaxOutputTokens:   DEFAULT_MAX_OUTPUT_TOKENS,
		SystemInstruction: getenv("SYSTEM_INSTRUCTION"),
		LlmBaseURL:        get("LLM_BASE_URL"),
		HttpAddr:          get("HTTP_ADDR"),
		TelegramToken:     get("TELEGRAM_TOKEN"),
		ArchiveDSN:        get("ARCHIVE_DSN"),
		LogFile:           get("LOG_FILE"),
	}
	if cfg.GeminiApiKey == "" {
		cfg.GeminiApiKey = get("GOOGLE_API_KEY")
	}
	if strings.TrimSpace(cfg.SystemInstruction) == "" {
		cfg.SystemInstruction = DEFAULT_SYSTEM_INSTRUCTION
	}
	if cfg.HttpAddr == "" {
		cfg.HttpAddr = DEFAULT_HTTP_ADDR
	}

	switch cfg.Provider {
	case "", PROVIDER_GEMINI:
		cfg.Provider = PROVIDER_GEMINI
		if cfg.GeminiApiKey == "" {
			return nil, errors.New("GEMINI_API_KEY is missing")
		}
		if cfg.Model == "" {
			cfg.Model = DEFAULT_GEMINI_MODEL
		}
	case PROVIDER_OPENAI:
		if cfg.OpenAiApiKey == "" {
			return nil, errors.New("OPENAI_API_KEY is missing")
		}
		if cfg.Model == "" {
			cfg.Model = DEFAULT_OPENAI_MODEL
		}
	default:
		return nil, errors.Errorf("LLM_PROVIDER %q is not supported", cfg.Provider)
	}

	if raw := get("MAX_OUTPUT_TOKENS"); raw != "" {
		tokens, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing MAX_OUTPUT_TOKENS: %w", errors.WithStack(err))
		}
		if tokens <= 0 {
			return nil, errors.Errorf("MAX_OUTPUT_TOKENS must be positive, got %d", tokens)
		}
		cfg.MaxOutputTokens = tokens
	}

	level, err := parseLogLevel(get("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

// RequireTelegram is checked only when the telegram surface is started.
func (cfg *Config) RequireTelegram() error {
	if cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is missing")
	}
	return nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	if raw == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parsing LOG_LEVEL: %w", errors.WithStack(err))
	}
	return level, nil
}
