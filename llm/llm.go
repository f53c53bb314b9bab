package llm

import (
	"context"
	"log/slog"

	"github.com/EPecherkin/innergy-chat/chat"
	"github.com/EPecherkin/innergy-chat/config"
	"github.com/EPecherkin/innergy-chat/llm/base"
	"github.com/EPecherkin/innergy-chat/llm/google"
	"github.com/EPecherkin/innergy-chat/llm/openai"
	"github.com/pkg/errors"
)

// CreateClient builds the chat client for the configured provider.
func CreateClient(ctx context.Context, cfg *config.Config, lgr *slog.Logger) (chat.Client, error) {
	options := base.Options{
		Model:             cfg.Model,
		SystemInstruction: cfg.SystemInstruction,
		MaxOutputTokens:   cfg.MaxOutputTokens,
		BaseURL:           cfg.LlmBaseURL,
	}

	switch cfg.Provider {
	case config.PROVIDER_GEMINI:
		client, err := google.CreateClient(ctx, cfg.GeminiApiKey, options, lgr)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.PROVIDER_OPENAI:
		client, err := openai.CreateClient(cfg.OpenAiApiKey, options, lgr)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, errors.Errorf("unsupported provider %q", cfg.Provider)
	}
}
