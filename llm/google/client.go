package google

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/EPecherkin/innergy-chat/llm/base"
	"github.com/EPecherkin/innergy-chat/logger"
	"github.com/pkg/errors"
	"google.golang.org/genai"
)

const PROVIDER = "gemini"

// Client is created once at startup and only read afterwards.
type Client struct {
	gClient *genai.Client
	options base.Options
	lgr     *slog.Logger
}

func CreateClient(ctx context.Context, apiKey string, options base.Options, lgr *slog.Logger) (*Client, error) {
	lgr = lgr.With(logger.CALLER, "gemini client", logger.MODEL, options.Model)
	lgr.Debug("Creating new LLM Gemini Client")

	gConfig := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if options.BaseURL != "" {
		gConfig.HTTPOptions = genai.HTTPOptions{BaseURL: options.BaseURL}
	}
	gClient, err := genai.NewClient(ctx, gConfig)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", errors.WithStack(err))
	}

	return &Client{gClient: gClient, options: options, lgr: lgr}, nil
}

func (client *Client) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: client.options.SystemInstruction}}},
		MaxOutputTokens:   int32(client.options.MaxOutputTokens),
	}
}
