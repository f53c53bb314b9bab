package openai

import (
	"log/slog"

	"github.com/EPecherkin/innergy-chat/llm/base"
	"github.com/EPecherkin/innergy-chat/logger"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const PROVIDER = "openai"

type Client struct {
	oClient *openai.Client
	options base.Options
	lgr     *slog.Logger
}

func CreateClient(apiKey string, options base.Options, lgr *slog.Logger) (*Client, error) {
	lgr = lgr.With(logger.CALLER, "openai client", logger.MODEL, options.Model)
	lgr.Debug("Creating openai client")

	requestOptions := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// a failed cycle is reported to the user as is
		option.WithMaxRetries(0),
	}
	if options.BaseURL != "" {
		requestOptions = append(requestOptions, option.WithBaseURL(options.BaseURL))
	}
	oClient := openai.NewClient(requestOptions...)

	return &Client{oClient: &oClient, options: options, lgr: lgr}, nil
}
