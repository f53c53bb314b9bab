package openai

import (
	"context"
	"strings"

	"github.com/EPecherkin/innergy-chat/chat"
	"github.com/EPecherkin/innergy-chat/llm/base"
	"github.com/openai/openai-go"
)

// Messages builds the request: system instruction, prior transcript, new text.
func Messages(systemInstruction string, prior []chat.Message, text string) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(prior)+2)
	messages = append(messages, openai.SystemMessage(systemInstruction))
	for _, message := range prior {
		if message.Sender == chat.SENDER_BOT {
			messages = append(messages, openai.AssistantMessage(message.Text))
		} else {
			messages = append(messages, openai.UserMessage(message.Text))
		}
	}
	return append(messages, openai.UserMessage(text))
}

func (client *Client) Send(ctx context.Context, prior []chat.Message, text string) (string, error) {
	lgr := client.lgr.With("history", len(prior))
	lgr.Debug("starting talking")

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(client.options.Model),
		Messages:            Messages(client.options.SystemInstruction, prior, text),
		MaxCompletionTokens: openai.Int(int64(client.options.MaxOutputTokens)),
	}

	resp, err := client.oClient.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", base.Failure(PROVIDER, "creating completion", err)
	}

	reply := ""
	if len(resp.Choices) > 0 {
		reply = resp.Choices[0].Message.Content
	}
	if strings.TrimSpace(reply) == "" {
		return "", base.Failure(PROVIDER, "reading response", base.ErrEmptyResponse)
	}

	lgr.Debug("finished talking", "length", len(reply))
	return reply, nil
}
