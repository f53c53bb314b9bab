package google

import (
	"context"
	"strings"

	"github.com/EPecherkin/innergy-chat/chat"
	"github.com/EPecherkin/innergy-chat/llm/base"
	"google.golang.org/genai"
)

// History translates the transcript to Gemini contents, keeping its order.
func History(prior []chat.Message) []*genai.Content {
	history := make([]*genai.Content, 0, len(prior))
	for _, message := range prior {
		history = append(history, genai.NewContentFromText(message.Text, role(message.Sender)))
	}
	return history
}

func role(sender chat.Sender) genai.Role {
	if sender == chat.SENDER_BOT {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// Send starts a new Gemini chat seeded with prior and sends text as the next turn.
func (client *Client) Send(ctx context.Context, prior []chat.Message, text string) (string, error) {
	lgr := client.lgr.With("history", len(prior))
	lgr.Debug("starting talking")

	gChat, err := client.gClient.Chats.Create(ctx, client.options.Model, client.generateConfig(), History(prior))
	if err != nil {
		return "", base.Failure(PROVIDER, "creating chat", err)
	}

	resp, err := gChat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", base.Failure(PROVIDER, "sending message", err)
	}
	if resp == nil {
		return "", base.Failure(PROVIDER, "reading response", base.ErrEmptyResponse)
	}

	reply := resp.Text()
	if strings.TrimSpace(reply) == "" {
		return "", base.Failure(PROVIDER, "reading response", base.ErrEmptyResponse)
	}

	lgr.Debug("finished talking", "length", len(reply))
	return reply, nil
}
