package server

import (
	"html/template"

	"github.com/EPecherkin/innergy-chat/chat"
	"github.com/EPecherkin/innergy-chat/logger"
	"github.com/EPecherkin/innergy-chat/render"
)

type MessageView struct {
	Text   string        `json:"text"`
	Sender chat.Sender   `json:"sender"`
	HTML   template.HTML `json:"html"`
}

// View is what the page draws. It is derived from a State snapshot and never fed back.
type View struct {
	ID       string        `json:"id"`
	Messages []MessageView `json:"messages"`
	Pending  bool          `json:"pending"`
	Error    string        `json:"error,omitempty"`
	Draft    string        `json:"draft"`
}

func (server *Server) view(id string, state chat.State) View {
	view := View{
		ID:       id,
		Messages: make([]MessageView, 0, len(state.Transcript)),
		Pending:  state.Pending,
		Error:    state.LastError,
		Draft:    state.Draft,
	}
	for _, message := range state.Transcript {
		view.Messages = append(view.Messages, MessageView{
			Text:   message.Text,
			Sender: message.Sender,
			HTML:   server.html(message),
		})
	}
	return view
}

func (server *Server) html(message chat.Message) template.HTML {
	if message.Sender != chat.SENDER_BOT {
		return render.Text(message.Text)
	}
	html, err := server.renderer.Markdown(message.Text)
	if err != nil {
		server.deps.Logger.With(logger.ERROR, err).Warn("falling back to plain text")
		return render.Text(message.Text)
	}
	return html
}
