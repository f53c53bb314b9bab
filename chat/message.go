package chat

type Sender string

const (
	SENDER_USER Sender = "user"
	SENDER_BOT  Sender = "bot"
)

// Message is one turn of the transcript. It is never edited once appended.
type Message struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

func UserMessage(text string) Message {
	return Message{Text: text, Sender: SENDER_USER}
}

func BotMessage(text string) Message {
	return Message{Text: text, Sender: SENDER_BOT}
}
