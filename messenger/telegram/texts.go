package telegram

const (
	GREETING       = "Hi! I'm the Innergy companion. Tell me what's going on with the app."
	THINKING       = "Thinking…"
	STILL_THINKING = "Still thinking about your previous message…"
)
