package chat

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrBlankInput = errors.New("input is blank")
	ErrPending    = errors.New("a request is already pending")
)

type State struct {
	Transcript []Message `json:"transcript"`
	Pending    bool      `json:"pending"`
	LastError  string    `json:"last_error,omitempty"`
	Draft      string    `json:"draft"`
}

func (state State) clone() State {
	state.Transcript = slices.Clone(state.Transcript)
	return state
}

type Event interface {
	event()
}

type UserSubmitted struct{ Text string }

type BotReplied struct{ Text string }

type RequestFailed struct{ Message string }

type DraftChanged struct{ Text string }

type DraftReset struct{}

func (UserSubmitted) event() {}
func (BotReplied) event()    {}
func (RequestFailed) event() {}
func (DraftChanged) event()  {}
func (DraftReset) event()    {}

// Reduce applies event to state and returns the next state.
// A rejected event returns the unchanged state and the reason.
// Appends always copy the transcript so earlier states stay intact.
func Reduce(state State, event Event) (State, error) {
	switch ev := event.(type) {
	case UserSubmitted:
		if strings.TrimSpace(ev.Text) == "" {
			return state, ErrBlankInput
		}
		if state.Pending {
			return state, ErrPending
		}
		state.Transcript = appendMessage(state.Transcript, UserMessage(ev.Text))
		state.LastError = ""
		state.Pending = true
		state.Draft = ""
	case BotReplied:
		state.Transcript = appendMessage(state.Transcript, BotMessage(ev.Text))
		state.Pending = false
	case RequestFailed:
		state.LastError = ev.Message
		state.Pending = false
	case DraftChanged:
		state.Draft = ev.Text
	case DraftReset:
		state.Draft = ""
	default:
		return state, errors.Errorf("unknown event %T", event)
	}
	return state, nil
}

func appendMessage(transcript []Message, message Message) []Message {
	next := make([]Message, len(transcript), len(transcript)+1)
	copy(next, transcript)
	return append(next, message)
}
