package chat

import (
	"context"
	"fmt"

	"github.com/EPecherkin/innergy-chat/deps"
	"github.com/EPecherkin/innergy-chat/logger"
	"github.com/pkg/errors"
)

// Shown to the user whatever the underlying cause was. The cause is only logged.
const FAILURE_MESSAGE = "Error: Could not get a response from the AI. Please check your API key and network connection."

// Client performs one request/response cycle against the remote model.
// prior is the transcript before text was submitted.
type Client interface {
	Send(ctx context.Context, prior []Message, text string) (string, error)
}

// Outcome is the terminal state of one request cycle.
type Outcome struct {
	Reply  string
	Failed bool
	// Error is the user-facing message, set when Failed.
	Error string
}

// Session is one chat view: a Store plus the Client it talks to.
type Session struct {
	id     string
	store  *Store
	client Client
	deps   deps.Deps
}

func NewSession(id string, client Client, deps deps.Deps) *Session {
	deps.Logger = deps.Logger.With(logger.CALLER, "chat.Session", logger.SESSION, id)
	return &Session{id: id, store: NewStore(), client: client, deps: deps}
}

func (session *Session) ID() string {
	return session.id
}

func (session *Session) State() State {
	return session.store.State()
}

func (session *Session) Subscribe(observer Observer) (unsubscribe func()) {
	return session.store.Subscribe(observer)
}

func (session *Session) SetDraft(text string) error {
	return session.store.Dispatch(DraftChanged{Text: text})
}

// Submit appends the user message and starts the request cycle.
// It returns ErrBlankInput or ErrPending without touching the state when the
// submission is not allowed. The returned channel is closed once the cycle
// is resolved or failed, after delivering the Outcome. The cycle ignores
// cancellation of ctx.
func (session *Session) Submit(ctx context.Context, text string) (<-chan Outcome, error) {
	prev, err := session.store.dispatch(UserSubmitted{Text: text})
	if err != nil {
		return nil, err
	}
	session.deps.Logger.Debug("message submitted", "history", len(prev.Transcript))

	done := make(chan Outcome, 1)
	go session.goResolve(context.WithoutCancel(ctx), prev.Transcript, text, done)
	return done, nil
}

func (session *Session) goResolve(ctx context.Context, prior []Message, text string, done chan<- Outcome) {
	defer close(done)
	defer func() {
		if rec := recover(); rec != nil {
			done <- session.fail(ctx, text, errors.Errorf("panic while talking: %v", rec))
		}
	}()

	reply, err := session.client.Send(ctx, prior, text)
	if err != nil {
		done <- session.fail(ctx, text, err)
		return
	}

	if err := session.store.AppendBot(reply); err != nil {
		done <- session.fail(ctx, text, err)
		return
	}
	session.deps.Logger.Debug("reply received")
	session.record(ctx, deps.Entry{SessionID: session.id, Sender: string(SENDER_USER), Text: text})
	session.record(ctx, deps.Entry{SessionID: session.id, Sender: string(SENDER_BOT), Text: reply})
	done <- Outcome{Reply: reply}
}

func (session *Session) fail(ctx context.Context, text string, err error) Outcome {
	session.deps.Logger.With(logger.ERROR, err).Error("failed talking")
	if ferr := session.store.Fail(FAILURE_MESSAGE); ferr != nil {
		session.deps.Logger.With(logger.ERROR, ferr).Error("failed to record failure")
	}
	session.record(ctx, deps.Entry{SessionID: session.id, Sender: string(SENDER_USER), Text: text, Failure: err.Error()})
	return Outcome{Failed: true, Error: FAILURE_MESSAGE}
}

func (session *Session) record(ctx context.Context, entry deps.Entry) {
	if err := session.deps.Archive.Record(ctx, entry); err != nil {
		session.deps.Logger.With(logger.ERROR, fmt.Errorf("archiving %s message: %w", entry.Sender, err)).Warn("archive write failed")
	}
}
