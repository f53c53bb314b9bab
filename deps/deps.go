package deps

import (
	"context"
	"log/slog"

	"github.com/EPecherkin/innergy-chat/logger"
)

// Recorder receives every terminal transition of a chat session.
// Implemented by archive.Archive.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

type Entry struct {
	SessionID string
	Sender    string
	Text      string
	Failure   string
}

// Dependency provider passed by value.
// HARD-LIMITED to logger and the archive. NEVER EVER expand it.
type Deps struct {
	Logger  *slog.Logger
	Archive Recorder
}

func NewDeps(lgr *slog.Logger, archive Recorder) Deps {
	if lgr == nil {
		lgr = logger.Discard()
	}
	if archive == nil {
		archive = nopRecorder{}
	}
	return Deps{Logger: lgr, Archive: archive}
}

func (deps Deps) WithCaller(caller string) Deps {
	deps.Logger = deps.Logger.With(logger.CALLER, caller)
	return deps
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, Entry) error { return nil }
