package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	ERROR    = "error"
	CALLER   = "caller"
	SESSION  = "session"
	CHAT_ID  = "chat_id"
	SENDER   = "sender"
	PROVIDER = "provider"
	MODEL    = "model"
	METHOD   = "method"
	PATH     = "path"
	STATUS   = "status"
	LATENCY  = "latency"
)

type Options struct {
	Level slog.Level
	// When set, logs go to a rotated file instead of stderr.
	File string
}

// Build a logger that prints error stacktrace
// Inspired by https://stackoverflow.com/questions/77304845/how-to-log-errors-with-log-slog
func NewLogger(opts Options) *slog.Logger {
	var out io.Writer = os.Stderr
	if opts.File != "" {
		out = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
	}
	logger := NewLoggerTo(out, opts.Level)
	slog.SetDefault(logger)
	return logger
}

func NewLoggerTo(out io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		ReplaceAttr: replaceAttr,
		Level:       level,
	})
	return slog.New(handler)
}

// Discard is handy for tests and for components built without a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func replaceAttr(_ []string, attr slog.Attr) slog.Attr {
	if err, ok := attr.Value.Any().(error); ok && attr.Value.Kind() == slog.KindAny {
		attr.Value = errorValue(err)
	}
	return attr
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// errorValue renders err as {msg, trace}. The trace is the deepest pkg/errors
// stack in the chain; errors without one get no trace key.
func errorValue(err error) slog.Value {
	attrs := []slog.Attr{slog.String("msg", err.Error())}

	var deepest stackTracer
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if tracer, ok := cur.(stackTracer); ok {
			deepest = tracer
		}
	}
	if deepest != nil {
		attrs = append(attrs, slog.Any("trace", stackLines(deepest.StackTrace())))
	}
	return slog.GroupValue(attrs...)
}

// stackLines formats frames as "func file:line", dropping the runtime frames
// that end every goroutine.
func stackLines(stack errors.StackTrace) []string {
	pcs := make([]uintptr, len(stack))
	for i, frame := range stack {
		pcs[i] = uintptr(frame)
	}

	lines := make([]string, 0, len(pcs))
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		if frame.Function == "" {
			lines = append(lines, "unknown")
		} else {
			lines = append(lines, fmt.Sprintf("%s %s:%d", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}

	for len(lines) > 1 && strings.HasPrefix(lines[len(lines)-1], "runtime.") {
		lines = lines[:len(lines)-1]
	}
	return lines
}
