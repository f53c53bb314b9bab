package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/EPecherkin/innergy-chat/archive"
	"github.com/EPecherkin/innergy-chat/chat"
	"github.com/EPecherkin/innergy-chat/config"
	"github.com/EPecherkin/innergy-chat/deps"
	"github.com/EPecherkin/innergy-chat/llm"
	"github.com/EPecherkin/innergy-chat/logger"
	"github.com/EPecherkin/innergy-chat/messenger/telegram"
	"github.com/EPecherkin/innergy-chat/render"
	"github.com/EPecherkin/innergy-chat/server"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "{\"error\": \"panic in main: %v\"}\n", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mode := "web"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	if err := run(ctx, mode, os.Args[min(len(os.Args), 2):]); err != nil {
		slog.Default().With(logger.ERROR, err).Error("Failed to run")
		os.Exit(1)
	}
}

func run(ctx context.Context, mode string, args []string) error {
	// The logger is not configured yet; config errors go through the default JSON logger.
	slog.SetDefault(logger.NewLoggerTo(os.Stderr, slog.LevelInfo))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	lgr := logger.NewLogger(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	lgr.Info(fmt.Sprintf("running in '%s' mode", mode), logger.PROVIDER, cfg.Provider, logger.MODEL, cfg.Model)

	var recorder deps.Recorder
	if cfg.ArchiveDSN != "" {
		arch, err := archive.Open(cfg.ArchiveDSN, lgr)
		if err != nil {
			return fmt.Errorf("initializing archive: %w", err)
		}
		defer arch.Close()
		if mode == "archive" {
			return dumpSession(ctx, arch, args, os.Stdout)
		}
		recorder = arch
	}
	if mode == "archive" {
		return errors.New("ARCHIVE_DSN is missing")
	}
	d := deps.NewDeps(lgr, recorder)

	llmClient, err := llm.CreateClient(ctx, cfg, lgr)
	if err != nil {
		return fmt.Errorf("initializing llm client: %w", err)
	}
	registry := chat.NewRegistry(llmClient, d)

	switch mode {
	case "web":
		if cfg.LogLevel > slog.LevelDebug {
			gin.SetMode(gin.ReleaseMode)
		}
		return server.NewServer(registry, render.NewRenderer(), d).Run(ctx, cfg.HttpAddr)
	case "telegram":
		if err := cfg.RequireTelegram(); err != nil {
			return fmt.Errorf("initializing telegram: %w", err)
		}
		bot, err := telegram.CreateBot(cfg.TelegramToken, cfg.LogLevel <= slog.LevelDebug, registry, d)
		if err != nil {
			return fmt.Errorf("initializing telegram: %w", err)
		}
		bot.Run(ctx)
		return nil
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

// dumpSession prints one session's archived exchanges as JSON lines, oldest first.
func dumpSession(ctx context.Context, arch *archive.Archive, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: archive <session-id>")
	}
	exchanges, err := arch.Session(ctx, args[0])
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}
	encoder := json.NewEncoder(out)
	for _, exchange := range exchanges {
		if err := encoder.Encode(exchange); err != nil {
			return fmt.Errorf("writing exchange: %w", errors.WithStack(err))
		}
	}
	return nil
}
