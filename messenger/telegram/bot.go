package telegram

import (
	"context"
	"fmt"
	"sync"

	"github.com/EPecherkin/innergy-chat/chat"
	"github.com/EPecherkin/innergy-chat/deps"
	"github.com/EPecherkin/innergy-chat/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

const (
	TIMEOUT = 60
	OFFSET  = 0
)

// botAPI is the part of tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot serves one chat Session per Telegram chat.
type Bot struct {
	tgbot    botAPI
	registry *chat.Registry

	mu       sync.Mutex
	sessions map[int64]*chat.Session
	wg       sync.WaitGroup

	deps deps.Deps
}

func CreateBot(token string, debug bool, registry *chat.Registry, deps deps.Deps) (*Bot, error) {
	deps = deps.WithCaller("telegram bot")
	deps.Logger.Debug("Creating telegram bot")
	tgbot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot client: %w", errors.WithStack(err))
	}
	tgbot.Debug = debug
	deps.Logger.Info("Authorized on account " + tgbot.Self.UserName)

	return newBot(tgbot, registry, deps), nil
}

func newBot(tgbot botAPI, registry *chat.Registry, deps deps.Deps) *Bot {
	return &Bot{tgbot: tgbot, registry: registry, sessions: make(map[int64]*chat.Session), deps: deps}
}

// Run handles updates until ctx is cancelled, then waits for in-flight replies to be delivered.
func (bot *Bot) Run(ctx context.Context) {
	bot.deps.Logger.With("timeout", TIMEOUT).With("offset", OFFSET).Info("listening for updates")
	updateConfig := tgbotapi.NewUpdate(OFFSET)
	updateConfig.Timeout = TIMEOUT
	updates := bot.tgbot.GetUpdatesChan(updateConfig)

	defer bot.wg.Wait()
	defer bot.tgbot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			bot.deps.Logger.Info("Bot update wait interrupted")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			bot.handleUpdate(ctx, update)
		}
	}
}

func (bot *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.Chat == nil {
		return
	}
	chatID := message.Chat.ID
	lgr := bot.deps.Logger.With(logger.CHAT_ID, chatID)
	lgr.Debug("bot received update")

	if message.IsCommand() {
		switch message.Command() {
		case "start", "reset":
			bot.reset(chatID)
			bot.send(chatID, GREETING)
			return
		}
	}

	session := bot.sessionFor(chatID)
	done, err := session.Submit(ctx, message.Text)
	switch {
	case errors.Is(err, chat.ErrBlankInput):
		return
	case errors.Is(err, chat.ErrPending):
		bot.send(chatID, STILL_THINKING)
		return
	case err != nil:
		lgr.With(logger.ERROR, err).Error("failed to submit message")
		return
	}

	placeholder := bot.send(chatID, THINKING)
	bot.wg.Add(1)
	go bot.goRespond(chatID, placeholder, done)
}

// goRespond replaces the "Thinking…" placeholder with the reply or the error text.
func (bot *Bot) goRespond(chatID int64, placeholder *tgbotapi.Message, done <-chan chat.Outcome) {
	defer bot.wg.Done()
	defer func() {
		if err := recover(); err != nil {
			bot.deps.Logger.With(logger.ERROR, err).Error("panic in goRespond")
		}
	}()

	outcome := <-done
	text := outcome.Reply
	if outcome.Failed {
		text = outcome.Error
	}

	if placeholder == nil {
		bot.send(chatID, text)
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, placeholder.MessageID, text)
	if _, err := bot.tgbot.Send(edit); err != nil {
		bot.deps.Logger.With(logger.ERROR, errors.WithStack(err), logger.CHAT_ID, chatID).Error("Failed to update message")
	}
}

func (bot *Bot) sessionFor(chatID int64) *chat.Session {
	bot.mu.Lock()
	defer bot.mu.Unlock()
	session, ok := bot.sessions[chatID]
	if !ok {
		session = bot.registry.Open()
		bot.sessions[chatID] = session
	}
	return session
}

func (bot *Bot) reset(chatID int64) {
	bot.mu.Lock()
	defer bot.mu.Unlock()
	session, ok := bot.sessions[chatID]
	if !ok {
		return
	}
	delete(bot.sessions, chatID)
	if err := bot.registry.Close(session.ID()); err != nil {
		bot.deps.Logger.With(logger.ERROR, err).Warn("closing session")
	}
}

func (bot *Bot) send(chatID int64, text string) *tgbotapi.Message {
	message, err := bot.tgbot.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		bot.deps.Logger.With(logger.ERROR, errors.WithStack(err), logger.CHAT_ID, chatID).Error("Failed to send message")
		return nil
	}
	return &message
}
