package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/EPecherkin/innergy-chat/chat"
	"github.com/EPecherkin/innergy-chat/deps"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	nextID  int
	updates chan tgbotapi.Update
	stopped bool
}

func (api *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.sent = append(api.sent, c)
	api.nextID++
	return tgbotapi.Message{MessageID: api.nextID}, nil
}

func (api *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return api.updates
}

func (api *fakeAPI) StopReceivingUpdates() {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.stopped = true
}

func (api *fakeAPI) Sent() []tgbotapi.Chattable {
	api.mu.Lock()
	defer api.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), api.sent...)
}

type fakeClient struct {
	mu      sync.Mutex
	reply   string
	err     error
	release chan struct{}
	prior   [][]chat.Message
}

func (client *fakeClient) Send(_ context.Context, prior []chat.Message, _ string) (string, error) {
	if client.release != nil {
		<-client.release
	}
	client.mu.Lock()
	defer client.mu.Unlock()
	client.prior = append(client.prior, prior)
	return client.reply, client.err
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: chatID}}}
}

func commandUpdate(chatID int64, command string) tgbotapi.Update {
	update := textUpdate(chatID, "/"+command)
	update.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command) + 1}}
	return update
}

func setupBot(client chat.Client) (*Bot, *fakeAPI, *chat.Registry) {
	api := &fakeAPI{updates: make(chan tgbotapi.Update)}
	d := deps.NewDeps(nil, nil)
	registry := chat.NewRegistry(client, d)
	return newBot(api, registry, d), api, registry
}

func TestReplyReplacesPlaceholder(t *testing.T) {
	bot, api, _ := setupBot(&fakeClient{reply: "Hi there"})

	bot.handleUpdate(context.Background(), textUpdate(42, "Hello"))
	bot.wg.Wait()

	sent := api.Sent()
	require.Len(t, sent, 2)
	placeholder, ok := sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), placeholder.ChatID)
	assert.Equal(t, THINKING, placeholder.Text)

	edit, ok := sent[1].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 1, edit.MessageID)
	assert.Equal(t, "Hi there", edit.Text)
}

func TestFailureShowsStaticError(t *testing.T) {
	bot, api, _ := setupBot(&fakeClient{err: errors.New("connection refused")})

	bot.handleUpdate(context.Background(), textUpdate(42, "test"))
	bot.wg.Wait()

	sent := api.Sent()
	require.Len(t, sent, 2)
	edit := sent[1].(tgbotapi.EditMessageTextConfig)
	assert.Equal(t, chat.FAILURE_MESSAGE, edit.Text)
}

func TestBlankAndPendingMessages(t *testing.T) {
	client := &fakeClient{reply: "ok", release: make(chan struct{})}
	bot, api, _ := setupBot(client)

	bot.handleUpdate(context.Background(), textUpdate(42, "   "))
	assert.Empty(t, api.Sent())

	bot.handleUpdate(context.Background(), textUpdate(42, "first"))
	bot.handleUpdate(context.Background(), textUpdate(42, "second"))
	close(client.release)
	bot.wg.Wait()

	sent := api.Sent()
	require.Len(t, sent, 3)
	assert.Equal(t, THINKING, sent[0].(tgbotapi.MessageConfig).Text)
	assert.Equal(t, STILL_THINKING, sent[1].(tgbotapi.MessageConfig).Text)
	assert.Equal(t, "ok", sent[2].(tgbotapi.EditMessageTextConfig).Text)
}

func TestChatsHaveSeparateTranscripts(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	bot, _, registry := setupBot(client)

	bot.handleUpdate(context.Background(), textUpdate(1, "Hello"))
	bot.wg.Wait()
	bot.handleUpdate(context.Background(), textUpdate(2, "Hello"))
	bot.wg.Wait()
	bot.handleUpdate(context.Background(), textUpdate(1, "Again"))
	bot.wg.Wait()

	assert.Equal(t, 2, registry.Len())
	require.Len(t, client.prior, 3)
	assert.Empty(t, client.prior[1])
	assert.Equal(t, []chat.Message{chat.UserMessage("Hello"), chat.BotMessage("ok")}, client.prior[2])
}

func TestStartResetsSession(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	bot, api, registry := setupBot(client)

	bot.handleUpdate(context.Background(), textUpdate(7, "Hello"))
	bot.wg.Wait()
	require.Equal(t, 1, registry.Len())

	bot.handleUpdate(context.Background(), commandUpdate(7, "start"))
	assert.Zero(t, registry.Len())
	sent := api.Sent()
	assert.Equal(t, GREETING, sent[len(sent)-1].(tgbotapi.MessageConfig).Text)

	bot.handleUpdate(context.Background(), textUpdate(7, "Fresh"))
	bot.wg.Wait()
	require.Len(t, client.prior, 2)
	assert.Empty(t, client.prior[1])
}

func TestRunStopsOnCancel(t *testing.T) {
	bot, api, _ := setupBot(&fakeClient{reply: "ok"})
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		bot.Run(ctx)
		close(stopped)
	}()

	api.updates <- textUpdate(3, "Hello")
	cancel()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("bot did not stop")
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.True(t, api.stopped)
	assert.Len(t, api.sent, 2)
}
