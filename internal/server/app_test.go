package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akramEbadiDme/akinglish-bot/internal/bot"
	"github.com/akramEbadiDme/akinglish-bot/internal/config"
	"github.com/akramEbadiDme/akinglish-bot/internal/telegram"
)

func TestBuildWithoutToken(t *testing.T) {
	t.Parallel()

	app, err := Build(testConfig(t, ""), zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, app.Lookups())

	err = app.Run(context.Background())
	require.ErrorContains(t, err, "telegram.token")
}

func TestRunAnswersStartUntilCanceled(t *testing.T) {
	t.Parallel()

	api := newFakeBotAPI(t)
	defer api.Close()

	cfg := testConfig(t, "TOKEN")
	cfg.Telegram.APIBaseURL = api.URL
	cfg.Telegram.PollTimeoutSeconds = 0

	app, err := Build(cfg, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return len(api.sentTexts()) == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.Equal(t, []string{bot.Greeting}, api.sentTexts())
}

func testConfig(t *testing.T, token string) config.Config {
	t.Helper()
	return config.Config{
		Telegram: config.TelegramConfig{Token: token, PollTimeoutSeconds: 30, ConcurrentUpdates: 1},
		HTTP:     config.HTTPConfig{UserAgent: "test", TimeoutSeconds: 5},
		Spool:    config.SpoolConfig{Dir: t.TempDir()},
	}
}

type fakeBotAPI struct {
	*httptest.Server
	mu    sync.Mutex
	texts []string
}

func newFakeBotAPI(t *testing.T) *fakeBotAPI {
	t.Helper()
	f := &fakeBotAPI{}
	mux := http.NewServeMux()
	mux.HandleFunc("/botTOKEN/getMe", func(w http.ResponseWriter, _ *http.Request) {
		reply(t, w, telegram.User{ID: 1, IsBot: true, Username: "akinglish_bot"})
	})
	mux.HandleFunc("/botTOKEN/getUpdates", func(w http.ResponseWriter, r *http.Request) {
		var req telegram.GetUpdatesRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Offset == 0 {
			reply(t, w, []telegram.Update{{
				UpdateID: 1,
				Message: &telegram.Message{
					MessageID: 3,
					Chat:      telegram.Chat{ID: 9},
					Text:      "/start",
					Entities:  []telegram.MessageEntity{{Type: "bot_command", Length: 6}},
				},
			}})
			return
		}
		select {
		case <-r.Context().Done():
		case <-time.After(20 * time.Millisecond):
		}
		reply(t, w, []telegram.Update{})
	})
	mux.HandleFunc("/botTOKEN/sendMessage", func(w http.ResponseWriter, r *http.Request) {
		var req telegram.SendMessageRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.texts = append(f.texts, req.Text)
		f.mu.Unlock()
		reply(t, w, telegram.Message{MessageID: 4, Chat: telegram.Chat{ID: req.ChatID}})
	})
	f.Server = httptest.NewServer(mux)
	return f
}

func (f *fakeBotAPI) sentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func reply[T any](t *testing.T, w http.ResponseWriter, result T) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(telegram.APIResponse[T]{OK: true, Result: result}); err != nil {
		t.Errorf("encode: %v", err)
	}
}
