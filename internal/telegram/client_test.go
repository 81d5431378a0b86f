package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestGetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTEST_TOKEN/getMe" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		writeJSON(t, w, APIResponse[User]{
			OK:     true,
			Result: User{ID: 123, IsBot: true, FirstName: "Akinglish", Username: "akinglish_bot"},
		})
	}))
	defer srv.Close()

	user, err := NewClient("TEST_TOKEN", srv.URL).GetMe(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(123), user.ID)
	require.True(t, user.IsBot)
	require.Equal(t, "akinglish_bot", user.Username)
}

func TestSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ChatID != 42 || req.Text != "Word: hello" || req.ReplyToMessageID != 7 {
			t.Errorf("unexpected request: %+v", req)
		}
		writeJSON(t, w, APIResponse[Message]{OK: true, Result: Message{MessageID: 8, Chat: Chat{ID: 42}}})
	}))
	defer srv.Close()

	msg, err := NewClient("TOKEN", srv.URL).SendMessage(context.Background(), SendMessageRequest{
		ChatID:           42,
		Text:             "Word: hello",
		ReplyToMessageID: 7,
	})
	require.NoError(t, err)
	require.Equal(t, 8, msg.MessageID)
}

func TestSendAudioUploadsMultipart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staged.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3-audio"), 0o600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendAudio" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if got := r.FormValue("chat_id"); got != "42" {
			t.Errorf("chat_id = %q", got)
		}
		if got := r.FormValue("caption"); got != "🔉 British (hello)" {
			t.Errorf("caption = %q", got)
		}
		if got := r.FormValue("reply_to_message_id"); got != "7" {
			t.Errorf("reply_to_message_id = %q", got)
		}
		file, header, err := r.FormFile("audio")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "ID3-audio" || header.Filename != "hello_british.mp3" {
			t.Errorf("unexpected upload %q (%s)", data, header.Filename)
		}
		writeJSON(t, w, APIResponse[Message]{OK: true, Result: Message{
			MessageID: 9,
			Audio:     &Audio{FileID: "f1", FileName: header.Filename},
		}})
	}))
	defer srv.Close()

	msg, err := NewClient("TOKEN", srv.URL).SendAudio(context.Background(), SendAudioUpload{
		ChatID:           42,
		FilePath:         path,
		FileName:         "hello_british.mp3",
		Caption:          "🔉 British (hello)",
		ReplyToMessageID: 7,
	})
	require.NoError(t, err)
	require.Equal(t, "f1", msg.Audio.FileID)
}

func TestSendAudioMissingFile(t *testing.T) {
	client := NewClient("TOKEN", "http://127.0.0.1:1")
	_, err := client.SendAudio(context.Background(), SendAudioUpload{ChatID: 1, FilePath: filepath.Join(t.TempDir(), "gone.mp3")})
	require.ErrorContains(t, err, "open audio file")
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(t, w, APIResponse[json.RawMessage]{OK: false, ErrorCode: 400, Description: "Bad Request: chat not found"})
	}))
	defer srv.Close()

	_, err := NewClient("TOKEN", srv.URL).SendMessage(context.Background(), SendMessageRequest{ChatID: 1, Text: "x"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 400, apiErr.Code)
	require.Equal(t, "telegram: 400 Bad Request: chat not found", apiErr.Error())
}

func TestRateLimitRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			writeJSON(t, w, APIResponse[json.RawMessage]{
				OK:          false,
				ErrorCode:   429,
				Description: "Too Many Requests",
				Parameters:  &ResponseParameters{RetryAfter: 1},
			})
			return
		}
		writeJSON(t, w, APIResponse[Message]{OK: true, Result: Message{MessageID: 1}})
	}))
	defer srv.Close()

	msg, err := NewClient("TOKEN", srv.URL).SendMessage(context.Background(), SendMessageRequest{ChatID: 1, Text: "x"})
	require.NoError(t, err)
	require.Equal(t, 1, msg.MessageID)
	require.Equal(t, int32(2), calls.Load())
}

func TestTransportErrorsRedactToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := NewClient("123:SECRET", addr).GetMe(context.Background())
	require.Error(t, err)
	require.False(t, strings.Contains(err.Error(), "123:SECRET"), err.Error())
}

func TestMessageCommand(t *testing.T) {
	tests := []struct {
		name   string
		msg    *Message
		want   string
		wantOK bool
	}{
		{name: "nil", msg: nil},
		{name: "plain text", msg: &Message{Text: "hello"}},
		{
			name:   "start",
			msg:    &Message{Text: "/start", Entities: []MessageEntity{{Type: "bot_command", Length: 6}}},
			want:   "start",
			wantOK: true,
		},
		{
			name:   "addressed",
			msg:    &Message{Text: "/start@akinglish_bot now", Entities: []MessageEntity{{Type: "bot_command", Length: 20}}},
			want:   "start",
			wantOK: true,
		},
		{
			name: "command not at start",
			msg:  &Message{Text: "say /start", Entities: []MessageEntity{{Type: "bot_command", Offset: 4, Length: 6}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.msg.Command()
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
