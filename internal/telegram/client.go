// Package telegram is a small Telegram Bot API client: long polling for updates plus the
// send methods the bot replies with.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

const (
	maxRetries       = 3
	initialBackoff   = time.Second
	maxResponseBytes = 10 << 20
)

// Client is a thin HTTP wrapper around the Telegram Bot API.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Telegram Bot API client. An empty baseURL means DefaultBaseURL.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		token:   token,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// requestBody builds a fresh body for every attempt, returning it with its content type.
type requestBody func() (io.Reader, string, error)

func jsonBody(payload any) requestBody {
	return func() (io.Reader, string, error) {
		if payload == nil {
			return nil, "", nil
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// do sends a JSON POST request to the given Bot API method and decodes the response.
func do[T any](ctx context.Context, c *Client, method string, payload any) (*T, error) {
	return send[T](ctx, c, method, jsonBody(payload))
}

// send POSTs to a Bot API method. It handles 429 rate limiting with Retry-After
// (max 3 attempts, exponential backoff).
func send[T any](ctx context.Context, c *Client, method string, build requestBody) (*T, error) {
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	backoff := initialBackoff

	for attempt := range maxRetries {
		body, contentType, err := build()
		if err != nil {
			return nil, fmt.Errorf("telegram: build %s request: %w", method, err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
		if err != nil {
			return nil, fmt.Errorf("telegram: create %s request: %w", method, err)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			// The URL carries the token; callers log this error, so keep the method only.
			return nil, fmt.Errorf("telegram: %s request failed: %w", method, redact(err, c.token))
		}

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("telegram: read %s response: %w", method, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries-1 {
			var apiResp APIResponse[json.RawMessage]
			if err := json.Unmarshal(respBody, &apiResp); err == nil && apiResp.Parameters != nil && apiResp.Parameters.RetryAfter > 0 {
				backoff = time.Duration(apiResp.Parameters.RetryAfter) * time.Second
			}

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			backoff *= 2
			continue
		}

		var apiResp APIResponse[T]
		if err := json.Unmarshal(respBody, &apiResp); err != nil {
			return nil, fmt.Errorf("telegram: decode %s response: %w", method, err)
		}

		if !apiResp.OK {
			apiErr := &APIError{
				Code:        apiResp.ErrorCode,
				Description: apiResp.Description,
			}
			if apiResp.Parameters != nil {
				apiErr.RetryAfter = apiResp.Parameters.RetryAfter
			}
			return nil, apiErr
		}

		return &apiResp.Result, nil
	}

	return nil, fmt.Errorf("telegram: %s: max retries exceeded", method)
}

// GetUpdatesRequest is the request body for the getUpdates method.
type GetUpdatesRequest struct {
	Offset         int      `json:"offset,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	Timeout        int      `json:"timeout,omitempty"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

// SendMessageRequest is the request body for the sendMessage method.
type SendMessageRequest struct {
	ChatID                int64  `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
	ReplyToMessageID      int    `json:"reply_to_message_id,omitempty"`
}

// SendAudioUpload uploads a local audio file through the sendAudio method.
type SendAudioUpload struct {
	ChatID           int64
	FilePath         string
	FileName         string
	Caption          string
	ReplyToMessageID int
}

// GetMe returns the bot's user information.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	return do[User](ctx, c, "getMe", nil)
}

// GetUpdates fetches incoming updates using long polling.
func (c *Client) GetUpdates(ctx context.Context, req GetUpdatesRequest) ([]Update, error) {
	result, err := do[[]Update](ctx, c, "getUpdates", req)
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// SendMessage sends a text message to the specified chat.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	return do[Message](ctx, c, "sendMessage", req)
}

// SendAudio uploads an audio file to the specified chat as multipart/form-data.
func (c *Client) SendAudio(ctx context.Context, req SendAudioUpload) (*Message, error) {
	return send[Message](ctx, c, "sendAudio", audioUploadBody(req))
}

func audioUploadBody(req SendAudioUpload) requestBody {
	return func() (io.Reader, string, error) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)

		fields := map[string]string{"chat_id": strconv.FormatInt(req.ChatID, 10)}
		if req.Caption != "" {
			fields["caption"] = req.Caption
		}
		if req.ReplyToMessageID != 0 {
			fields["reply_to_message_id"] = strconv.Itoa(req.ReplyToMessageID)
		}
		for _, key := range []string{"chat_id", "caption", "reply_to_message_id"} {
			value, ok := fields[key]
			if !ok {
				continue
			}
			if err := w.WriteField(key, value); err != nil {
				return nil, "", fmt.Errorf("write %s field: %w", key, err)
			}
		}

		name := req.FileName
		if name == "" {
			name = filepath.Base(req.FilePath)
		}
		part, err := w.CreateFormFile("audio", name)
		if err != nil {
			return nil, "", fmt.Errorf("create audio part: %w", err)
		}
		// #nosec G304 -- the path comes from the bot's own spool directory.
		f, err := os.Open(req.FilePath)
		if err != nil {
			return nil, "", fmt.Errorf("open audio file: %w", err)
		}
		_, copyErr := io.Copy(part, f)
		_ = f.Close()
		if copyErr != nil {
			return nil, "", fmt.Errorf("copy audio file: %w", copyErr)
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("close multipart writer: %w", err)
		}
		return &buf, w.FormDataContentType(), nil
	}
}

// tokenRedactedError hides the bot token that net/http embeds in URL errors.
type tokenRedactedError struct {
	msg string
	err error
}

func (e *tokenRedactedError) Error() string { return e.msg }
func (e *tokenRedactedError) Unwrap() error { return e.err }

func redact(err error, token string) error {
	if token == "" {
		return err
	}
	msg := err.Error()
	redacted := strings.ReplaceAll(msg, token, "<redacted>")
	if redacted == msg {
		return err
	}
	return &tokenRedactedError{msg: redacted, err: err}
}
