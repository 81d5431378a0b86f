// Package bot routes Telegram updates: /start gets a greeting, any other text is looked up.
package bot

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/akramEbadiDme/akinglish-bot/internal/metrics"
	"github.com/akramEbadiDme/akinglish-bot/internal/pronounce"
	"github.com/akramEbadiDme/akinglish-bot/internal/telegram"
)

// Greeting is the reply to /start.
const Greeting = "Hi! 👋 Send a word or phrase and I'll reply with its Longman pronunciation, phonetics and dictionary links."

// Update kinds recorded in metrics.
const (
	kindStart   = "start"
	kindWord    = "word"
	kindCommand = "command"
	kindIgnored = "ignored"
)

// WordHandler answers one word. pronounce.Handler satisfies it.
type WordHandler interface {
	Handle(ctx context.Context, word string, r pronounce.Replier) error
}

// Sender is the slice of the Bot API the dispatcher replies through.
type Sender interface {
	SendMessage(ctx context.Context, req telegram.SendMessageRequest) (*telegram.Message, error)
	SendAudio(ctx context.Context, req telegram.SendAudioUpload) (*telegram.Message, error)
}

// IDGenerator mints correlation ids.
type IDGenerator interface {
	NewID() (string, error)
}

// Dispatcher implements telegram.UpdateHandler.
type Dispatcher struct {
	words  WordHandler
	sender Sender
	ids    IDGenerator
	logger *zap.Logger
}

// NewDispatcher wires a Dispatcher. ids may be nil, in which case updates carry no correlation id.
func NewDispatcher(words WordHandler, sender Sender, ids IDGenerator, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		words:  words,
		sender: sender,
		ids:    ids,
		logger: logger,
	}
}

// HandleUpdate processes one update. Failures are logged; nothing is retried.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update telegram.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		metrics.ObserveUpdate(kindIgnored)
		return
	}

	logger := d.logger.With(
		zap.String("correlation_id", d.correlationID()),
		zap.Int("update_id", update.UpdateID),
		zap.Int64("chat_id", msg.Chat.ID),
	)
	replier := NewChatReplier(d.sender, msg.Chat.ID, msg.MessageID)

	if cmd, ok := msg.Command(); ok {
		if cmd != "start" {
			metrics.ObserveUpdate(kindCommand)
			logger.Debug("ignoring command", zap.String("command", cmd))
			return
		}
		metrics.ObserveUpdate(kindStart)
		logger.Info("start command received")
		if err := replier.ReplyText(ctx, Greeting); err != nil {
			logger.Error("greeting failed", zap.Error(err))
		}
		return
	}

	word := strings.TrimSpace(msg.Text)
	if word == "" {
		metrics.ObserveUpdate(kindIgnored)
		return
	}
	metrics.ObserveUpdate(kindWord)
	logger.Info("message received", zap.String("word", word))

	if err := d.words.Handle(ctx, word, replier); err != nil {
		logger.Error("lookup reply failed", zap.String("word", word), zap.Error(err))
	}
}

func (d *Dispatcher) correlationID() string {
	if d.ids == nil {
		return ""
	}
	id, err := d.ids.NewID()
	if err != nil {
		d.logger.Warn("correlation id unavailable", zap.Error(err))
		return ""
	}
	return id
}
