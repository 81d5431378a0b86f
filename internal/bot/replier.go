package bot

import (
	"context"
	"fmt"

	"github.com/akramEbadiDme/akinglish-bot/internal/pronounce"
	"github.com/akramEbadiDme/akinglish-bot/internal/telegram"
)

// ChatReplier answers one incoming message, quoting it.
type ChatReplier struct {
	sender    Sender
	chatID    int64
	messageID int
}

// NewChatReplier binds replies to a chat and the message being answered.
func NewChatReplier(sender Sender, chatID int64, messageID int) *ChatReplier {
	return &ChatReplier{sender: sender, chatID: chatID, messageID: messageID}
}

// ReplyText sends a plain-text reply.
func (r *ChatReplier) ReplyText(ctx context.Context, text string) error {
	_, err := r.sender.SendMessage(ctx, telegram.SendMessageRequest{
		ChatID:           r.chatID,
		Text:             text,
		ReplyToMessageID: r.messageID,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// ReplyAudio uploads the staged audio file with its caption.
func (r *ChatReplier) ReplyAudio(ctx context.Context, audio pronounce.Audio) error {
	_, err := r.sender.SendAudio(ctx, telegram.SendAudioUpload{
		ChatID:           r.chatID,
		FilePath:         audio.Path,
		FileName:         audio.FileName,
		Caption:          audio.Caption,
		ReplyToMessageID: r.messageID,
	})
	if err != nil {
		return fmt.Errorf("send audio: %w", err)
	}
	return nil
}
