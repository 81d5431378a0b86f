package bot

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/akramEbadiDme/akinglish-bot/internal/pronounce"
)

// WriterReplier prints replies instead of sending them, for offline lookups.
type WriterReplier struct {
	w io.Writer
}

// NewWriterReplier writes replies to w.
func NewWriterReplier(w io.Writer) *WriterReplier {
	return &WriterReplier{w: w}
}

// ReplyText prints text followed by a blank line.
func (r *WriterReplier) ReplyText(_ context.Context, text string) error {
	if _, err := fmt.Fprintf(r.w, "%s\n\n", text); err != nil {
		return fmt.Errorf("write reply: %w", err)
	}
	return nil
}

// ReplyAudio prints the caption and the size of the staged file. The file itself is
// gone once the reply returns.
func (r *WriterReplier) ReplyAudio(_ context.Context, audio pronounce.Audio) error {
	info, err := os.Stat(audio.Path)
	if err != nil {
		return fmt.Errorf("stat audio: %w", err)
	}
	if _, err := fmt.Fprintf(r.w, "[audio %s, %d bytes]\n%s\n\n", audio.FileName, info.Size(), audio.Caption); err != nil {
		return fmt.Errorf("write reply: %w", err)
	}
	return nil
}
