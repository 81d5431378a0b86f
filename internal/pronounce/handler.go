// Package pronounce turns a word into the sequence of replies the bot sends back:
// dictionary links, phonetics, then one audio clip (or notice) per accent.
package pronounce

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/akramEbadiDme/akinglish-bot/internal/dictionary"
	"github.com/akramEbadiDme/akinglish-bot/internal/metrics"
	"github.com/akramEbadiDme/akinglish-bot/internal/spool"
)

// Audio is an audio attachment staged on disk.
type Audio struct {
	Path     string
	FileName string
	Caption  string
}

// Replier sends replies into the chat the word came from.
type Replier interface {
	ReplyText(ctx context.Context, text string) error
	ReplyAudio(ctx context.Context, audio Audio) error
}

// Source scrapes the dictionary. dictionary.Scraper satisfies it.
type Source interface {
	Phonetics(ctx context.Context, word string) (dictionary.Phonetics, bool)
	Audio(ctx context.Context, word string) dictionary.AudioMap
}

// Handler assembles the replies for one word at a time.
type Handler struct {
	source     Source
	downloader dictionary.Fetcher
	links      dictionary.LinkBuilder
	spool      *spool.Spool
	logger     *zap.Logger
}

// NewHandler constructs a Handler. downloader fetches the audio files.
func NewHandler(
	source Source,
	downloader dictionary.Fetcher,
	links dictionary.LinkBuilder,
	sp *spool.Spool,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		source:     source,
		downloader: downloader,
		links:      links,
		spool:      sp,
		logger:     logger,
	}
}

// lookup is everything learned about one word. Stages fill it in order and pass copies on.
type lookup struct {
	word      string
	links     dictionary.Links
	phonetics dictionary.Phonetics
	audio     dictionary.AudioMap
}

// Handle runs the reply sequence for word. Scrape and per-accent failures are reported to
// the chat; only failures to send the links, phonetics or "not found" replies are returned.
func (h *Handler) Handle(ctx context.Context, word string, r Replier) error {
	l := lookup{word: word, links: h.links.Build(word)}
	logger := h.logger.With(zap.String("word", word))

	if err := r.ReplyText(ctx, linksMessage(l)); err != nil {
		metrics.ObserveLookup("failed")
		return fmt.Errorf("send links: %w", err)
	}

	if p, ok := h.source.Phonetics(ctx, word); ok {
		l.phonetics = p
	}
	if !l.phonetics.Empty() {
		if err := r.ReplyText(ctx, phoneticsMessage(l)); err != nil {
			metrics.ObserveLookup("failed")
			return fmt.Errorf("send phonetics: %w", err)
		}
	}

	l.audio = h.source.Audio(ctx, word)
	if len(l.audio) == 0 {
		logger.Info("no pronunciation audio found")
		metrics.ObserveLookup("no_audio")
		if err := r.ReplyText(ctx, noPronunciationMessage); err != nil {
			return fmt.Errorf("send not found: %w", err)
		}
		return nil
	}

	for _, accent := range dictionary.Accents {
		h.deliverAccent(ctx, l, accent, r, logger)
	}
	metrics.ObserveLookup("complete")
	return nil
}

func (h *Handler) deliverAccent(ctx context.Context, l lookup, accent dictionary.Accent, r Replier, logger *zap.Logger) {
	logger = logger.With(zap.String("accent", string(accent)))

	url, ok := l.audio[accent]
	if !ok {
		metrics.ObserveAudioDelivery(string(accent), "missing")
		h.replyText(ctx, r, accentMissingMessage(accent), logger)
		return
	}

	outcome, err := h.sendAudio(ctx, l, accent, url, r)
	if err != nil {
		logger.Warn("audio delivery failed", zap.String("url", url), zap.Error(err))
		metrics.ObserveAudioDelivery(string(accent), "error")
		h.replyText(ctx, r, accentErrorMessage(accent, err), logger)
		return
	}
	metrics.ObserveAudioDelivery(string(accent), outcome)
}

func (h *Handler) sendAudio(ctx context.Context, l lookup, accent dictionary.Accent, url string, r Replier) (string, error) {
	page, err := h.downloader.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	if page.StatusCode != http.StatusOK || !isAudio(page.ContentType()) {
		h.logger.Info("audio download rejected",
			zap.String("url", url),
			zap.Int("status", page.StatusCode),
			zap.String("content_type", page.ContentType()),
		)
		if err := r.ReplyText(ctx, downloadFailedMessage(l, accent)); err != nil {
			return "", fmt.Errorf("send download failure: %w", err)
		}
		return "download_failed", nil
	}

	fileName := fmt.Sprintf("%s_%s.mp3", dictionary.Slug(l.word), accent)
	err = h.spool.WithFile(fmt.Sprintf("%s_%s-*.mp3", dictionary.Slug(l.word), accent), page.Body, func(path string) error {
		return r.ReplyAudio(ctx, Audio{
			Path:     path,
			FileName: fileName,
			Caption:  caption(l, accent),
		})
	})
	if err != nil {
		return "", fmt.Errorf("send audio: %w", err)
	}
	return "sent", nil
}

func (h *Handler) replyText(ctx context.Context, r Replier, text string, logger *zap.Logger) {
	if err := r.ReplyText(ctx, text); err != nil {
		logger.Error("reply failed", zap.Error(err))
	}
}

func isAudio(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "audio")
}
