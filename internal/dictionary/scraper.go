package dictionary

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/akramEbadiDme/akinglish-bot/internal/metrics"
)

// Scrape stages, used as log and metric labels.
const (
	stagePhonetics = "phonetics"
	stageAudio     = "audio"
)

// ErrEntryNotFound is returned by Scraper.Entry when the page did not answer 200 OK.
var ErrEntryNotFound = errors.New("dictionary entry not found")

// Scraper reads Longman entry pages.
type Scraper struct {
	fetcher Fetcher
	links   LinkBuilder
	logger  *zap.Logger
}

// NewScraper constructs a Scraper.
func NewScraper(fetcher Fetcher, links LinkBuilder, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{
		fetcher: fetcher,
		links:   links,
		logger:  logger,
	}
}

// Entry fetches and parses the Longman page for word.
func (s *Scraper) Entry(ctx context.Context, word string) (Document, error) {
	url := s.links.Longman(word)
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if page.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrEntryNotFound, url, page.StatusCode)
	}
	doc, err := ParseDocument(page.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// Phonetics returns the word's hyphenation and transcriptions. The boolean is false when
// the page could not be loaded; failures are logged and never returned.
func (s *Scraper) Phonetics(ctx context.Context, word string) (Phonetics, bool) {
	doc, err := s.Entry(ctx, word)
	if err != nil {
		s.logFailure(stagePhonetics, word, err)
		return Phonetics{}, false
	}
	p := ExtractPhonetics(doc)
	metrics.ObserveScrape(stagePhonetics, outcomeFor(!p.Empty()))
	return p, true
}

// Audio returns the pronunciation mp3 URLs for word, fetching the page again.
// Any failure yields an empty map.
func (s *Scraper) Audio(ctx context.Context, word string) AudioMap {
	doc, err := s.Entry(ctx, word)
	if err != nil {
		s.logFailure(stageAudio, word, err)
		return AudioMap{}
	}
	audio := ExtractAudio(doc)
	metrics.ObserveScrape(stageAudio, outcomeFor(len(audio) > 0))
	return audio
}

func (s *Scraper) logFailure(stage, word string, err error) {
	outcome := "error"
	if errors.Is(err, ErrEntryNotFound) {
		outcome = "not_found"
	}
	metrics.ObserveScrape(stage, outcome)
	s.logger.Info("longman scrape degraded",
		zap.String("stage", stage),
		zap.String("word", word),
		zap.Error(err),
	)
}

func outcomeFor(found bool) string {
	if found {
		return "found"
	}
	return "empty"
}
