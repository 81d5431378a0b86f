// Package collyfetcher implements dictionary.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/akramEbadiDme/akinglish-bot/internal/dictionary"
	"github.com/akramEbadiDme/akinglish-bot/internal/metrics"
)

// DefaultUserAgent is a browser-like agent; Longman rejects the Go and Colly defaults.
const DefaultUserAgent = "Mozilla/5.0"

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxBodyBytes = 10 << 20
)

// Config controls collector behavior.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int
}

// Throttle delays a request until its host may be contacted again.
// ratelimit.Limiter satisfies it.
type Throttle interface {
	Wait(ctx context.Context, url string) error
}

// Fetcher implements dictionary.Fetcher using the Colly collector.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
	throttle      Throttle
	logger        *zap.Logger
}

type collectorHooks interface {
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher. throttle may be nil.
func New(cfg Config, throttle Throttle, logger *zap.Logger) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Every message loads the same entry page twice, so revisits must be allowed.
	// Error statuses are delivered as responses; callers decide what a 404 means.
	c := colly.NewCollector(
		colly.Async(false),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(cfg.MaxBodyBytes),
	)
	c.WithTransport(newHTTPTransport())
	c.SetRequestTimeout(cfg.Timeout)

	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
		throttle:      throttle,
		logger:        logger,
	}
}

// Fetch executes a single HTTP GET using Colly.
func (f *Fetcher) Fetch(ctx context.Context, url string) (dictionary.Page, error) {
	var (
		result   dictionary.Page
		fetchErr error
	)
	if f.throttle != nil {
		if err := f.throttle.Wait(ctx, url); err != nil {
			return dictionary.Page{}, err
		}
	}

	start := time.Now()
	collector := f.baseCollector.Clone()
	f.configureCollectorHooks(collector, &result, &fetchErr)

	if err := f.runCollector(ctx, collector, url, &fetchErr); err != nil {
		metrics.ObserveFetch(url, "error", 0, time.Since(start))
		f.logger.Debug("fetch failed", zap.String("url", url), zap.Error(err))
		return dictionary.Page{}, err
	}

	metrics.ObserveFetch(url, strconv.Itoa(result.StatusCode), len(result.Body), time.Since(start))
	f.logger.Debug("fetched",
		zap.String("url", url),
		zap.Int("status", result.StatusCode),
		zap.Int("bytes", len(result.Body)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (f *Fetcher) configureCollectorHooks(hooks collectorHooks, result *dictionary.Page, fetchErr *error) {
	hooks.OnResponse(func(r *colly.Response) {
		page := dictionary.Page{
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
		}
		if r.Request != nil && r.Request.URL != nil {
			page.URL = r.Request.URL.String()
		}
		if r.Headers != nil {
			page.Headers = r.Headers.Clone()
		}
		*result = page
	})

	hooks.OnError(func(_ *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		*fetchErr = err
	})
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
	}
}
