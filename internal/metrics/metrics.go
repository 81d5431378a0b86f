// Package metrics exposes Prometheus collectors for the bot.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchesTotal               *prometheus.CounterVec
	fetchBytesTotal            *prometheus.CounterVec
	fetchDurationSeconds       *prometheus.HistogramVec
	scrapesTotal               *prometheus.CounterVec
	lookupsTotal               *prometheus.CounterVec
	audioDeliveriesTotal       *prometheus.CounterVec
	updatesTotal               *prometheus.CounterVec
	rateLimitDelaySeconds      *prometheus.HistogramVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		fetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "akinglish_fetches_total",
				Help: "Total number of upstream HTTP fetches, labeled by site and status.",
			},
			[]string{"site", "status"},
		)

		fetchBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "akinglish_fetch_bytes_total",
				Help: "Total number of bytes fetched from upstream sites, labeled by site.",
			},
			[]string{"site"},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "akinglish_fetch_duration_seconds",
				Help:    "Histogram of upstream fetch latencies, labeled by site.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"site"},
		)

		scrapesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "akinglish_scrapes_total",
				Help: "Total number of dictionary page scrapes, labeled by stage and outcome.",
			},
			[]string{"stage", "outcome"},
		)

		lookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "akinglish_lookups_total",
				Help: "Total number of word lookups handled, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		audioDeliveriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "akinglish_audio_deliveries_total",
				Help: "Total number of per-accent audio delivery attempts, labeled by accent and outcome.",
			},
			[]string{"accent", "outcome"},
		)

		updatesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "akinglish_updates_total",
				Help: "Total number of Telegram updates received, labeled by kind.",
			},
			[]string{"kind"},
		)

		rateLimitDelaySeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "akinglish_rate_limit_delay_seconds",
				Help:    "Time spent waiting for the per-host rate limiter.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"site"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch records one upstream fetch. status is the HTTP code or "error".
func ObserveFetch(rawURL, status string, bytesFetched int, duration time.Duration) {
	Init()
	site := SanitizeSite(rawURL)
	fetchesTotal.WithLabelValues(site, status).Inc()
	fetchDurationSeconds.WithLabelValues(site).Observe(duration.Seconds())
	if bytesFetched > 0 {
		fetchBytesTotal.WithLabelValues(site).Add(float64(bytesFetched))
	}
}

// ObserveScrape records the outcome of one dictionary page scrape.
func ObserveScrape(stage, outcome string) {
	Init()
	scrapesTotal.WithLabelValues(stage, outcome).Inc()
}

// ObserveLookup records a completed word lookup.
func ObserveLookup(outcome string) {
	Init()
	lookupsTotal.WithLabelValues(outcome).Inc()
}

// ObserveAudioDelivery records one per-accent delivery attempt.
func ObserveAudioDelivery(accent, outcome string) {
	Init()
	audioDeliveriesTotal.WithLabelValues(accent, outcome).Inc()
}

// ObserveUpdate records a received Telegram update.
func ObserveUpdate(kind string) {
	Init()
	updatesTotal.WithLabelValues(kind).Inc()
}

// ObserveRateLimitDelay records how long a fetch waited for its host's token.
func ObserveRateLimitDelay(site string, delay time.Duration) {
	Init()
	rateLimitDelaySeconds.WithLabelValues(site).Observe(delay.Seconds())
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
