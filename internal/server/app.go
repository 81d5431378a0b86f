package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/akramEbadiDme/akinglish-bot/internal/bot"
	"github.com/akramEbadiDme/akinglish-bot/internal/config"
	"github.com/akramEbadiDme/akinglish-bot/internal/dictionary"
	collyfetcher "github.com/akramEbadiDme/akinglish-bot/internal/fetcher/colly"
	"github.com/akramEbadiDme/akinglish-bot/internal/id/uuid"
	"github.com/akramEbadiDme/akinglish-bot/internal/metrics"
	"github.com/akramEbadiDme/akinglish-bot/internal/policy/ratelimit"
	"github.com/akramEbadiDme/akinglish-bot/internal/pronounce"
	"github.com/akramEbadiDme/akinglish-bot/internal/spool"
	"github.com/akramEbadiDme/akinglish-bot/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

// App contains the application's dependencies.
type App struct {
	cfg     config.Config
	logger  *zap.Logger
	lookups *pronounce.Handler
	client  *telegram.Client
}

// Build creates the lookup pipeline shared by every entry point. The Telegram client is
// only created when a token is configured.
func Build(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()

	limiter := ratelimit.New(ratelimit.Config{
		RPS:   cfg.HTTP.RequestsPerSecond,
		Burst: cfg.HTTP.Burst,
	})
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:    cfg.HTTP.UserAgent,
		Timeout:      cfg.FetchTimeout(),
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
	}, limiter, logger)
	links := dictionary.NewLinkBuilder(cfg.Dictionary.LongmanBaseURL, cfg.Dictionary.OxfordBaseURL)
	scraper := dictionary.NewScraper(fetcher, links, logger)

	sp, err := spool.New(spool.Config{Dir: cfg.Spool.Dir})
	if err != nil {
		return nil, fmt.Errorf("spool init failed: %w", err)
	}

	app := &App{
		cfg:     cfg,
		logger:  logger,
		lookups: pronounce.NewHandler(scraper, fetcher, links, sp, logger),
	}
	if cfg.Telegram.Token != "" {
		app.client = telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.APIBaseURL)
	}
	return app, nil
}

// Lookups returns the reply assembler.
func (a *App) Lookups() *pronounce.Handler {
	return a.lookups
}

// Run polls Telegram until the context is canceled or SIGINT/SIGTERM arrives. The ops
// server runs alongside when enabled.
func (a *App) Run(ctx context.Context) error {
	if err := a.cfg.RequireToken(); err != nil {
		return err
	}
	if a.client == nil {
		return errors.New("telegram client not initialized")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A failed check is not fatal: polling retries on its own.
	_ = bot.CheckConnectivity(ctx, a.client, a.logger)

	dispatcher := bot.NewDispatcher(a.lookups, a.client, uuid.New(), a.logger)
	poller := telegram.NewPoller(a.client, dispatcher, telegram.PollerConfig{
		TimeoutSeconds: a.cfg.Telegram.PollTimeoutSeconds,
		MaxConcurrent:  a.cfg.Telegram.ConcurrentUpdates,
	}, a.logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.logger.Info("bot is running")
		poller.Run(ctx)
	}()

	var srv *http.Server
	if a.cfg.Server.Enabled {
		srv = &http.Server{
			Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
			Handler:           NewRouter(a.ready, a.logger),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			a.logger.Info("ops server started", zap.Int("port", a.cfg.Server.Port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("ops server error", zap.Error(err))
				stop()
			}
		}()
	}

	<-ctx.Done()
	a.logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown error", zap.Error(err))
		}
	}
	wg.Wait()

	return a.Close()
}

// ready is the /readyz probe: the Bot API must answer getMe.
func (a *App) ready(ctx context.Context) error {
	if _, err := a.client.GetMe(ctx); err != nil {
		return fmt.Errorf("telegram getMe: %w", err)
	}
	return nil
}

// Close flushes the logger.
func (a *App) Close() error {
	a.logger.Info("shutdown complete")
	// Sync fails on stdout/stderr for some platforms; nothing useful to do about it.
	_ = a.logger.Sync()
	return nil
}
