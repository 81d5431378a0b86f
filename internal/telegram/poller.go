package telegram

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	maxConsecutivePollingErrors = 5
	defaultErrorPause           = 30 * time.Second
)

// UpdateHandler processes one update. Errors are the handler's to log.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update Update)
}

// UpdateHandlerFunc adapts a function to UpdateHandler.
type UpdateHandlerFunc func(ctx context.Context, update Update)

// HandleUpdate calls f.
func (f UpdateHandlerFunc) HandleUpdate(ctx context.Context, update Update) {
	f(ctx, update)
}

type updatesClient interface {
	GetUpdates(ctx context.Context, req GetUpdatesRequest) ([]Update, error)
}

// PollerConfig tunes long polling.
type PollerConfig struct {
	// TimeoutSeconds is the getUpdates long-poll timeout.
	TimeoutSeconds int
	// MaxConcurrent bounds how many updates are handled at once. 1 handles them in order.
	MaxConcurrent  int
	AllowedUpdates []string
	// ErrorPause is how long polling backs off after repeated failures.
	ErrorPause time.Duration
}

// Poller implements long-polling for receiving Telegram updates.
type Poller struct {
	client  updatesClient
	handler UpdateHandler
	cfg     PollerConfig
	logger  *zap.Logger
}

// NewPoller creates a new Poller.
func NewPoller(client updatesClient, handler UpdateHandler, cfg PollerConfig, logger *zap.Logger) *Poller {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.ErrorPause <= 0 {
		cfg.ErrorPause = defaultErrorPause
	}
	if len(cfg.AllowedUpdates) == 0 {
		cfg.AllowedUpdates = []string{"message"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		client:  client,
		handler: handler,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run polls until ctx is canceled, then waits for in-flight handlers to return.
func (p *Poller) Run(ctx context.Context) {
	var (
		wg                sync.WaitGroup
		offset            int
		consecutiveErrors int
	)
	slots := make(chan struct{}, p.cfg.MaxConcurrent)
	defer wg.Wait()

	for ctx.Err() == nil {
		updates, err := p.client.GetUpdates(ctx, GetUpdatesRequest{
			Offset:         offset,
			Timeout:        p.cfg.TimeoutSeconds,
			AllowedUpdates: p.cfg.AllowedUpdates,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			consecutiveErrors++
			p.logger.Error("polling getUpdates failed",
				zap.Error(err),
				zap.Int("consecutive_errors", consecutiveErrors),
			)
			if consecutiveErrors >= maxConsecutivePollingErrors {
				p.logger.Warn("polling paused after consecutive errors", zap.Duration("pause", p.cfg.ErrorPause))
				if !sleep(ctx, p.cfg.ErrorPause) {
					return
				}
				consecutiveErrors = 0
			}
			continue
		}
		consecutiveErrors = 0

		for _, update := range updates {
			offset = update.UpdateID + 1
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				return
			}
			wg.Add(1)
			go func(u Update) {
				defer wg.Done()
				defer func() { <-slots }()
				p.handler.HandleUpdate(ctx, u)
			}(update)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
