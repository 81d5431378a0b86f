package bot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/akramEbadiDme/akinglish-bot/internal/telegram"
)

const connectivityTimeout = 10 * time.Second

// Identifier reports which bot the token belongs to.
type Identifier interface {
	GetMe(ctx context.Context) (*telegram.User, error)
}

// CheckConnectivity calls getMe once and logs the outcome. The bot keeps starting either way;
// the error is returned so callers can surface it elsewhere.
func CheckConnectivity(ctx context.Context, api Identifier, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, connectivityTimeout)
	defer cancel()

	me, err := api.GetMe(ctx)
	if err != nil {
		logger.Warn("telegram connectivity check failed", zap.Error(err))
		return err
	}
	logger.Info("telegram connectivity ok",
		zap.Int64("bot_id", me.ID),
		zap.String("bot_username", me.Username),
	)
	return nil
}
