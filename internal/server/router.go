// Package server wires the bot together and serves the ops endpoints next to it.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/akramEbadiDme/akinglish-bot/internal/metrics"
)

const readinessTimeout = 5 * time.Second

// ReadinessFunc reports whether the bot can currently reach its dependencies.
type ReadinessFunc func(ctx context.Context) error

// NewRouter returns the ops router: /healthz, /readyz and /metrics. A nil ready always
// reports ready.
func NewRouter(ready ReadinessFunc, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(req.Context(), readinessTimeout)
			defer cancel()
			if err := ready(ctx); err != nil {
				logger.Warn("readiness check failed", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}, logger)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, logger)
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

func recoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", zap.Any("error", rec), zap.String("path", r.URL.Path))
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"}, logger)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("write JSON failed", zap.Error(err))
	}
}
