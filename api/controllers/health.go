package controllers

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/multierr"

	"github.com/avilaruiz/billbook-backend/api/responses"
	"github.com/avilaruiz/billbook-backend/pkg/config"
	pkgerrors "github.com/avilaruiz/billbook-backend/pkg/errors"
	"github.com/avilaruiz/billbook-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Billbook-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing dependency answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, db pinger, redis pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Billbook-Env", cfg.App.Env)

		ctx := r.Context()
		var errs error
		if db != nil {
			if err := db.Ping(ctx); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("postgres: %w", err))
			}
		}
		if redis != nil {
			if err := redis.Ping(ctx); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("redis: %w", err))
			}
		}

		if errs != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "dependencies not ready"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
