package controllers

import (
	"context"
	"net/http"

	"github.com/avilaruiz/billbook-backend/api/responses"
	"github.com/avilaruiz/billbook-backend/api/validators"
	"github.com/avilaruiz/billbook-backend/internal/dashboard"
	pkgerrors "github.com/avilaruiz/billbook-backend/pkg/errors"
	"github.com/avilaruiz/billbook-backend/pkg/logger"
)

// StatsService is the dashboard surface the HTTP layer depends on.
type StatsService interface {
	Stats(ctx context.Context, customerName string) (*dashboard.Stats, error)
}

// DashboardStats returns count and money sums over the persisted bills.
func DashboardStats(svc StatsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		customer := validators.SanitizeString(r.URL.Query().Get("customer"), maxNameLength)
		stats, err := svc.Stats(ctx, customer)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
