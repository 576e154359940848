package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avilaruiz/billbook-backend/api/controllers"
	"github.com/avilaruiz/billbook-backend/api/middleware"
	"github.com/avilaruiz/billbook-backend/internal/bills"
	"github.com/avilaruiz/billbook-backend/internal/dashboard"
	"github.com/avilaruiz/billbook-backend/internal/export"
	"github.com/avilaruiz/billbook-backend/pkg/config"
	"github.com/avilaruiz/billbook-backend/pkg/db"
	"github.com/avilaruiz/billbook-backend/pkg/logger"
	"github.com/avilaruiz/billbook-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	billsService *bills.Service,
	dashboardService *dashboard.Service,
	pdfRenderer *export.Renderer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/bills", controllers.BillList(billsService, logg))
		r.Post("/bills", controllers.BillCreate(billsService, logg))
		r.Get("/bills/{billId}", controllers.BillDetail(billsService, logg))
		r.Put("/bills/{billId}", controllers.BillUpdate(billsService, logg))
		r.Delete("/bills/{billId}", controllers.BillDelete(billsService, logg))
		r.Get("/bills/{billId}/pdf", controllers.BillExportPDF(billsService, pdfRenderer, logg))

		r.Get("/customers/{customerName}/bills", controllers.CustomerBills(billsService, logg))
		r.Get("/dashboard/stats", controllers.DashboardStats(dashboardService, logg))
	})

	return r
}
