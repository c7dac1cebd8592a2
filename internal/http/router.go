package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/likexephinh-dev/ThuChiPro/internal/http/backup"
	"github.com/likexephinh-dev/ThuChiPro/internal/http/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/http/cloudsync"
	"github.com/likexephinh-dev/ThuChiPro/internal/http/dashboard"
	"github.com/likexephinh-dev/ThuChiPro/internal/http/report"
	"github.com/likexephinh-dev/ThuChiPro/internal/http/transaction"
)

func New(
	origins []string,
	gatherer prometheus.Gatherer,
	categoriesV1 *category.Handler,
	transactionsV1 *transaction.Handler,
	dashboardV1 *dashboard.Handler,
	reportsV1 *report.Handler,
	backupV1 *backup.Handler,
	syncV1 *cloudsync.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			categoriesV1.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			dashboardV1.Routes(r)
		})

		r.Route("/reports", reportsV1.Routes)

		r.Route("/backup", backupV1.Routes)

		r.Route("/sync", syncV1.Routes)
	})

	return router
}
