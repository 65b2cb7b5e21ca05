// Package api wires the HTTP handlers into a gorilla/mux router behind the
// middleware chain.
package api

import (
	"net/http"

	"github.com/dvloznov/card-campaign-analytics/internal/analytics"
	"github.com/dvloznov/card-campaign-analytics/internal/api/handlers"
	"github.com/dvloznov/card-campaign-analytics/internal/api/middleware"
	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	"github.com/dvloznov/card-campaign-analytics/internal/jobs"
	"github.com/dvloznov/card-campaign-analytics/internal/status"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Config holds the router's collaborators.
type Config struct {
	Holder    *analytics.Holder
	Calendar  campaign.Calendar
	Statuses  status.Store
	Jobs      jobs.JobStore
	Publisher jobs.Publisher
	// Source names the dataset source recorded on refresh jobs.
	Source      string
	CORSOrigins []string
	Log         zerolog.Logger
}

// NewRouter builds the API. The middleware order is Recovery, Logger,
// RequestID, CORS.
func NewRouter(cfg Config) http.Handler {
	analyticsHandler := handlers.NewAnalyticsHandler(cfg.Holder, cfg.Calendar, cfg.Log)
	statusHandler := handlers.NewStatusHandler(cfg.Statuses, cfg.Log)
	jobsHandler := handlers.NewJobsHandler(cfg.Jobs, cfg.Publisher, cfg.Source, cfg.Log)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.HandleFunc("/health", handlers.Health(cfg.Holder)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/", handlers.Root).Methods(http.MethodGet)

	api.HandleFunc("/status", statusHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/status", statusHandler.List).Methods(http.MethodGet)

	a := api.PathPrefix("/analytics").Subrouter()
	a.HandleFunc("/overview", analyticsHandler.Overview()).Methods(http.MethodGet)
	a.HandleFunc("/statistical-summary", analyticsHandler.StatisticalSummary()).Methods(http.MethodGet)
	a.HandleFunc("/incremental-revenue", analyticsHandler.IncrementalRevenue()).Methods(http.MethodGet)
	a.HandleFunc("/campaign-response", analyticsHandler.CampaignResponse()).Methods(http.MethodGet)
	a.HandleFunc("/spend-by-category", analyticsHandler.SpendByCategory()).Methods(http.MethodGet)
	a.HandleFunc("/spend-by-region", analyticsHandler.SpendByRegion()).Methods(http.MethodGet)
	a.HandleFunc("/monthly-trends", analyticsHandler.MonthlyTrends()).Methods(http.MethodGet)
	a.HandleFunc("/campaign-effectiveness", analyticsHandler.CampaignEffectiveness()).Methods(http.MethodGet)
	a.HandleFunc("/customer-segmentation", analyticsHandler.CustomerSegmentation()).Methods(http.MethodGet)
	a.HandleFunc("/recommendations", analyticsHandler.Recommendations()).Methods(http.MethodGet)
	a.HandleFunc("/category-trends", analyticsHandler.CategoryTrends()).Methods(http.MethodGet)
	a.HandleFunc("/category-statistics", analyticsHandler.CategoryStatistics()).Methods(http.MethodGet)
	a.HandleFunc("/spend-by-weekday", analyticsHandler.SpendByWeekday()).Methods(http.MethodGet)
	a.HandleFunc("/spend-by-quarter", analyticsHandler.SpendByQuarter()).Methods(http.MethodGet)
	a.HandleFunc("/correlations", analyticsHandler.Correlations()).Methods(http.MethodGet)
	a.HandleFunc("/top-customers", analyticsHandler.TopCustomers).Methods(http.MethodGet)
	a.HandleFunc("/sql-queries", analyticsHandler.SQLQueries).Methods(http.MethodGet)
	a.HandleFunc("/download-data", analyticsHandler.DownloadData).Methods(http.MethodGet)
	a.HandleFunc("/refresh", jobsHandler.EnqueueRefresh).Methods(http.MethodPost)

	api.HandleFunc("/jobs", jobsHandler.ListJobs).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", jobsHandler.GetJob).Methods(http.MethodGet)

	return middleware.Recovery(cfg.Log)(
		middleware.Logger(cfg.Log)(
			middleware.RequestID(
				middleware.CORS(cfg.CORSOrigins)(r),
			),
		),
	)
}
