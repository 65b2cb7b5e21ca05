package handlers

import (
	"bufio"
	"net/http"

	"github.com/dvloznov/card-campaign-analytics/internal/analytics"
	"github.com/dvloznov/card-campaign-analytics/internal/api/middleware"
	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	"github.com/dvloznov/card-campaign-analytics/internal/dataset"
	"github.com/dvloznov/card-campaign-analytics/internal/queries"
	"github.com/golang/snappy"
	"github.com/rs/zerolog"
)

const (
	// DefaultTopCustomers is the top-customers limit when none is given.
	DefaultTopCustomers = 20
	// DownloadFilename names the CSV attachment.
	DownloadFilename = "credit_card_transactions.csv"

	notLoadedMessage = "Analytics data not loaded"
)

// AnalyticsHandler serves the reports of the currently published engine.
type AnalyticsHandler struct {
	holder *analytics.Holder
	cal    campaign.Calendar
	log    zerolog.Logger
}

// NewAnalyticsHandler creates a new analytics handler. cal renders the SQL
// catalog, which is available before any data is loaded.
func NewAnalyticsHandler(holder *analytics.Holder, cal campaign.Calendar, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		holder: holder,
		cal:    cal,
		log:    log,
	}
}

// engine writes a 503 and returns nil when nothing is published.
func (h *AnalyticsHandler) engine(w http.ResponseWriter) *analytics.Engine {
	e, err := h.holder.Current()
	if err != nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, notLoadedMessage)
		return nil
	}
	return e
}

// object serves a single-object report.
func (h *AnalyticsHandler) object(report func(e *analytics.Engine) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if e := h.engine(w); e != nil {
			middleware.WriteJSON(w, http.StatusOK, report(e))
		}
	}
}

// list serves a row report wrapped as {"data": [...]}.
func (h *AnalyticsHandler) list(report func(e *analytics.Engine) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if e := h.engine(w); e != nil {
			middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": report(e)})
		}
	}
}

// Overview handles GET /api/analytics/overview
func (h *AnalyticsHandler) Overview() http.HandlerFunc {
	return h.object(func(e *analytics.Engine) interface{} { return e.Overview() })
}

// StatisticalSummary handles GET /api/analytics/statistical-summary
func (h *AnalyticsHandler) StatisticalSummary() http.HandlerFunc {
	return h.object(func(e *analytics.Engine) interface{} { return e.StatisticalSummary() })
}

// IncrementalRevenue handles GET /api/analytics/incremental-revenue
func (h *AnalyticsHandler) IncrementalRevenue() http.HandlerFunc {
	return h.object(func(e *analytics.Engine) interface{} { return e.IncrementalRevenue() })
}

// CampaignResponse handles GET /api/analytics/campaign-response
func (h *AnalyticsHandler) CampaignResponse() http.HandlerFunc {
	return h.object(func(e *analytics.Engine) interface{} { return e.CampaignResponse() })
}

// SpendByCategory handles GET /api/analytics/spend-by-category
func (h *AnalyticsHandler) SpendByCategory() http.HandlerFunc {
	return h.list(func(e *analytics.Engine) interface{} { return e.SpendByCategory() })
}

// SpendByRegion handles GET /api/analytics/spend-by-region
func (h *AnalyticsHandler) SpendByRegion() http.HandlerFunc {
	return h.list(func(e *analytics.Engine) interface{} { return e.SpendByRegion() })
}

// MonthlyTrends handles GET /api/analytics/monthly-trends
func (h *AnalyticsHandler) MonthlyTrends() http.HandlerFunc {
	return h.list(func(e *analytics.Engine) interface{} { return e.MonthlyTrends() })
}

// CampaignEffectiveness handles GET /api/analytics/campaign-effectiveness
func (h *AnalyticsHandler) CampaignEffectiveness() http.HandlerFunc {
	return h.list(func(e *analytics.Engine) interface{} { return e.CampaignEffectiveness() })
}

// CustomerSegmentation handles GET /api/analytics/customer-segmentation
func (h *AnalyticsHandler) CustomerSegmentation() http.HandlerFunc {
	return h.list(func(e *analytics.Engine) interface{} { return e.CustomerSegmentation() })
}

// Recommendations handles GET /api/analytics/recommendations
func (h *AnalyticsHandler) Recommendations() http.HandlerFunc {
	return h.list(func(e *analytics.Engine) interface{} { return e.Recommendations() })
}

// CategoryTrends handles GET /api/analytics/category-trends
func (h *AnalyticsHandler) CategoryTrends() http.HandlerFunc {
	return h.list(func(e *analytics.Engine) interface{} { return e.CategoryTrends() })
}

// CategoryStatistics handles GET /api/analytics/category-statistics
func (h *AnalyticsHandler) CategoryStatistics() http.HandlerFunc {
	return h.list(func(e *analytics.Engine) interface{} { return e.CategoryStatistics() })
}

// SpendByWeekday handles GET /api/analytics/spend-by-weekday
func (h *AnalyticsHandler) SpendByWeekday() http.HandlerFunc {
	return h.list(func(e *analytics.Engine) interface{} { return e.SpendByWeekday() })
}

// SpendByQuarter handles GET /api/analytics/spend-by-quarter
func (h *AnalyticsHandler) SpendByQuarter() http.HandlerFunc {
	return h.list(func(e *analytics.Engine) interface{} { return e.SpendByQuarter() })
}

// Correlations handles GET /api/analytics/correlations
func (h *AnalyticsHandler) Correlations() http.HandlerFunc {
	return h.list(func(e *analytics.Engine) interface{} { return e.Correlations() })
}

// TopCustomers handles GET /api/analytics/top-customers?limit=N
func (h *AnalyticsHandler) TopCustomers(w http.ResponseWriter, r *http.Request) {
	limit, ok := positiveIntQuery(r, "limit", DefaultTopCustomers)
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	e := h.engine(w)
	if e == nil {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": e.TopCustomers(limit)})
}

// SQLQueries handles GET /api/analytics/sql-queries
func (h *AnalyticsHandler) SQLQueries(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"queries": queries.Render(h.cal)})
}

// DownloadData handles GET /api/analytics/download-data. The optional
// compression=snappy parameter streams a snappy-framed body.
func (h *AnalyticsHandler) DownloadData(w http.ResponseWriter, r *http.Request) {
	compression := r.URL.Query().Get("compression")
	if compression != "" && compression != "snappy" {
		middleware.WriteError(w, http.StatusBadRequest, "Unsupported compression")
		return
	}
	e := h.engine(w)
	if e == nil {
		return
	}

	table := dataset.TransactionsToTable(e.Transactions(), e.Calendar().Campaign)

	filename := DownloadFilename
	contentType := "text/csv"
	if compression == "snappy" {
		filename += ".sz"
		contentType = "application/x-snappy-framed"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	var err error
	if compression == "snappy" {
		sw := snappy.NewBufferedWriter(w)
		if err = dataset.WriteCSV(sw, table); err == nil {
			err = sw.Close()
		}
	} else {
		bw := bufio.NewWriter(w)
		if err = dataset.WriteCSV(bw, table); err == nil {
			err = bw.Flush()
		}
	}
	if err != nil {
		// Headers are already sent; the client sees a truncated body.
		h.log.Error().Err(err).Msg("Failed to stream transactions")
		return
	}
	h.log.Info().Int("transactions", table.Len()).Str("compression", compression).Msg("Transactions downloaded")
}
