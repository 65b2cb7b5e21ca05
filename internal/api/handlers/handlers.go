// Package handlers implements the HTTP endpoints of the analytics API.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dvloznov/card-campaign-analytics/internal/analytics"
	"github.com/dvloznov/card-campaign-analytics/internal/api/middleware"
)

// ReadyMessage is returned by the API root.
const ReadyMessage = "Credit Card Analytics API - Ready"

// Root handles GET /api/
func Root(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"message": ReadyMessage})
}

// Health returns a handler for GET /health that also reports whether an
// analytics engine is published.
func Health(holder *analytics.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "healthy",
			"time":        time.Now().Format(time.RFC3339),
			"data_loaded": holder.Loaded(),
		})
	}
}

// positiveIntQuery reads an optional positive integer query parameter.
// ok is false when the parameter is present but invalid.
func positiveIntQuery(r *http.Request, name string, def int) (n int, ok bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
