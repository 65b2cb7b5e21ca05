package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dvloznov/card-campaign-analytics/internal/api/middleware"
	"github.com/dvloznov/card-campaign-analytics/internal/jobs"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// JobsHandler handles refresh job endpoints.
type JobsHandler struct {
	store     jobs.JobStore
	publisher jobs.Publisher
	source    string
	log       zerolog.Logger
}

// NewJobsHandler creates a new jobs handler. source names the dataset
// source recorded on enqueued jobs.
func NewJobsHandler(store jobs.JobStore, publisher jobs.Publisher, source string, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store:     store,
		publisher: publisher,
		source:    source,
		log:       log,
	}
}

// EnqueueRefresh handles POST /api/analytics/refresh
func (h *JobsHandler) EnqueueRefresh(w http.ResponseWriter, r *http.Request) {
	job := &jobs.RefreshJob{
		Source:    h.source,
		Trigger:   jobs.TriggerAPI,
		RequestID: middleware.RequestIDFromContext(r.Context()),
	}

	if err := h.publisher.PublishRefresh(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue refresh job")
		if errors.Is(err, jobs.ErrQueueClosed) {
			middleware.WriteError(w, http.StatusServiceUnavailable, "Refresh queue is closed")
			return
		}
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue refresh job")
		return
	}

	h.log.Info().
		Str("job_id", job.JobID).
		Str("source", job.Source).
		Str("request_id", job.RequestID).
		Msg("Refresh job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to get job")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		Source: query.Get("source"),
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}
	if jobsList == nil {
		jobsList = []*jobs.RefreshJob{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
