package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/card-campaign-analytics/internal/analytics"
	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	"github.com/dvloznov/card-campaign-analytics/internal/domain"
	"github.com/dvloznov/card-campaign-analytics/internal/jobs"
	jobsmem "github.com/dvloznov/card-campaign-analytics/internal/jobs/inmemory"
	statusmem "github.com/dvloznov/card-campaign-analytics/internal/status/inmemory"
	"github.com/golang/snappy"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// stubPublisher stores jobs as pending without running them.
type stubPublisher struct {
	store jobs.JobStore
	err   error
}

func (p *stubPublisher) PublishRefresh(ctx context.Context, job *jobs.RefreshJob) error {
	if p.err != nil {
		return p.err
	}
	job.JobID = "job-1"
	job.Status = jobs.JobStatusPending
	return p.store.SaveJob(ctx, job)
}

func (p *stubPublisher) Close() error { return nil }

func testEngine(t *testing.T) *analytics.Engine {
	t.Helper()
	rows := []struct{ id, customer, date, category, amount string }{
		{"T1", "C1", "2024-02-05", "Dining", "100"},
		{"T2", "C1", "2024-02-20", "Dining", "100"},
		{"T3", "C1", "2024-08-14", "Dining", "180"},
		{"T4", "C2", "2024-11-02", "Retail", "25.50"},
	}
	var txns []domain.Transaction
	for _, row := range rows {
		d, err := civil.ParseDate(row.date)
		if err != nil {
			t.Fatal(err)
		}
		txns = append(txns, domain.Transaction{
			TransactionID: row.id,
			CustomerID:    row.customer,
			Date:          d,
			Category:      domain.Category(row.category),
			Amount:        decimal.RequireFromString(row.amount),
			Region:        domain.RegionWest,
			Segment:       domain.SegmentGold,
		})
	}
	e, err := analytics.New(txns, nil, campaign.Default())
	if err != nil {
		t.Fatal(err)
	}
	return e
}

type testServer struct {
	handler   http.Handler
	holder    *analytics.Holder
	jobs      *jobsmem.Store
	publisher *stubPublisher
}

func newTestServer(t *testing.T, loaded bool) *testServer {
	t.Helper()
	holder := analytics.NewHolder(nil)
	if loaded {
		holder.Swap(testEngine(t))
	}
	store := jobsmem.NewStore()
	pub := &stubPublisher{store: store}
	h := NewRouter(Config{
		Holder:    holder,
		Calendar:  campaign.Default(),
		Statuses:  statusmem.NewStore(),
		Jobs:      store,
		Publisher: pub,
		Source:    "file:data",
		Log:       zerolog.Nop(),
	})
	return &testServer{handler: h, holder: holder, jobs: store, publisher: pub}
}

func (s *testServer) do(method, path string, body io.Reader) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(method, path, body))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestRoot(t *testing.T) {
	s := newTestServer(t, false)
	rec := s.do(http.MethodGet, "/api/", nil)
	var body map[string]string
	decode(t, rec, &body)
	if rec.Code != http.StatusOK || body["message"] != "Credit Card Analytics API - Ready" {
		t.Errorf("GET /api/ = %d %v", rec.Code, body)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)
	rec := s.do(http.MethodGet, "/health", nil)
	var body map[string]interface{}
	decode(t, rec, &body)
	if body["status"] != "healthy" || body["data_loaded"] != false {
		t.Errorf("GET /health = %v", body)
	}
}

func TestAnalytics_NotLoaded(t *testing.T) {
	s := newTestServer(t, false)
	for _, path := range []string{
		"/api/analytics/overview",
		"/api/analytics/spend-by-category",
		"/api/analytics/top-customers",
		"/api/analytics/download-data",
		"/api/analytics/correlations",
	} {
		t.Run(path, func(t *testing.T) {
			rec := s.do(http.MethodGet, path, nil)
			if rec.Code != http.StatusServiceUnavailable {
				t.Fatalf("status = %d, want 503", rec.Code)
			}
			var body map[string]string
			decode(t, rec, &body)
			if body["error"] != "Analytics data not loaded" {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestAnalytics_Reports(t *testing.T) {
	s := newTestServer(t, true)

	t.Run("overview is a bare object", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/analytics/overview", nil)
		var ov analytics.Overview
		decode(t, rec, &ov)
		if ov.TotalTransactions != 4 || ov.IncrementalRevenue != 80 || ov.ROIPercentage != 80 {
			t.Errorf("overview = %+v", ov)
		}
	})

	t.Run("lists are wrapped in data", func(t *testing.T) {
		paths := []string{
			"spend-by-category", "spend-by-region", "monthly-trends",
			"campaign-effectiveness", "customer-segmentation", "recommendations",
			"category-trends", "category-statistics", "spend-by-weekday",
			"spend-by-quarter", "correlations", "top-customers",
		}
		for _, p := range paths {
			rec := s.do(http.MethodGet, "/api/analytics/"+p, nil)
			if rec.Code != http.StatusOK {
				t.Errorf("%s: status %d", p, rec.Code)
				continue
			}
			var body map[string][]json.RawMessage
			decode(t, rec, &body)
			if len(body["data"]) == 0 {
				t.Errorf("%s: empty data", p)
			}
		}
	})

	t.Run("objects", func(t *testing.T) {
		for _, p := range []string{"statistical-summary", "incremental-revenue", "campaign-response"} {
			rec := s.do(http.MethodGet, "/api/analytics/"+p, nil)
			var body map[string]interface{}
			decode(t, rec, &body)
			if rec.Code != http.StatusOK || len(body) == 0 {
				t.Errorf("%s: %d %v", p, rec.Code, body)
			}
		}
	})
}

func TestTopCustomers_Limit(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(http.MethodGet, "/api/analytics/top-customers?limit=1", nil)
	var body struct {
		Data []analytics.TopCustomer `json:"data"`
	}
	decode(t, rec, &body)
	if len(body.Data) != 1 || body.Data[0].CustomerID != "C1" {
		t.Errorf("top customers = %+v", body.Data)
	}

	for _, bad := range []string{"0", "-3", "ten"} {
		rec := s.do(http.MethodGet, "/api/analytics/top-customers?limit="+bad, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status %d, want 400", bad, rec.Code)
		}
	}
}

func TestSQLQueries(t *testing.T) {
	s := newTestServer(t, false)
	rec := s.do(http.MethodGet, "/api/analytics/sql-queries", nil)
	var body struct {
		Queries map[string]string `json:"queries"`
	}
	decode(t, rec, &body)
	if len(body.Queries) != 9 {
		t.Errorf("got %d queries, want 9", len(body.Queries))
	}
	if !strings.Contains(body.Queries["campaign_effectiveness"], "2024-07-01") {
		t.Error("campaign_effectiveness query not rendered with the campaign start")
	}
}

func TestDownloadData(t *testing.T) {
	s := newTestServer(t, true)

	t.Run("csv", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/analytics/download-data", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "credit_card_transactions.csv") {
			t.Errorf("Content-Disposition = %q", cd)
		}
		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		if len(lines) != 5 {
			t.Fatalf("got %d lines, want header + 4", len(lines))
		}
		if !strings.Contains(lines[3], "True") || !strings.Contains(lines[1], "False") {
			t.Errorf("in_campaign_period flags wrong:\n%s", rec.Body.String())
		}
	})

	t.Run("snappy", func(t *testing.T) {
		plain := s.do(http.MethodGet, "/api/analytics/download-data", nil).Body.Bytes()
		rec := s.do(http.MethodGet, "/api/analytics/download-data?compression=snappy", nil)
		got, err := io.ReadAll(snappy.NewReader(rec.Body))
		if err != nil {
			t.Fatalf("snappy decode: %v", err)
		}
		if !bytes.Equal(got, plain) {
			t.Error("decompressed body differs from the plain CSV")
		}
	})

	t.Run("unknown compression", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/analytics/download-data?compression=zip", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestStatusEndpoints(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(http.MethodPost, "/api/status", strings.NewReader(`{"client_name":"dashboard"}`))
	var created map[string]interface{}
	decode(t, rec, &created)
	if rec.Code != http.StatusOK || created["client_name"] != "dashboard" || created["id"] == "" {
		t.Fatalf("POST /api/status = %d %v", rec.Code, created)
	}

	if rec := s.do(http.MethodPost, "/api/status", strings.NewReader(`{}`)); rec.Code != http.StatusBadRequest {
		t.Errorf("empty client_name: status %d", rec.Code)
	}
	if rec := s.do(http.MethodPost, "/api/status", strings.NewReader(`not json`)); rec.Code != http.StatusBadRequest {
		t.Errorf("bad body: status %d", rec.Code)
	}

	rec = s.do(http.MethodGet, "/api/status", nil)
	var list []map[string]interface{}
	decode(t, rec, &list)
	if len(list) != 1 {
		t.Errorf("GET /api/status returned %d checks", len(list))
	}
}

func TestRefreshAndJobs(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(http.MethodPost, "/api/analytics/refresh", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("refresh status = %d", rec.Code)
	}
	var accepted map[string]string
	decode(t, rec, &accepted)
	if accepted["job_id"] != "job-1" || accepted["status"] != "pending" {
		t.Errorf("refresh body = %v", accepted)
	}

	rec = s.do(http.MethodGet, "/api/jobs/job-1", nil)
	var job jobs.RefreshJob
	decode(t, rec, &job)
	if job.Source != "file:data" || job.Trigger != jobs.TriggerAPI {
		t.Errorf("job = %+v", job)
	}

	rec = s.do(http.MethodGet, "/api/jobs", nil)
	var list struct {
		Count int `json:"count"`
	}
	decode(t, rec, &list)
	if list.Count != 1 {
		t.Errorf("job count = %d", list.Count)
	}

	if rec := s.do(http.MethodGet, "/api/jobs/unknown", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown job: status %d, want 404", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/refresh", nil)
	req.Header.Set("X-Request-ID", "req-42")
	s.handler.ServeHTTP(httptest.NewRecorder(), req)
	rec = s.do(http.MethodGet, "/api/jobs/job-1", nil)
	decode(t, rec, &job)
	if job.RequestID != "req-42" {
		t.Errorf("job request_id = %q, want req-42", job.RequestID)
	}

	s.publisher.err = jobs.ErrQueueClosed
	if rec := s.do(http.MethodPost, "/api/analytics/refresh", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("closed queue: status %d, want 503", rec.Code)
	}
}

func TestRouting(t *testing.T) {
	s := newTestServer(t, false)
	if rec := s.do(http.MethodDelete, "/api/status", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /api/status: status %d, want 405", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/api/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route: status %d, want 404", rec.Code)
	}
	rec := s.do(http.MethodGet, "/api/", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("request id header not set")
	}
}
