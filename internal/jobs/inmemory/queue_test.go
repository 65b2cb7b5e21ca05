package inmemory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dvloznov/card-campaign-analytics/internal/jobs"
	"github.com/rs/zerolog"
)

func newTestQueue(store jobs.JobStore) *Queue {
	q := NewQueue(10, store, zerolog.Nop())
	q.Backoff = time.Millisecond
	return q
}

// waitForStatus polls the store until the job reaches want.
func waitForStatus(t *testing.T, s *Store, jobID string, want jobs.JobStatus) *jobs.RefreshJob {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := s.GetJob(context.Background(), jobID)
		if err == nil && job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	job, _ := s.GetJob(context.Background(), jobID)
	t.Fatalf("job %s did not reach %s, last state %+v", jobID, want, job)
	return nil
}

func TestQueue_Completes(t *testing.T) {
	store := NewStore()
	q := newTestQueue(store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer q.Stop(context.Background())

	err := q.Start(ctx, func(ctx context.Context, job *jobs.RefreshJob) error {
		job.Transactions = 42
		job.Customers = 7
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	job := &jobs.RefreshJob{Source: "file:data", Trigger: jobs.TriggerAPI}
	if err := q.PublishRefresh(ctx, job); err != nil {
		t.Fatalf("PublishRefresh() error = %v", err)
	}
	if job.JobID == "" || job.MaxRetries != defaultMaxRetries || job.CreatedAt.IsZero() {
		t.Errorf("defaults not assigned: %+v", job)
	}

	done := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	if done.Transactions != 42 || done.Customers != 7 || done.CompletedAt == nil {
		t.Errorf("completed job = %+v", done)
	}
}

func TestQueue_RetriesThenFails(t *testing.T) {
	store := NewStore()
	q := newTestQueue(store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer q.Stop(context.Background())

	var attempts atomic.Int32
	if err := q.Start(ctx, func(ctx context.Context, job *jobs.RefreshJob) error {
		attempts.Add(1)
		return errors.New("source unavailable")
	}); err != nil {
		t.Fatal(err)
	}

	job := &jobs.RefreshJob{Source: "bigquery", MaxRetries: 2}
	if err := q.PublishRefresh(ctx, job); err != nil {
		t.Fatal(err)
	}

	failed := waitForStatus(t, store, job.JobID, jobs.JobStatusFailed)
	if failed.RetryCount != 2 || failed.Error != "source unavailable" {
		t.Errorf("failed job = %+v", failed)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("handler ran %d times, want 3", got)
	}
}

func TestQueue_RetrySucceeds(t *testing.T) {
	store := NewStore()
	q := newTestQueue(store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer q.Stop(context.Background())

	var attempts atomic.Int32
	if err := q.Start(ctx, func(ctx context.Context, job *jobs.RefreshJob) error {
		if attempts.Add(1) == 1 {
			return errors.New("transient")
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	job := &jobs.RefreshJob{Source: "gcs"}
	if err := q.PublishRefresh(ctx, job); err != nil {
		t.Fatal(err)
	}
	done := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	if done.RetryCount != 1 || done.Error != "" {
		t.Errorf("completed job = %+v", done)
	}
}

func TestQueue_Closed(t *testing.T) {
	q := newTestQueue(NewStore())
	if err := q.Close(); err != nil {
		t.Fatal(err)
	}
	if err := q.PublishRefresh(context.Background(), &jobs.RefreshJob{}); !errors.Is(err, jobs.ErrQueueClosed) {
		t.Errorf("PublishRefresh() error = %v, want ErrQueueClosed", err)
	}
	if err := q.Start(context.Background(), nil); !errors.Is(err, jobs.ErrQueueClosed) {
		t.Errorf("Start() error = %v, want ErrQueueClosed", err)
	}
	// Stopping twice is harmless.
	if err := q.Stop(context.Background()); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
