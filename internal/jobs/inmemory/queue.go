package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dvloznov/card-campaign-analytics/internal/jobs"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultWorkers    = 2
	defaultMaxRetries = 3
	defaultBackoff    = time.Second
)

// Queue is a channel-backed publisher and consumer for a single instance.
type Queue struct {
	jobChan   chan *jobs.RefreshJob
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	store     jobs.JobStore
	log       zerolog.Logger
	closed    bool

	// Workers is the number of concurrent handlers started by Start.
	Workers int
	// Backoff is multiplied by the retry count before a failed job is
	// re-enqueued.
	Backoff time.Duration
}

// NewQueue creates a new in-memory job queue.
// bufferSize determines how many jobs can be queued before PublishRefresh blocks.
func NewQueue(bufferSize int, store jobs.JobStore, log zerolog.Logger) *Queue {
	return &Queue{
		jobChan:   make(chan *jobs.RefreshJob, bufferSize),
		closeChan: make(chan struct{}),
		store:     store,
		log:       log,
		Workers:   defaultWorkers,
		Backoff:   defaultBackoff,
	}
}

// PublishRefresh assigns defaults to job, stores it and enqueues a copy.
// job itself is not touched by the workers.
func (q *Queue) PublishRefresh(ctx context.Context, job *jobs.RefreshJob) error {
	q.mu.RLock()
	closed := q.closed
	q.mu.RUnlock()
	if closed {
		return jobs.ErrQueueClosed
	}

	if job.JobID == "" {
		job.JobID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = jobs.JobStatusPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	if job.MaxRetries == 0 {
		job.MaxRetries = defaultMaxRetries
	}

	if q.store != nil {
		if err := q.store.SaveJob(ctx, job); err != nil {
			return fmt.Errorf("PublishRefresh: save job: %w", err)
		}
	}

	queued := copyJob(job)
	select {
	case q.jobChan <- queued:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.closeChan:
		return jobs.ErrQueueClosed
	}
}

// Start launches the workers. Each dequeued job is passed to handler.
func (q *Queue) Start(ctx context.Context, handler jobs.JobHandler) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return jobs.ErrQueueClosed
	}

	workers := q.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, handler)
	}
	return nil
}

func (q *Queue) worker(ctx context.Context, handler jobs.JobHandler) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			return
		case job := <-q.jobChan:
			if job == nil {
				return
			}
			q.processJob(ctx, job, handler)
		}
	}
}

// processJob runs one attempt and schedules a retry with linear backoff
// while attempts remain.
func (q *Queue) processJob(ctx context.Context, job *jobs.RefreshJob, handler jobs.JobHandler) {
	log := q.log.With().Str("job_id", job.JobID).Str("source", job.Source).Logger()

	now := time.Now().UTC()
	job.Status = jobs.JobStatusRunning
	job.StartedAt = &now
	job.CompletedAt = nil
	q.save(ctx, job)

	err := handler(ctx, job)

	completedAt := time.Now().UTC()
	job.CompletedAt = &completedAt

	if err == nil {
		job.Status = jobs.JobStatusCompleted
		job.Error = ""
		q.save(ctx, job)
		log.Info().Int("transactions", job.Transactions).Int("customers", job.Customers).Msg("refresh job completed")
		return
	}

	job.Error = err.Error()
	if job.RetryCount >= job.MaxRetries {
		job.Status = jobs.JobStatusFailed
		q.save(ctx, job)
		log.Error().Err(err).Int("retry_count", job.RetryCount).Msg("refresh job failed")
		return
	}

	job.RetryCount++
	job.Status = jobs.JobStatusRetrying
	q.save(ctx, job)
	log.Warn().Err(err).Int("retry_count", job.RetryCount).Msg("refresh job failed, retrying")

	retry := copyJob(job)
	time.AfterFunc(time.Duration(retry.RetryCount)*q.Backoff, func() {
		retry.Status = jobs.JobStatusPending
		retry.StartedAt = nil
		retry.CompletedAt = nil
		if err := q.PublishRefresh(ctx, retry); err != nil {
			retry.Status = jobs.JobStatusFailed
			q.save(context.Background(), retry)
			log.Error().Err(err).Msg("refresh job could not be re-enqueued")
		}
	})
}

func (q *Queue) save(ctx context.Context, job *jobs.RefreshJob) {
	if q.store == nil {
		return
	}
	if err := q.store.SaveJob(ctx, job); err != nil {
		q.log.Error().Err(err).Str("job_id", job.JobID).Msg("failed to save job")
	}
}

// Stop closes the queue and waits for in-flight jobs to complete.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements the Publisher interface.
func (q *Queue) Close() error {
	return q.Stop(context.Background())
}

var (
	_ jobs.Publisher = (*Queue)(nil)
	_ jobs.Consumer  = (*Queue)(nil)
)
