package jobs

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrJobNotFound is returned by a JobStore for an unknown job ID.
	ErrJobNotFound = errors.New("job not found")
	// ErrQueueClosed is returned when publishing to or starting a stopped queue.
	ErrQueueClosed = errors.New("queue is closed")
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed and will not be retried.
	JobStatusFailed JobStatus = "failed"
	// JobStatusRetrying indicates the job failed and is being retried.
	JobStatusRetrying JobStatus = "retrying"
)

// Trigger records what asked for a refresh.
type Trigger string

const (
	TriggerAPI      Trigger = "api"
	TriggerSchedule Trigger = "schedule"
	TriggerStartup  Trigger = "startup"
)

// RefreshJob reloads the dataset from a source and republishes the engine.
type RefreshJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// Source names the dataset source the job reads from.
	Source string `json:"source"`

	Trigger Trigger `json:"trigger"`

	// RequestID is the HTTP request that enqueued an API-triggered job.
	RequestID string `json:"request_id,omitempty"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the last attempt failed.
	Error string `json:"error,omitempty"`

	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`

	// Transactions and Customers are the record counts of the published
	// dataset, set on completion.
	Transactions int `json:"transactions"`
	Customers    int `json:"customers"`
}

// Publisher defines the interface for publishing jobs to a queue.
type Publisher interface {
	// PublishRefresh enqueues a refresh job and returns once it is stored.
	PublishRefresh(ctx context.Context, job *RefreshJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	// The handler function is called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler processes a job. It may record results on job and should
// return an error if the job failed and should be retried.
type JobHandler func(ctx context.Context, job *RefreshJob) error

// JobStore defines the interface for storing and retrieving job status.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *RefreshJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*RefreshJob, error)

	// ListJobs retrieves jobs with optional filtering, newest first.
	ListJobs(ctx context.Context, filter JobFilter) ([]*RefreshJob, error)
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// Status filters jobs by status.
	Status JobStatus

	// Source filters jobs by source name.
	Source string

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
