// Package jobs defines the asynchronous batch-extraction job model and the
// queue/store abstractions the worker binary runs on.
package jobs

import (
	"context"
	"time"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeExtractBatch runs one statement extraction batch.
	JobTypeExtractBatch JobType = "extract_batch"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ExtractBatchJob describes one batch of statements to extract. Exactly one
// of SourceDir or GCSPrefix names the document source.
type ExtractBatchJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// SourceDir is a local directory of statement PDFs.
	SourceDir string `json:"source_dir,omitempty"`

	// GCSBucket and GCSPrefix locate statement objects in Cloud Storage.
	GCSBucket string `json:"gcs_bucket,omitempty"`
	GCSPrefix string `json:"gcs_prefix,omitempty"`

	// TargetMonth and TargetYear are assumed for statements whose period
	// cannot be parsed.
	TargetMonth int `json:"target_month"`
	TargetYear  int `json:"target_year"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// BatchID is set once the pipeline has run.
	BatchID string `json:"batch_id,omitempty"`

	// Succeeded and Failed summarize the batch result.
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// RetryCount is the number of times this job has been retried.
	RetryCount int `json:"retry_count"`

	// MaxRetries is the maximum number of retries allowed.
	MaxRetries int `json:"max_retries"`
}

// Job is a generic interface for all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

// GetID implements the Job interface.
func (j *ExtractBatchJob) GetID() string {
	return j.JobID
}

// GetType implements the Job interface.
func (j *ExtractBatchJob) GetType() JobType {
	return JobTypeExtractBatch
}

// GetStatus implements the Job interface.
func (j *ExtractBatchJob) GetStatus() JobStatus {
	return j.Status
}

// Publisher defines the interface for publishing jobs to a queue.
// The abstraction allows different queue implementations (in-memory, Cloud
// Tasks, Pub/Sub).
type Publisher interface {
	// PublishExtractBatch publishes a batch extraction job.
	PublishExtractBatch(ctx context.Context, job *ExtractBatchJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue. The handler function is
	// called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler processes a job. It returns an error if the job failed and
// should be retried.
type JobHandler func(ctx context.Context, job Job) error

// JobStore stores and retrieves job state, allowing tracking across service
// restarts.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *ExtractBatchJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*ExtractBatchJob, error)

	// ListJobs retrieves jobs with optional filtering.
	ListJobs(ctx context.Context, filter JobFilter) ([]*ExtractBatchJob, error)

	// UpdateJobStatus updates the status of a job.
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
