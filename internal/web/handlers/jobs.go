package handlers

import (
	"context"
	"sync"
	"time"
)

// JobStatus represents the status of an async job.
type JobStatus string

// JobStatus constants define the lifecycle states of an async job.
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// TrainJob represents an async training job.
type TrainJob struct {
	ID          string
	Dir         string
	Status      JobStatus
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
	Result      *TrainJobResult

	mu     sync.RWMutex
	cancel context.CancelFunc
}

// TrainJobResult represents the outcome of a completed training job.
type TrainJobResult struct {
	Samples    int      `json:"samples"`
	Images     int      `json:"images"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
	People     []string `json:"people,omitempty"`
	DurationMs int64    `json:"duration_ms"`
}

// TrainJobView is a point-in-time copy of a job's state.
type TrainJobView struct {
	ID          string          `json:"id"`
	Dir         string          `json:"dir"`
	Status      JobStatus       `json:"status"`
	Error       string          `json:"error,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Result      *TrainJobResult `json:"result,omitempty"`
}

// Snapshot returns a copy of the job state safe to serialize while the
// job is still running.
func (j *TrainJob) Snapshot() TrainJobView {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return TrainJobView{
		ID:          j.ID,
		Dir:         j.Dir,
		Status:      j.Status,
		Error:       j.Error,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
		Result:      j.Result,
	}
}

// GetStatus returns the current job status.
func (j *TrainJob) GetStatus() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// Cancel cancels the training job.
func (j *TrainJob) Cancel() {
	j.mu.Lock()
	cancel := j.cancel
	j.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// TrainJobManager manages training jobs (only one at a time).
type TrainJobManager struct {
	activeJob *TrainJob
	mu        sync.RWMutex
}

// NewTrainJobManager creates a new training job manager.
func NewTrainJobManager() *TrainJobManager {
	return &TrainJobManager{}
}

// GetActiveJob returns the currently active job.
func (m *TrainJobManager) GetActiveJob() *TrainJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeJob
}

// GetJob returns a job by ID.
func (m *TrainJobManager) GetJob(id string) *TrainJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.activeJob != nil && m.activeJob.ID == id {
		return m.activeJob
	}
	return nil
}

// SetActiveJob sets the active job.
func (m *TrainJobManager) SetActiveJob(job *TrainJob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeJob = job
}
