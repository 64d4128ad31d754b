package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kozaktomas/face-tagger/internal/engine"
)

// TrainHandler starts and tracks async training jobs.
type TrainHandler struct {
	engine     *engine.Engine
	jobManager *TrainJobManager
}

// NewTrainHandler creates a new train handler.
func NewTrainHandler(eng *engine.Engine) *TrainHandler {
	return &TrainHandler{
		engine:     eng,
		jobManager: NewTrainJobManager(),
	}
}

// TrainStartRequest represents a request to start training.
type TrainStartRequest struct {
	Dir string `json:"dir"`
}

// Start launches a new training job over a server-local directory.
func (h *TrainHandler) Start(w http.ResponseWriter, r *http.Request) {
	if active := h.jobManager.GetActiveJob(); active != nil {
		if status := active.GetStatus(); status == JobStatusRunning || status == JobStatusPending {
			respondError(w, http.StatusConflict, "a training job is already running")
			return
		}
	}

	var req TrainStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Dir == "" {
		respondError(w, http.StatusBadRequest, "dir is required")
		return
	}
	if info, err := os.Stat(req.Dir); err != nil || !info.IsDir() {
		respondError(w, http.StatusBadRequest, "dir is not a readable directory")
		return
	}

	job := &TrainJob{
		ID:        uuid.New().String(),
		Dir:       req.Dir,
		Status:    JobStatusPending,
		StartedAt: time.Now(),
	}
	h.jobManager.SetActiveJob(job)

	go h.runTrainJob(job)

	respondJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.ID,
		"status": string(JobStatusPending),
	})
}

// Status returns the state of a training job.
func (h *TrainHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	respondJSON(w, http.StatusOK, job.Snapshot())
}

// Cancel aborts a running training job.
func (h *TrainHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	if status := job.GetStatus(); status != JobStatusRunning && status != JobStatusPending {
		respondError(w, http.StatusConflict, "job is not running")
		return
	}

	job.Cancel()
	respondJSON(w, http.StatusOK, map[string]string{
		"job_id": jobID,
		"status": string(JobStatusCancelled),
	})
}

// runTrainJob executes the training pipeline in the background.
func (h *TrainHandler) runTrainJob(job *TrainJob) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	job.mu.Lock()
	job.cancel = cancel
	job.Status = JobStatusRunning
	job.mu.Unlock()

	result, err := h.engine.Train(ctx, job.Dir)

	now := time.Now()
	job.mu.Lock()
	defer job.mu.Unlock()
	job.CompletedAt = &now

	switch {
	case ctx.Err() != nil:
		job.Status = JobStatusCancelled
	case err != nil:
		job.Status = JobStatusFailed
		job.Error = err.Error()
	default:
		job.Status = JobStatusCompleted
		job.Result = &TrainJobResult{
			Samples:    result.Samples,
			Images:     result.Images,
			Skipped:    result.Skipped,
			Failed:     result.Failed,
			People:     result.People,
			DurationMs: result.Duration.Milliseconds(),
		}
	}
}
