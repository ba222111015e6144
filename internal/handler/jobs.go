package handler

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// JobStatus represents the current state of an analysis job.
type JobStatus struct {
	ID          string    `json:"id"`
	Repo        string    `json:"repo"`
	Branch      string    `json:"branch"`
	Status      string    `json:"status"` // running, complete, error
	SummaryID   string    `json:"summary_id,omitempty"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// Job status values.
const (
	JobStatusRunning  = "running"
	JobStatusComplete = "complete"
	JobStatusError    = "error"
)

// JobTracker manages analysis jobs in memory.
type JobTracker struct {
	mu   sync.RWMutex
	jobs map[string]*JobStatus
}

// NewJobTracker creates a new job tracker.
func NewJobTracker() *JobTracker {
	return &JobTracker{jobs: make(map[string]*JobStatus)}
}

// CreateJob registers a new running job and returns its id.
func (t *JobTracker) CreateJob(repo, branch string) string {
	id := uuid.NewString()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[id] = &JobStatus{
		ID:        id,
		Repo:      repo,
		Branch:    branch,
		Status:    JobStatusRunning,
		StartedAt: time.Now(),
	}
	return id
}

// CompleteJob marks a job finished with the persisted summary id.
func (t *JobTracker) CompleteJob(id, summaryID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if job, ok := t.jobs[id]; ok {
		job.Status = JobStatusComplete
		job.SummaryID = summaryID
		job.CompletedAt = time.Now()
	}
}

// FailJob marks a job failed with its first fatal cause.
func (t *JobTracker) FailJob(id string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if job, ok := t.jobs[id]; ok {
		job.Status = JobStatusError
		job.Error = err.Error()
		job.CompletedAt = time.Now()
	}
}

// GetJob returns a snapshot of a job status.
func (t *JobTracker) GetJob(id string) (*JobStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	job, ok := t.jobs[id]
	if !ok {
		return nil, false
	}
	snapshot := *job
	return &snapshot, true
}

// JobsHandler exposes job status over HTTP.
type JobsHandler struct {
	tracker *JobTracker
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(tracker *JobTracker) *JobsHandler {
	return &JobsHandler{tracker: tracker}
}

// Register sets up job routes.
func (h *JobsHandler) Register(api fiber.Router) {
	api.Get("/jobs/:id", h.Get)
}

// Get returns a single job status.
func (h *JobsHandler) Get(c fiber.Ctx) error {
	job, ok := h.tracker.GetJob(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	return c.JSON(job)
}
