// Package registry tracks processing jobs through their lifecycle. It is
// the single owner of mutable job state; callers receive snapshots and the
// orchestrator drives transitions through the compare-and-set methods.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ahrav/contract-iq/internal/domain"
)

// JobRegistry is an in-memory job store safe for concurrent use.
type JobRegistry struct {
	mu      sync.RWMutex
	jobs    map[string]*domain.ProcessingJob
	results map[string]*domain.ProcessingResult
}

// NewJobRegistry creates an empty registry.
func NewJobRegistry() *JobRegistry {
	return &JobRegistry{
		jobs:    make(map[string]*domain.ProcessingJob),
		results: make(map[string]*domain.ProcessingResult),
	}
}

// Submit creates a queued job from a validated input and returns its
// snapshot. The contract text is held on the live job only; snapshots
// never carry it.
func (r *JobRegistry) Submit(in *domain.ContractProcessingInput) (domain.ProcessingJob, error) {
	if err := in.Validate(); err != nil {
		return domain.ProcessingJob{}, err
	}

	job := &domain.ProcessingJob{
		ID:             uuid.NewString(),
		ContractID:     in.ContractID,
		RequiredAgents: append([]domain.AgentType(nil), in.RequiredAgents...),
		Status:         domain.JobQueued,
		Priority:       in.Priority,
		Context:        in.Context,
		ContractText:   in.ContractText,
		CreatedAt:      time.Now(),
		Outputs:        make(map[domain.AgentType]*domain.AgentOutput),
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()
	return job.Snapshot(), nil
}

// Begin transitions a job from queued to processing and returns the live
// job for the orchestrator's exclusive use during execution. A job that is
// not queued (already started, finished, or cancelled) is not runnable.
func (r *JobRegistry) Begin(jobID string) (*domain.ProcessingJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	if job.Status != domain.JobQueued {
		return nil, fmt.Errorf("%w: job %s is %s", domain.ErrJobNotRunnable, jobID, job.Status)
	}
	job.Status = domain.JobProcessing
	job.StartedAt = time.Now()
	return job, nil
}

// Complete records the terminal result for a job. The job's status follows
// the result's status, and the contract text is released.
func (r *JobRegistry) Complete(jobID string, result *domain.ProcessingResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	job.Status = result.Status
	job.CompletedAt = time.Now()
	job.ContractText = ""
	job.Error = result.Error
	r.results[jobID] = result
	return nil
}

// Cancel cancels a queued job. Jobs already processing or terminal cannot
// be cancelled; execution is never interrupted mid-stage.
func (r *JobRegistry) Cancel(jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	if job.Status != domain.JobQueued {
		return fmt.Errorf("%w: job %s is %s, only queued jobs can be cancelled",
			domain.ErrJobNotRunnable, jobID, job.Status)
	}
	job.Status = domain.JobCancelled
	job.CompletedAt = time.Now()
	job.ContractText = ""
	return nil
}

// Status returns a snapshot of the job's current state.
func (r *JobRegistry) Status(jobID string) (domain.ProcessingJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return domain.ProcessingJob{}, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	return job.Snapshot(), nil
}

// Result returns the terminal result for a completed job. Jobs that have
// not reached a terminal state have no result yet.
func (r *JobRegistry) Result(jobID string) (*domain.ProcessingResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.jobs[jobID]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	result, ok := r.results[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: job %s has no result yet", domain.ErrJobNotRunnable, jobID)
	}
	return result, nil
}

// Len reports the number of tracked jobs.
func (r *JobRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
