package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahrav/contract-iq/internal/agent"
	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/registry"
	"github.com/ahrav/contract-iq/pkg/events"
)

// Service is the in-process orchestration entry point. It owns the job
// registry, plans stages from the agent dependency graph, and drives
// execution through the stage executor.
type Service struct {
	registry *registry.JobRegistry
	executor *StageExecutor
	graph    domain.DependencyGraph
	sink     events.EventSink
	logger   *slog.Logger
	nodeID   string
}

// Option configures a Service.
type Option func(*Service)

// WithEventSink sets the lifecycle event sink.
func WithEventSink(sink events.EventSink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithNodeID tags outputs with the processing node for provenance.
func WithNodeID(nodeID string) Option {
	return func(s *Service) { s.nodeID = nodeID }
}

// WithAgentTimeout overrides the per-agent execution timeout.
func WithAgentTimeout(d time.Duration) Option {
	return func(s *Service) { s.executor = NewStageExecutor(s.executor.agents, d) }
}

// NewService creates the orchestration service over an agent registry.
func NewService(agents *agent.Registry, opts ...Option) *Service {
	s := &Service{
		registry: registry.NewJobRegistry(),
		executor: NewStageExecutor(agents, DefaultAgentTimeout),
		graph:    agents.DependencyGraph(),
		sink:     events.NewNoOpEventSink(),
		logger:   slog.Default().With("component", "orchestrator"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the input, plans it, and enqueues a job. Planning
// happens before enqueue so an unsatisfiable agent set is rejected
// immediately rather than failing later in a worker.
func (s *Service) Submit(in *domain.ContractProcessingInput) (domain.ProcessingJob, error) {
	in.ApplyDefaults()
	if _, err := BuildStagePlan(in.RequiredAgents, s.graph); err != nil {
		return domain.ProcessingJob{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	job, err := s.registry.Submit(in)
	if err != nil {
		return domain.ProcessingJob{}, err
	}

	s.emit(context.Background(), events.NewEnvelope(
		events.TypeJobSubmitted, "orchestrator", job.ID, job.ContractID,
		map[string]any{"required_agents": job.RequiredAgents, "priority": job.Priority}))
	s.logger.Info("job submitted",
		"job_id", job.ID,
		"contract_id", job.ContractID,
		"agents", job.RequiredAgents,
		"priority", job.Priority)
	return job, nil
}

// Process runs a queued job to completion and returns its result. The job
// transitions to processing immediately; a job that is not queued (already
// running, finished, or cancelled) is rejected.
func (s *Service) Process(ctx context.Context, jobID string) (*domain.ProcessingResult, error) {
	job, err := s.registry.Begin(jobID)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	s.emit(ctx, events.NewEnvelope(events.TypeJobStarted, "orchestrator", job.ID, job.ContractID, nil))

	plan, err := BuildStagePlan(job.RequiredAgents, s.graph)
	if err != nil {
		// Submit already planned this set; reaching here means the graph
		// changed between submit and process.
		result := s.failedResult(job, start, err)
		if cerr := s.registry.Complete(job.ID, result); cerr != nil {
			return nil, cerr
		}
		return result, nil
	}

	outputs := make(map[domain.AgentType]*domain.AgentOutput)
	for i, stage := range plan {
		stageStart := time.Now()
		stageOutputs := s.executor.Run(ctx, &StageRequest{
			Stage:        stage,
			ContractText: job.ContractText,
			Context:      job.Context,
			Prior:        outputs,
			NodeID:       s.nodeID,
		})
		for t, out := range stageOutputs {
			outputs[t] = out
		}
		s.emit(ctx, events.NewEnvelope(
			events.TypeStageCompleted, "orchestrator", job.ID, job.ContractID,
			map[string]any{"stage": i, "agents": stage, "duration_ms": time.Since(stageStart).Milliseconds()},
		).WithIdempotencySuffix(fmt.Sprintf("stage-%d", i)))
	}
	job.Outputs = outputs

	result := s.assembleResult(job, start, outputs)
	if err := s.registry.Complete(job.ID, result); err != nil {
		return nil, err
	}

	s.emit(ctx, events.NewEnvelope(
		events.TypeJobCompleted, "orchestrator", job.ID, job.ContractID,
		map[string]any{
			"status":                 result.Status,
			"confidence":             result.Confidence,
			"total_cost_milli_cents": result.TotalCostMilliCents,
			"processing_time_ms":     result.ProcessingTimeMs,
		}))
	s.logger.Info("job completed",
		"job_id", job.ID,
		"status", result.Status,
		"confidence", result.Confidence,
		"total_cost_milli_cents", result.TotalCostMilliCents,
		"processing_time_ms", result.ProcessingTimeMs)
	return result, nil
}

// ProcessContract submits and synchronously processes one contract.
func (s *Service) ProcessContract(ctx context.Context, in *domain.ContractProcessingInput) (*domain.ProcessingResult, error) {
	job, err := s.Submit(in)
	if err != nil {
		return nil, err
	}
	return s.Process(ctx, job.ID)
}

// Cancel cancels a queued job. Processing and terminal jobs are not
// cancellable.
func (s *Service) Cancel(ctx context.Context, jobID string) error {
	if err := s.registry.Cancel(jobID); err != nil {
		return err
	}
	job, _ := s.registry.Status(jobID)
	s.emit(ctx, events.NewEnvelope(events.TypeJobCancelled, "orchestrator", jobID, job.ContractID, nil))
	s.logger.Info("job cancelled", "job_id", jobID)
	return nil
}

// Status returns the job's current snapshot.
func (s *Service) Status(jobID string) (domain.ProcessingJob, error) {
	return s.registry.Status(jobID)
}

// Result returns the terminal result for a finished job.
func (s *Service) Result(jobID string) (*domain.ProcessingResult, error) {
	return s.registry.Result(jobID)
}

// assembleResult builds the terminal result from accumulated outputs. The
// job completes even when every agent failed; per-agent entries carry the
// failure detail and overall confidence reflects it.
func (s *Service) assembleResult(job *domain.ProcessingJob, start time.Time, outputs map[domain.AgentType]*domain.AgentOutput) *domain.ProcessingResult {
	result := &domain.ProcessingResult{
		JobID:               job.ID,
		ContractID:          job.ContractID,
		Status:              domain.JobCompleted,
		AgentResults:        outputs,
		ProcessingTimeMs:    time.Since(start).Milliseconds(),
		Confidence:          domain.AggregateConfidence(outputs),
		TotalCostMilliCents: domain.TotalCost(outputs),
	}

	if report, ok := outputs[domain.AgentReporting]; ok && report.Report != nil {
		result.Summary = report.Report
	} else {
		result.Summary = SynthesizeSummary(outputs, result.Confidence)
	}
	return result
}

func (s *Service) failedResult(job *domain.ProcessingJob, start time.Time, err error) *domain.ProcessingResult {
	return &domain.ProcessingResult{
		JobID:            job.ID,
		ContractID:       job.ContractID,
		Status:           domain.JobFailed,
		AgentResults:     map[domain.AgentType]*domain.AgentOutput{},
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		Error:            err.Error(),
	}
}

func (s *Service) emit(ctx context.Context, envelope events.Envelope) {
	if err := s.sink.Append(ctx, envelope); err != nil {
		s.logger.Warn("event emission failed",
			"event_type", envelope.Type,
			"job_id", envelope.JobID,
			"error", err)
	}
}
