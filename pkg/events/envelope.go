// Package events provides the generic event infrastructure for job
// lifecycle event emission. It defines the Envelope type wrapping event
// payloads with consistent metadata and the EventSink interface for event
// storage or transmission.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted over a job's lifecycle.
const (
	TypeJobSubmitted   = "job.submitted"
	TypeJobStarted     = "job.started"
	TypeJobCompleted   = "job.completed"
	TypeJobCancelled   = "job.cancelled"
	TypeStageCompleted = "job.stage_completed"
	TypeAgentCompleted = "agent.completed"
)

// Envelope wraps event payloads with consistent metadata for reliable
// downstream processing: routing by Type, deduplication via
// IdempotencyKey, and correlation via JobID/ContractID.
type Envelope struct {
	// ID uniquely identifies this event instance.
	ID string `json:"id"`

	// Type identifies the event for routing, e.g. "agent.completed".
	Type string `json:"type"`

	// Source identifies the emitting component.
	Source string `json:"source"`

	// Version enables payload schema evolution. Starts at "1.0.0".
	Version string `json:"version"`

	// Timestamp records when the event was emitted.
	Timestamp time.Time `json:"timestamp"`

	// IdempotencyKey enables exactly-once processing across retries.
	IdempotencyKey string `json:"idempotency_key"`

	// JobID and ContractID correlate the event with its job.
	JobID      string `json:"job_id"`
	ContractID string `json:"contract_id,omitempty"`

	// Payload contains the event-specific data as JSON.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope builds an envelope with generated identity and the payload
// marshaled to JSON. Marshal failures leave the payload empty; the event
// still carries its identifying metadata.
func NewEnvelope(eventType, source, jobID, contractID string, payload any) Envelope {
	var raw json.RawMessage
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			raw = data
		}
	}
	return Envelope{
		ID:             uuid.NewString(),
		Type:           eventType,
		Source:         source,
		Version:        "1.0.0",
		Timestamp:      time.Now(),
		IdempotencyKey: jobID + ":" + eventType,
		JobID:          jobID,
		ContractID:     contractID,
		Payload:        raw,
	}
}

// WithIdempotencySuffix extends the idempotency key for event types that
// recur within one job, like per-stage or per-agent completions.
func (e Envelope) WithIdempotencySuffix(suffix string) Envelope {
	e.IdempotencyKey += ":" + suffix
	return e
}

// EventSink delivers events to downstream consumers. Implementations
// should handle duplicates as no-ops and return quickly; event sink
// failures must never fail the emitting operation.
type EventSink interface {
	Append(ctx context.Context, envelope Envelope) error
}

// NoOpEventSink discards all events. Used in tests and when event
// emission is disabled.
type NoOpEventSink struct{}

// Append implements EventSink.
func (n *NoOpEventSink) Append(_ context.Context, _ Envelope) error { return nil }

// NewNoOpEventSink creates a sink that discards all events.
func NewNoOpEventSink() EventSink { return &NoOpEventSink{} }
