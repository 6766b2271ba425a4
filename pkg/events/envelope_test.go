package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	env := NewEnvelope(TypeJobSubmitted, "orchestrator", "job-1", "contract-1",
		map[string]any{"agents": 4})

	assert.NotEmpty(t, env.ID)
	assert.Equal(t, TypeJobSubmitted, env.Type)
	assert.Equal(t, "orchestrator", env.Source)
	assert.Equal(t, "1.0.0", env.Version)
	assert.Equal(t, "job-1:job.submitted", env.IdempotencyKey)
	assert.Equal(t, "job-1", env.JobID)
	assert.Equal(t, "contract-1", env.ContractID)
	assert.WithinDuration(t, time.Now(), env.Timestamp, time.Second)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, float64(4), payload["agents"])
}

func TestNewEnvelopeUniqueIDs(t *testing.T) {
	a := NewEnvelope(TypeJobStarted, "orchestrator", "job-1", "", nil)
	b := NewEnvelope(TypeJobStarted, "orchestrator", "job-1", "", nil)

	assert.NotEqual(t, a.ID, b.ID)
	// Identical lifecycle events share an idempotency key so downstream
	// consumers can deduplicate retried emissions.
	assert.Equal(t, a.IdempotencyKey, b.IdempotencyKey)
}

func TestNewEnvelopeNilPayload(t *testing.T) {
	env := NewEnvelope(TypeJobCancelled, "orchestrator", "job-1", "", nil)
	assert.Empty(t, env.Payload)
}

func TestNewEnvelopeUnmarshalablePayload(t *testing.T) {
	env := NewEnvelope(TypeJobCompleted, "orchestrator", "job-1", "", make(chan int))
	assert.Empty(t, env.Payload)
	assert.Equal(t, "job-1:job.completed", env.IdempotencyKey)
}

func TestWithIdempotencySuffix(t *testing.T) {
	base := NewEnvelope(TypeStageCompleted, "orchestrator", "job-1", "", nil)

	stage0 := base.WithIdempotencySuffix("stage-0")
	stage1 := base.WithIdempotencySuffix("stage-1")

	assert.Equal(t, "job-1:job.stage_completed:stage-0", stage0.IdempotencyKey)
	assert.Equal(t, "job-1:job.stage_completed:stage-1", stage1.IdempotencyKey)
	// The receiver is unchanged; suffixing returns a copy.
	assert.Equal(t, "job-1:job.stage_completed", base.IdempotencyKey)
}

func TestNoOpEventSink(t *testing.T) {
	sink := NewNoOpEventSink()
	require.NoError(t, sink.Append(context.Background(), NewEnvelope(TypeJobSubmitted, "x", "job-1", "", nil)))
}
