// Package activity provides common infrastructure for Temporal activity
// implementations: workflow context extraction, safe logging, heartbeats,
// and best-effort event emission that never fails the primary operation.
package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"

	"github.com/ahrav/contract-iq/pkg/events"
)

// WorkflowContext holds metadata extracted from the Temporal activity
// context, with generated fallbacks for test environments where no
// activity context exists.
type WorkflowContext struct {
	WorkflowID string
	RunID      string
	ActivityID string
}

// BaseActivities provides shared infrastructure for activity types:
// event emission and context-safe logging that works both inside Temporal
// workers and in plain test processes.
type BaseActivities struct {
	eventSink events.EventSink
}

// NewBaseActivities creates a BaseActivities over the given sink. A nil
// sink disables event emission.
func NewBaseActivities(sink events.EventSink) BaseActivities {
	return BaseActivities{eventSink: sink}
}

// GetWorkflowContext extracts workflow execution details from the activity
// context. Outside a Temporal activity (tests), activity.GetInfo panics;
// the recover path substitutes generated identifiers instead.
func (b *BaseActivities) GetWorkflowContext(ctx context.Context) WorkflowContext {
	var wfCtx WorkflowContext

	func() {
		defer func() {
			if recover() != nil {
				wfCtx.WorkflowID = "test-workflow"
				wfCtx.RunID = "test-run-" + uuid.NewString()[:8]
				wfCtx.ActivityID = "test-activity"
			}
		}()

		info := activity.GetInfo(ctx)
		wfCtx.WorkflowID = info.WorkflowExecution.ID
		wfCtx.RunID = info.WorkflowExecution.RunID
		wfCtx.ActivityID = info.ActivityID
	}()

	return wfCtx
}

// Attempt returns the Temporal attempt number for the current activity
// execution, starting at 1. Outside an activity context it returns 0.
func Attempt(ctx context.Context) (attempt int32) {
	defer func() { _ = recover() }()
	return activity.GetInfo(ctx).Attempt
}

// EmitEventSafe emits an event with a short retry. Event emission is
// observability, not correctness: failures are logged and swallowed so the
// primary operation never fails because a sink was down.
func (b *BaseActivities) EmitEventSafe(ctx context.Context, envelope events.Envelope, description string) {
	if b.eventSink == nil {
		return
	}

	const maxAttempts = 2
	const retryDelay = 200 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				SafeLogError(ctx, "event emission cancelled: "+description,
					"event_type", envelope.Type)
				return
			}
		}

		if err := b.eventSink.Append(ctx, envelope); err != nil {
			lastErr = err
			continue
		}

		SafeLog(ctx, "event emitted: "+description,
			"event_type", envelope.Type,
			"idempotency_key", envelope.IdempotencyKey)
		return
	}

	SafeLogError(ctx, "event emission failed: "+description,
		"event_type", envelope.Type,
		"error", lastErr)
}

// RecordHeartbeat records an activity heartbeat, ignored outside activity
// contexts.
func (b *BaseActivities) RecordHeartbeat(ctx context.Context, details ...any) {
	RecordHeartbeat(ctx, details...)
}

// SafeLog logs through the activity logger when one exists and is a no-op
// otherwise, so activities can log freely in tests.
func SafeLog(ctx context.Context, msg string, keyvals ...any) {
	defer func() { _ = recover() }()
	activity.GetLogger(ctx).Info(msg, keyvals...)
}

// SafeLogError is SafeLog at ERROR level.
func SafeLogError(ctx context.Context, msg string, keyvals ...any) {
	defer func() { _ = recover() }()
	activity.GetLogger(ctx).Error(msg, keyvals...)
}

// RecordHeartbeat records a heartbeat, ignored outside activity contexts.
func RecordHeartbeat(ctx context.Context, details ...any) {
	defer func() { _ = recover() }()
	activity.RecordHeartbeat(ctx, details...)
}
