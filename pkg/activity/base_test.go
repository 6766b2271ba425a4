package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttemptOutsideActivityContext(t *testing.T) {
	assert.Zero(t, Attempt(context.Background()))
}

func TestGetWorkflowContextOutsideActivityContext(t *testing.T) {
	base := NewBaseActivities(nil)
	wfCtx := base.GetWorkflowContext(context.Background())

	assert.Equal(t, "test-workflow", wfCtx.WorkflowID)
	assert.NotEmpty(t, wfCtx.RunID)
	assert.Equal(t, "test-activity", wfCtx.ActivityID)
}
