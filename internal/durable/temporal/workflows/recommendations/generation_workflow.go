package recommendations

import (
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application/types"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
	"github.com/Apurer/navy-bodyfat-api/internal/durable/temporal/sequences"
)

const (
	// GenerationWorkflowName is the public identifier for registering the workflow.
	GenerationWorkflowName = "recommendations.workflows.Generation"
	// GenerationTaskQueue is the queue consumed by the worker processing recommendation workflows.
	GenerationTaskQueue = "BODYFAT_RECOMMENDATIONS"
)

// GenerationWorkflowInput carries the request plus the caller's trace id and activity timeout.
type GenerationWorkflowInput struct {
	Command         types.RecommendInput
	TraceID         string
	ActivityTimeout time.Duration
}

// GenerationWorkflow runs the recommendation sequence for one estimate.
func GenerationWorkflow(ctx workflow.Context, input GenerationWorkflowInput) (*domain.Recommendation, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("GenerationWorkflow started", withTraceID(input.TraceID, "gender", input.Command.Gender)...)
	rec, err := sequences.RunRecommendationSequence(ctx, input.Command, input.ActivityTimeout)
	if err != nil {
		logger.Error("GenerationWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("GenerationWorkflow completed", withTraceID(input.TraceID, "recommendationId", rec.ID)...)
	return rec, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
