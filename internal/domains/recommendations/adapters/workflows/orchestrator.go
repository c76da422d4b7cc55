package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application/types"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/ports"
	recactivities "github.com/Apurer/navy-bodyfat-api/internal/durable/temporal/activities/recommendations"
	recworkflows "github.com/Apurer/navy-bodyfat-api/internal/durable/temporal/workflows/recommendations"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalRecommendationWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineRecommendationWorkflows)(nil)
)

// TemporalRecommendationWorkflows starts recommendation workflows on a Temporal cluster.
type TemporalRecommendationWorkflows struct {
	client          client.Client
	taskQueue       string
	activityTimeout time.Duration
}

// NewTemporalRecommendationWorkflows wires a Temporal client into the orchestrator.
// activityTimeout bounds the outbound call; zero uses the sequence default.
func NewTemporalRecommendationWorkflows(c client.Client, activityTimeout time.Duration) *TemporalRecommendationWorkflows {
	return &TemporalRecommendationWorkflows{
		client:          c,
		taskQueue:       recworkflows.GenerationTaskQueue,
		activityTimeout: activityTimeout,
	}
}

// Recommend starts the generation workflow and waits for its result.
func (o *TemporalRecommendationWorkflows) Recommend(ctx context.Context, input types.RecommendInput) (*domain.Recommendation, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal recommendation workflows not configured")
	}
	traceComponent := workflowTraceID(ctx)
	workflowID := buildGenerationWorkflowID(input)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		recworkflows.GenerationWorkflow,
		recworkflows.GenerationWorkflowInput{Command: input, TraceID: traceComponent, ActivityTimeout: o.activityTimeout},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			return awaitRecommendation(ctx, existingRun)
		}
		return nil, err
	}
	return awaitRecommendation(ctx, run)
}

func awaitRecommendation(ctx context.Context, run client.WorkflowRun) (*domain.Recommendation, error) {
	var rec domain.Recommendation
	if err := run.Get(ctx, &rec); err != nil {
		return nil, recactivities.FromApplicationError(err)
	}
	return &rec, nil
}

// InlineRecommendationWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineRecommendationWorkflows struct {
	service ports.Service
}

// NewInlineRecommendationWorkflows wraps the recommendation service for synchronous execution.
func NewInlineRecommendationWorkflows(service ports.Service) *InlineRecommendationWorkflows {
	return &InlineRecommendationWorkflows{service: service}
}

// Recommend delegates to the application service without durable orchestration.
func (o *InlineRecommendationWorkflows) Recommend(ctx context.Context, input types.RecommendInput) (*domain.Recommendation, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline recommendation workflows not configured")
	}
	return o.service.Recommend(ctx, input)
}

func buildGenerationWorkflowID(input types.RecommendInput) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("recommendation-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("recommendation-%s", uuid.NewString())
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	// First 16 hex chars keep workflow IDs readable while remaining deterministic.
	return hex.EncodeToString(sum[:8])
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
