package workflows

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application/types"
)

type stubProvider struct{ text string }

func (p stubProvider) Generate(context.Context, string) (string, error) { return p.text, nil }

func TestInlineRecommendationWorkflows_Delegates(t *testing.T) {
	orchestrator := NewInlineRecommendationWorkflows(application.NewService(stubProvider{text: "Hidrátate."}))

	rec, err := orchestrator.Recommend(context.Background(), types.RecommendInput{Gender: "male", BodyFatPercent: 18})
	require.NoError(t, err)
	require.Equal(t, "Hidrátate.", rec.Text)
}

func TestInlineRecommendationWorkflows_NotConfigured(t *testing.T) {
	var orchestrator *InlineRecommendationWorkflows
	_, err := orchestrator.Recommend(context.Background(), types.RecommendInput{})
	require.Error(t, err)
}

func TestBuildGenerationWorkflowID(t *testing.T) {
	first := buildGenerationWorkflowID(types.RecommendInput{IdempotencyKey: " abc "})
	second := buildGenerationWorkflowID(types.RecommendInput{IdempotencyKey: "abc"})
	require.Equal(t, first, second)
	require.True(t, strings.HasPrefix(first, "recommendation-idem-"))
	require.Len(t, strings.TrimPrefix(first, "recommendation-idem-"), 16)

	require.NotEqual(t,
		buildGenerationWorkflowID(types.RecommendInput{}),
		buildGenerationWorkflowID(types.RecommendInput{}),
	)
}

func TestWorkflowTraceID(t *testing.T) {
	require.Empty(t, workflowTraceID(context.Background()))

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))
	require.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", workflowTraceID(ctx))
}

func TestTemporalRecommendationWorkflows_NotConfigured(t *testing.T) {
	_, err := NewTemporalRecommendationWorkflows(nil, 0).Recommend(context.Background(), types.RecommendInput{})
	require.Error(t, err)
}
