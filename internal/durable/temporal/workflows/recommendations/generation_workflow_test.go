package recommendations

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application/types"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
	recactivities "github.com/Apurer/navy-bodyfat-api/internal/durable/temporal/activities/recommendations"
)

type countingProvider struct {
	calls atomic.Int32
	text  string
	err   error
}

func (p *countingProvider) Generate(context.Context, string) (string, error) {
	p.calls.Add(1)
	return p.text, p.err
}

func newEnv(t *testing.T, provider *countingProvider) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := recactivities.NewActivities(application.NewService(provider,
		application.WithClock(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }),
		application.WithIDGenerator(func() string { return "rec-1" }),
	))
	env.RegisterActivityWithOptions(acts.Generate, activity.RegisterOptions{Name: recactivities.GenerateActivityName})
	return env
}

func TestGenerationWorkflow_Succeeds(t *testing.T) {
	provider := &countingProvider{text: "Prioriza el descanso."}
	env := newEnv(t, provider)

	env.ExecuteWorkflow(GenerationWorkflow, GenerationWorkflowInput{
		Command: types.RecommendInput{Gender: "female", BodyFatPercent: 23.81},
		TraceID: "trace-1",
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var rec domain.Recommendation
	require.NoError(t, env.GetWorkflowResult(&rec))
	require.Equal(t, "rec-1", rec.ID)
	require.Equal(t, "Prioriza el descanso.", rec.Text)
	require.Equal(t, int32(1), provider.calls.Load())
}

func TestGenerationWorkflow_DoesNotRetryProviderFailures(t *testing.T) {
	provider := &countingProvider{err: errors.New("connection reset")}
	env := newEnv(t, provider)

	env.ExecuteWorkflow(GenerationWorkflow, GenerationWorkflowInput{
		Command: types.RecommendInput{Gender: "male", BodyFatPercent: 12.87},
	})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	require.Equal(t, int32(1), provider.calls.Load())

	restored := recactivities.FromApplicationError(err)
	require.ErrorIs(t, restored, application.ErrRecommendationService)
	require.ErrorIs(t, restored, domain.ErrProviderUnavailable)
}

func TestGenerationWorkflow_EmptyAnswer(t *testing.T) {
	provider := &countingProvider{text: ""}
	env := newEnv(t, provider)

	env.ExecuteWorkflow(GenerationWorkflow, GenerationWorkflowInput{
		Command: types.RecommendInput{Gender: "male", BodyFatPercent: 12.87},
	})

	restored := recactivities.FromApplicationError(env.GetWorkflowError())
	require.ErrorIs(t, restored, domain.ErrEmptyRecommendation)
	require.NotErrorIs(t, restored, domain.ErrProviderUnavailable)
}

func TestGenerationWorkflow_InvalidInputSkipsProvider(t *testing.T) {
	provider := &countingProvider{text: "unused"}
	env := newEnv(t, provider)

	env.ExecuteWorkflow(GenerationWorkflow, GenerationWorkflowInput{
		Command: types.RecommendInput{Gender: "male", BodyFatPercent: 140},
	})

	restored := recactivities.FromApplicationError(env.GetWorkflowError())
	require.ErrorIs(t, restored, application.ErrInvalidInput)
	require.ErrorIs(t, restored, domain.ErrInvalidPercent)
	require.Zero(t, provider.calls.Load())
}

func TestGenerationWorkflow_InvalidGenderSurvivesBoundary(t *testing.T) {
	provider := &countingProvider{text: "unused"}
	env := newEnv(t, provider)

	env.ExecuteWorkflow(GenerationWorkflow, GenerationWorkflowInput{
		Command: types.RecommendInput{Gender: "other", BodyFatPercent: 20},
	})

	restored := recactivities.FromApplicationError(env.GetWorkflowError())
	require.ErrorIs(t, restored, application.ErrInvalidInput)
	require.ErrorIs(t, restored, domain.ErrInvalidGender)
	require.NotErrorIs(t, restored, domain.ErrInvalidPercent)
}
