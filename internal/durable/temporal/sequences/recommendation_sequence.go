package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application/types"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
	recactivities "github.com/Apurer/navy-bodyfat-api/internal/durable/temporal/activities/recommendations"
)

// DefaultActivityTimeout bounds the outbound call when no timeout is configured.
const DefaultActivityTimeout = 2 * time.Minute

// RunRecommendationSequence executes the single generation activity. The call is attempted
// exactly once; failures surface to the caller instead of being retried.
func RunRecommendationSequence(ctx workflow.Context, input types.RecommendInput, timeout time.Duration) (*domain.Recommendation, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("recommendation sequence started", "gender", input.Gender)
	if timeout <= 0 {
		timeout = DefaultActivityTimeout
	}
	options := workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var rec domain.Recommendation
	err := workflow.ExecuteActivity(ctx, recactivities.GenerateActivityName, input).Get(ctx, &rec)
	if err != nil {
		logger.Error("recommendation sequence failed", "gender", input.Gender, "error", err)
		return nil, err
	}
	logger.Info("recommendation sequence completed", "recommendationId", rec.ID)
	return &rec, nil
}
