package ports

import (
	"context"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application/types"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
)

// WorkflowOrchestrator runs the recommendation call, durably or inline.
type WorkflowOrchestrator interface {
	Recommend(ctx context.Context, input types.RecommendInput) (*domain.Recommendation, error)
}
