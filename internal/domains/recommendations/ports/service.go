package ports

import (
	"context"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application/types"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
)

// Service defines the recommendation use cases exposed to adapters.
type Service interface {
	Recommend(ctx context.Context, input types.RecommendInput) (*domain.Recommendation, error)
}
