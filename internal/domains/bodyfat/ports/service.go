package ports

import (
	"context"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/domain"
)

// Service exposes the body-fat estimation use cases to adapters.
type Service interface {
	Validate(ctx context.Context, input domain.MeasurementInput) (domain.ValidatedInput, error)
	Estimate(ctx context.Context, input domain.ValidatedInput) (domain.Estimate, error)
	// Calculate validates and then estimates; validation always completes first.
	Calculate(ctx context.Context, input domain.MeasurementInput) (domain.Estimate, error)
}
