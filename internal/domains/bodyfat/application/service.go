package application

import (
	"context"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/domain"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/ports"
)

// Service orchestrates the body-fat estimation use cases. It holds no state.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Validate(_ context.Context, input domain.MeasurementInput) (domain.ValidatedInput, error) {
	validated, err := domain.Validate(input)
	if err != nil {
		return domain.ValidatedInput{}, mapError(err)
	}
	return validated, nil
}

func (s *Service) Estimate(_ context.Context, input domain.ValidatedInput) (domain.Estimate, error) {
	estimate, err := domain.EstimateBodyFat(input)
	if err != nil {
		return domain.Estimate{}, mapError(err)
	}
	return estimate, nil
}

func (s *Service) Calculate(ctx context.Context, input domain.MeasurementInput) (domain.Estimate, error) {
	validated, err := s.Validate(ctx, input)
	if err != nil {
		return domain.Estimate{}, err
	}
	return s.Estimate(ctx, validated)
}

var _ ports.Service = (*Service)(nil)
