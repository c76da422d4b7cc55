package recommendations

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application/types"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/ports"
)

// GenerateActivityName is the registered name of the recommendation activity.
const GenerateActivityName = "recommendations.activities.Generate"

// Application error types carried across the Temporal boundary.
const (
	ErrTypeInvalidInput        = "InvalidInput"
	ErrTypeInvalidGender       = "InvalidGender"
	ErrTypeInvalidPercent      = "InvalidPercent"
	ErrTypeIdempotencyConflict = "IdempotencyConflict"
	ErrTypeNotConfigured       = "ProviderNotConfigured"
	ErrTypeEmptyRecommendation = "EmptyRecommendation"
	ErrTypeProviderUnavailable = "ProviderUnavailable"
)

// Activities groups the recommendation activities.
type Activities struct {
	service ports.Service
}

// NewActivities wires the recommendation service into the activity bundle.
func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// Generate performs the single outbound recommendation call.
func (a *Activities) Generate(ctx context.Context, input types.RecommendInput) (*domain.Recommendation, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("recommendation activity not initialized")
		return nil, errors.New("recommendation activity not initialized")
	}
	logger.Info("Generate activity started", "gender", input.Gender)
	rec, err := a.service.Recommend(ctx, input)
	if err != nil {
		logger.Error("Generate activity failed", "gender", input.Gender, "error", err)
		return nil, ToApplicationError(err)
	}
	logger.Info("Generate activity completed", "recommendationId", rec.ID)
	return rec, nil
}

// ToApplicationError classifies err as a non-retryable application error so callers
// on the other side of the workflow can recover the failure kind.
func ToApplicationError(err error) error {
	if err == nil {
		return nil
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), errorType(err), err)
}

// FromApplicationError restores the sentinel errors of a classified failure. Unclassified
// errors are returned as they are.
func FromApplicationError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ErrTypeInvalidInput:
		return errors.Join(application.ErrInvalidInput, err)
	case ErrTypeInvalidGender:
		return errors.Join(application.ErrInvalidInput, domain.ErrInvalidGender, err)
	case ErrTypeInvalidPercent:
		return errors.Join(application.ErrInvalidInput, domain.ErrInvalidPercent, err)
	case ErrTypeIdempotencyConflict:
		return errors.Join(ports.ErrIdempotencyConflict, err)
	case ErrTypeNotConfigured:
		return errors.Join(application.ErrProviderNotConfigured, err)
	case ErrTypeEmptyRecommendation:
		return errors.Join(application.ErrRecommendationService, domain.ErrEmptyRecommendation, err)
	case ErrTypeProviderUnavailable:
		return errors.Join(application.ErrRecommendationService, domain.ErrProviderUnavailable, err)
	default:
		return err
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidGender):
		return ErrTypeInvalidGender
	case errors.Is(err, domain.ErrInvalidPercent):
		return ErrTypeInvalidPercent
	case errors.Is(err, application.ErrInvalidInput):
		return ErrTypeInvalidInput
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return ErrTypeIdempotencyConflict
	case errors.Is(err, application.ErrProviderNotConfigured):
		return ErrTypeNotConfigured
	case errors.Is(err, domain.ErrEmptyRecommendation):
		return ErrTypeEmptyRecommendation
	default:
		return ErrTypeProviderUnavailable
	}
}
