package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
)

var (
	// ErrInvalidInput signals the estimate handed in was not acceptable.
	ErrInvalidInput = errors.New("invalid recommendation input")
	// ErrRecommendationService groups every failure of the external text generator.
	ErrRecommendationService = errors.New("recommendation service error")
	// ErrProviderNotConfigured means no endpoint or key was supplied.
	ErrProviderNotConfigured = errors.New("recommendation provider not configured")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidGender) || errors.Is(err, domain.ErrInvalidPercent) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func providerError(err error) error {
	if errors.Is(err, domain.ErrEmptyRecommendation) {
		return fmt.Errorf("%w: %w", ErrRecommendationService, err)
	}
	return fmt.Errorf("%w: %w: %w", ErrRecommendationService, domain.ErrProviderUnavailable, err)
}
