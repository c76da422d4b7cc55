package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/domain"
)

var (
	// ErrInvalidInput signals the measurements were rejected before any arithmetic.
	ErrInvalidInput = errors.New("invalid measurement input")
	// ErrEstimationFailed signals the formula could not produce an in-range value.
	ErrEstimationFailed = errors.New("body fat estimation failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	kind, ok := domain.KindOf(err)
	if !ok {
		return err
	}
	if kind.IsValidation() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return fmt.Errorf("%w: %w", ErrEstimationFailed, err)
}
