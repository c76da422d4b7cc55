package bodyfatserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	bodyfatdomain "github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/domain"
	recapp "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application"
	recdomain "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
	recports "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/ports"
	apierrors "github.com/Apurer/navy-bodyfat-api/internal/shared/errors"
)

const kindInvalidRecommendationInput = "invalid_recommendation_input"

var problemResponder = apierrors.NewChainedResponder("", bodyFatProblem, recommendationProblem)

// respondBadRequest reports payloads gin could not bind.
func respondBadRequest(c *gin.Context, err error) {
	problemResponder.BadRequest(c, err.Error())
}

// respondServiceError maps application errors to problems; unknown errors become a 500.
func respondServiceError(c *gin.Context, err error) {
	problemResponder.RespondError(c, err)
}

// bodyFatProblem reports every validation and domain failure as 422 with the catalog message.
func bodyFatProblem(err error) (apierrors.ProblemDetail, bool) {
	kind, ok := bodyfatdomain.KindOf(err)
	if !ok {
		return apierrors.ProblemDetail{}, false
	}
	return apierrors.NewKindProblem(apierrors.ErrUnprocessable, string(kind), kind.Message()), true
}

func recommendationProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, recapp.ErrInvalidInput):
		return apierrors.NewKindProblem(apierrors.ErrUnprocessable, kindInvalidRecommendationInput, invalidRecommendationDetail(err)), true
	case errors.Is(err, recports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail("Idempotency-Key was already used with a different request"), true
	case errors.Is(err, recapp.ErrProviderNotConfigured):
		return apierrors.ErrServiceUnavailable.WithDetail("recommendation provider not configured"), true
	case errors.Is(err, recapp.ErrRecommendationService):
		return apierrors.NewKindProblem(apierrors.ErrUpstream, recdomain.FailureKind, recdomain.FailureMessage(err)), true
	}
	return apierrors.ProblemDetail{}, false
}

// invalidRecommendationDetail names the rejected field without the orchestrator's wrapping.
func invalidRecommendationDetail(err error) string {
	switch {
	case errors.Is(err, recdomain.ErrInvalidGender):
		return recdomain.ErrInvalidGender.Error()
	case errors.Is(err, recdomain.ErrInvalidPercent):
		return recdomain.ErrInvalidPercent.Error()
	default:
		return recapp.ErrInvalidInput.Error()
	}
}
