package mapper

import (
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application/types"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
)

// RecommendationRequest is the transport shape accepted by the HTTP handler.
type RecommendationRequest struct {
	Gender         string
	BodyFatPercent float64
	IdempotencyKey string
}

// Recommendation is the transport view of generated commentary.
type Recommendation struct {
	ID             string
	Gender         string
	BodyFatPercent float64
	Text           string
}

// ToRecommendInput converts the transport request into the application input.
func ToRecommendInput(req RecommendationRequest) types.RecommendInput {
	return types.RecommendInput{
		Gender:         req.Gender,
		BodyFatPercent: req.BodyFatPercent,
		IdempotencyKey: req.IdempotencyKey,
	}
}

// FromDomainRecommendation converts the domain recommendation to the transport representation.
func FromDomainRecommendation(rec *domain.Recommendation) Recommendation {
	if rec == nil {
		return Recommendation{}
	}
	return Recommendation{
		ID:             rec.ID,
		Gender:         string(rec.Gender),
		BodyFatPercent: rec.BodyFatPercent,
		Text:           rec.Text,
	}
}
