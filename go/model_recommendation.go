package bodyfatserver

// RecommendationRequest - an already computed estimate to comment on.
type RecommendationRequest struct {
	Gender         string   `json:"gender" binding:"required"`
	BodyFatPercent *float64 `json:"bodyFatPercent" binding:"required"`
}

// RecommendationResponse - generated wellness commentary.
type RecommendationResponse struct {
	Id             string  `json:"id"`
	Gender         string  `json:"gender"`
	BodyFatPercent float64 `json:"bodyFatPercent"`
	Text           string  `json:"text"`
}

// HealthResponse - liveness payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
