package types

// RecommendInput carries an estimate to be turned into wellness commentary.
type RecommendInput struct {
	Gender         string
	BodyFatPercent float64
	// IdempotencyKey lets callers replay a request without a second provider call.
	IdempotencyKey string
}
