package bodyfatserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	rechttpmapper "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/adapters/http/mapper"
	recports "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/ports"
)

// IdempotencyKeyHeader lets clients replay a recommendation without a second provider call.
const IdempotencyKeyHeader = "Idempotency-Key"

// RecommendationAPI wires HTTP transport with the recommendation workflows.
type RecommendationAPI struct {
	workflows recports.WorkflowOrchestrator
}

// NewRecommendationAPI creates a RecommendationAPI backed by the provided orchestrator.
func NewRecommendationAPI(workflows recports.WorkflowOrchestrator) RecommendationAPI {
	return RecommendationAPI{workflows: workflows}
}

// Post /v1/body-fat/recommendations
// Generate wellness commentary for a computed estimate
func (api *RecommendationAPI) Recommend(c *gin.Context) {
	if api.workflows == nil {
		problemResponder.ServiceUnavailable(c, "recommendation service not configured")
		return
	}
	var payload RecommendationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := rechttpmapper.ToRecommendInput(rechttpmapper.RecommendationRequest{
		Gender:         payload.Gender,
		BodyFatPercent: *payload.BodyFatPercent,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)),
	})
	rec, err := api.workflows.Recommend(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	view := rechttpmapper.FromDomainRecommendation(rec)
	c.JSON(http.StatusOK, RecommendationResponse{
		Id:             view.ID,
		Gender:         view.Gender,
		BodyFatPercent: view.BodyFatPercent,
		Text:           view.Text,
	})
}
