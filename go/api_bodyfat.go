package bodyfatserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	bodyfathttpmapper "github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/adapters/http/mapper"
	bodyfatports "github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/ports"
)

// BodyFatAPI wires HTTP transport with the estimation service.
type BodyFatAPI struct {
	service bodyfatports.Service
}

// NewBodyFatAPI creates a BodyFatAPI backed by the provided service.
func NewBodyFatAPI(service bodyfatports.Service) BodyFatAPI {
	return BodyFatAPI{service: service}
}

// Post /v1/body-fat/estimate
// Estimate body fat with the Navy circumference method
func (api *BodyFatAPI) Estimate(c *gin.Context) {
	if api.service == nil {
		problemResponder.ServiceUnavailable(c, "estimation service not configured")
		return
	}
	var payload EstimateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := bodyfathttpmapper.ToDomainInput(bodyfathttpmapper.Measurements{
		Gender:   payload.Gender,
		HeightCm: string(payload.HeightCm),
		NeckCm:   string(payload.NeckCm),
		WaistCm:  string(payload.WaistCm),
		HipCm:    string(payload.HipCm),
	})
	estimate, err := api.service.Calculate(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	view := bodyfathttpmapper.FromDomainEstimate(estimate)
	c.JSON(http.StatusOK, EstimateResponse{
		Gender:         view.Gender,
		BodyFatPercent: view.BodyFatPercent,
		Formatted:      view.Formatted,
	})
}
