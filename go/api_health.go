package bodyfatserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthAPI answers liveness checks.
type HealthAPI struct {
	service string
}

// NewHealthAPI reports the given service name.
func NewHealthAPI(service string) HealthAPI {
	return HealthAPI{service: service}
}

// Get /health
func (api *HealthAPI) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Service: api.service})
}
