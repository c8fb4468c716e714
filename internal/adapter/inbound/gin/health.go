package gin

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/shared/response"
)

// HealthHandler answers liveness probes. It does not touch dependencies.
type HealthHandler struct {
	service string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health reports that the process is serving requests.
//
//	@Summary	Liveness probe
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	model.HealthResponse
//	@Router		/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response.OK(c, model.HealthResponse{
		Status:  "healthy",
		Service: h.service,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}
