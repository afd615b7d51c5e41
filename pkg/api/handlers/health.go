package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkeene/pihome/pkg/api/types"
	"github.com/dkeene/pihome/pkg/remote"
)

// HealthHandler reports the service and hardware-backend status.
type HealthHandler struct {
	registry *remote.Registry
	backend  string
}

// NewHealthHandler creates a health handler. backend names the active
// gpio driver ("rpi" or "memory").
func NewHealthHandler(registry *remote.Registry, backend string) *HealthHandler {
	return &HealthHandler{registry: registry, backend: backend}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	status := "healthy"
	httpStatus := http.StatusOK

	// The memory backend means the service runs without hardware.
	if h.backend != "rpi" {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		GPIO:      h.backend,
		Remotes:   h.registry.Len(),
		Timestamp: time.Now(),
	})
}
