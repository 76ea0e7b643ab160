package handlers

import (
	"context"
	"net/http"

	"github.com/NomadCrew/school-dashboard/services"
	"github.com/NomadCrew/school-dashboard/types"
	"github.com/gin-gonic/gin"
)

// HealthChecker reports component health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) types.HealthCheck
}

type HealthHandler struct {
	healthService HealthChecker
	battery       services.BatteryServiceInterface
}

// NewHealthHandler builds the probe handlers. battery may be nil, in which
// case the detailed report leaves out the device component.
func NewHealthHandler(healthService HealthChecker, battery services.BatteryServiceInterface) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
		battery:       battery,
	}
}

// LivenessCheck handles kubernetes liveness probe
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// ReadinessCheck answers 503 only when the service cannot serve at all. A
// degraded cache still lets every dashboard request hit the upstreams.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())

	if health.Status == types.HealthStatusDown {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}

// DetailedHealth adds the last battery level the display reported.
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())

	if h.battery != nil {
		device := types.HealthComponent{Status: types.HealthStatusUp, Details: "no battery report yet"}
		if level, err := h.battery.Last(c.Request.Context()); err == nil {
			device.Details = "battery " + level + "%"
		}
		if health.Components == nil {
			health.Components = make(map[string]types.HealthComponent)
		}
		health.Components["device"] = device
	}

	c.JSON(http.StatusOK, health)
}
