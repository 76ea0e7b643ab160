package handlers

import (
	"net/http"

	"github.com/NomadCrew/school-dashboard/services"
	"github.com/NomadCrew/school-dashboard/types"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboard services.DashboardServiceInterface
	images    services.ImageServiceInterface
}

func NewDashboardHandler(dashboard services.DashboardServiceInterface, images services.ImageServiceInterface) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		images:    images,
	}
}

// batteryLevel reads the device battery header, defaulting to the sentinel.
func batteryLevel(c *gin.Context) string {
	if level := c.GetHeader(services.BatteryHeader); level != "" {
		return level
	}
	return types.DefaultBatteryLevel
}

// GetDashboardImage serves the grayscale PNG for the e-ink device.
func (h *DashboardHandler) GetDashboardImage(c *gin.Context) {
	img, err := h.images.DashboardPNG(c.Request.Context(), batteryLevel(c))
	if err != nil {
		_ = c.Error(dashboardError(err))
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/png", img)
}

// GetDashboardHTML serves the dashboard document the screenshot is taken from.
func (h *DashboardHandler) GetDashboardHTML(c *gin.Context) {
	html, err := h.dashboard.RenderHTML(c.Request.Context(), batteryLevel(c))
	if err != nil {
		_ = c.Error(dashboardError(err))
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
