package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/NomadCrew/school-dashboard/errors"
	"github.com/NomadCrew/school-dashboard/services"
	"github.com/NomadCrew/school-dashboard/store"
	"github.com/gin-gonic/gin"
)

// BatteryHandler accepts battery reports from the device. Replies are plain
// text because the firmware only logs the body.
type BatteryHandler struct {
	battery services.BatteryServiceInterface
}

func NewBatteryHandler(battery services.BatteryServiceInterface) *BatteryHandler {
	return &BatteryHandler{battery: battery}
}

// RecordBattery handles GET /api/battery/:level.
func (h *BatteryHandler) RecordBattery(c *gin.Context) {
	level := c.Param("level")

	stored, err := h.battery.Record(c.Request.Context(), level)
	if err != nil {
		if stderrors.Is(err, services.ErrInvalidBattery) {
			c.String(http.StatusBadRequest, "Invalid battery status, %s", level)
			return
		}
		_ = c.Error(errors.Wrap(err, errors.CacheError, "Failed to store battery level"))
		return
	}

	c.String(http.StatusOK, "Received battery status, %s", stored)
}

// GetBattery handles GET /api/battery.
func (h *BatteryHandler) GetBattery(c *gin.Context) {
	level, err := h.battery.Last(c.Request.Context())
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			c.String(http.StatusNotFound, "Value not found")
			return
		}
		_ = c.Error(errors.Wrap(err, errors.CacheError, "Failed to read battery level"))
		return
	}

	c.String(http.StatusOK, "%s", level)
}
