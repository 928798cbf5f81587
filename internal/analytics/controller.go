package analytics

import (
	"errors"
	"net/http"
	"strconv"

	"classbook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetDashboard godoc
// @Summary Admin booking dashboard
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Dashboard
// @Router /analytics/admin/dashboard [get]
func (c *Controller) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.service.GetDashboard(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	response.JSON(ctx, http.StatusOK, dashboard)
}

func (c *Controller) GetSlotUtilization(ctx *gin.Context) {
	rows, err := c.service.GetSlotUtilization(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to load slot utilization")
		return
	}
	response.JSON(ctx, http.StatusOK, rows)
}

// GetDailyBookingStats accepts ?days=N (default 30)
func (c *Controller) GetDailyBookingStats(ctx *gin.Context) {
	days := 0
	if raw := ctx.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(ctx, http.StatusBadRequest, ErrInvalidDays.Error())
			return
		}
		days = n
	}

	stats, err := c.service.GetDailyBookingStats(ctx.Request.Context(), days)
	if err != nil {
		if errors.Is(err, ErrInvalidDays) {
			response.Error(ctx, http.StatusBadRequest, err.Error())
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to load daily stats")
		return
	}
	response.JSON(ctx, http.StatusOK, stats)
}
