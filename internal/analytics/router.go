package analytics

import (
	"classbook/internal/shared/config"
	"classbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

type Router struct {
	controller *Controller
	config     *config.Config
}

func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{controller: controller, config: cfg}
}

func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/analytics/admin")
	admin.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", r.controller.GetDashboard)
		admin.GET("/slots", r.controller.GetSlotUtilization)
		admin.GET("/bookings/daily", r.controller.GetDailyBookingStats)
	}
}
