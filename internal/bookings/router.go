package bookings

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
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(r.config))
	{
		bookings.GET("", r.controller.ListBookings)
		bookings.POST("", r.controller.CreateBooking)
		bookings.GET("/availability", r.controller.Availability)
		bookings.GET("/calendar.ics", r.controller.Calendar)
		bookings.DELETE("/:id", r.controller.CancelBooking)
	}
}
