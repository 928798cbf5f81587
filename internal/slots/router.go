package slots

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
	slots := rg.Group("/slots")
	{
		slots.GET("", r.controller.ListSlots)
		slots.GET("/search", r.controller.SearchSlots)
		slots.GET("/:id/occurrences", r.controller.GetOccurrences)

		admin := slots.Group("")
		admin.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
		{
			admin.POST("", r.controller.CreateSlot)
			admin.DELETE("/:id", r.controller.DeleteSlot)
		}
	}
}
