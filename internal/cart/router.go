package cart

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
	cart := rg.Group("/cart")
	cart.Use(middleware.JWTAuthWithConfig(r.config))
	{
		cart.GET("", r.controller.ListItems)
		cart.POST("", r.controller.AddItem)
		cart.DELETE("/:id", r.controller.RemoveItem)
	}
}
