package auth

import (
	"classbook/internal/shared/config"
	"classbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles account routes under /users
type Router struct {
	controller *Controller
	config     *config.Config
}

func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

func (authRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	usersGroup := rg.Group("/users")
	{
		usersGroup.POST("/signup", authRouter.controller.SignUp)
		usersGroup.POST("/signin", authRouter.controller.SignIn)
		usersGroup.GET("/confirm", authRouter.controller.Confirm)

		protected := usersGroup.Group("")
		protected.Use(middleware.JWTAuthWithConfig(authRouter.config))
		{
			protected.GET("/me", authRouter.controller.Me)
		}
	}
}
