// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	"classbook/internal/analytics"
	"classbook/internal/auth"
	"classbook/internal/bookings"
	"classbook/internal/cart"
	"classbook/internal/notifications"
	"classbook/internal/shared/config"
	"classbook/internal/shared/database"
	"classbook/internal/slots"
	"classbook/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const serviceName = "classbook-api"

// Router holds all route dependencies
type Router struct {
	config        *config.Config
	db            *database.DB
	cache         cache.Service
	notifications *notifications.Service

	slotService slots.Service
	cartSweeper *cart.Sweeper
}

// NewRouter creates a new router instance. notificationService may be nil,
// in which case no emails are sent.
func NewRouter(cfg *config.Config, db *database.DB, notificationService *notifications.Service) *Router {
	return &Router{
		config:        cfg,
		db:            db,
		cache:         cache.NewService(db.Redis),
		notifications: notificationService,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		// slots first: cart and bookings resolve slots through its service
		r.setupSlotRoutes(api)
		r.setupCartRoutes(api)
		r.setupBookingRoutes(api)
		r.setupAnalyticsRoutes(api)
	}
}

// StartJobs starts background work owned by the routes
func (r *Router) StartJobs(ctx context.Context) {
	if r.cartSweeper != nil {
		r.cartSweeper.Start(ctx)
	}
}

func (r *Router) StopJobs() {
	if r.cartSweeper != nil {
		r.cartSweeper.Stop()
	}
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   serviceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   serviceName,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"cache":       r.db.Redis != nil,
			"timestamp":   time.Now(),
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	var sender auth.ConfirmationSender
	if r.notifications != nil {
		sender = r.notifications
	}

	authRepo := auth.NewRepository(r.db.PostgreSQL)
	authService := auth.NewService(authRepo, r.config, sender)
	auth.NewRouter(auth.NewController(authService), r.config).SetupRoutes(rg)
}

func (r *Router) setupSlotRoutes(rg *gin.RouterGroup) {
	slotRepo := slots.NewRepository(r.db.PostgreSQL)
	r.slotService = slots.NewService(slotRepo, r.cache, r.config.Redis.SlotCacheTTL)
	slots.NewRouter(slots.NewController(r.slotService), r.config).SetupRoutes(rg)
}

func (r *Router) setupCartRoutes(rg *gin.RouterGroup) {
	cartRepo := cart.NewRepository(r.db.PostgreSQL)
	cartService := cart.NewService(cartRepo, r.slotService, r.config.Cart.HoldTTL)
	r.cartSweeper = cart.NewSweeper(cartService, r.config.Cart.SweepSchedule)
	cart.NewRouter(cart.NewController(cartService), r.config).SetupRoutes(rg)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	var notifier bookings.Notifier
	if r.notifications != nil {
		notifier = r.notifications
	}

	bookingRepo := bookings.NewRepository(r.db.PostgreSQL)
	bookingService := bookings.NewService(bookingRepo, r.slotService, r.cache, notifier)
	bookings.NewRouter(bookings.NewController(bookingService), r.config).SetupRoutes(rg)
}

func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analyticsService := analytics.NewService(analytics.NewRepository(r.db.PostgreSQL), r.cache)
	analytics.NewRouter(analytics.NewController(analyticsService), r.config).SetupRoutes(rg)
}
