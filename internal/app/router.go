package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"quickride/internal/handler"
	"quickride/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	USSDHandler   *handler.USSDHandler
	DriverHandler *handler.DriverHandler
	AdminHandler  *handler.AdminHandler
	RedisClient   *redis.Client
	NewRelicApp   *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(cors.Default())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Liveness.
	router.GET("/", deps.AdminHandler.Root)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Gateway callback, both route shapes.
	router.POST("/ussd", deps.USSDHandler.Callback)
	router.POST("/api/ussd/callback", deps.USSDHandler.Callback)

	// Driver routes.
	driver := router.Group("/driver")
	{
		driver.POST("/register", deps.DriverHandler.Register)
		driver.POST("/login", deps.DriverHandler.Login)

		trips := driver.Group("/trips")
		{
			trips.GET("/pending", deps.DriverHandler.PendingTrips)
			trips.POST("/:id/accept", deps.DriverHandler.Accept)
			trips.POST("/:id/decline", deps.DriverHandler.Decline)
			trips.POST("/:id/update", deps.DriverHandler.UpdateStatus)
		}
	}

	// Admin routes.
	admin := router.Group("/admin")
	{
		admin.POST("/reload-csv", deps.AdminHandler.ReloadCSV)
		admin.GET("/trips", deps.AdminHandler.Trips)
		admin.GET("/drivers", deps.AdminHandler.Drivers)
	}

	return router
}
