package router

import (
	"github.com/NomadCrew/school-dashboard/config"
	"github.com/NomadCrew/school-dashboard/handlers"
	"github.com/NomadCrew/school-dashboard/internal/metrics"
	"github.com/NomadCrew/school-dashboard/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config           *config.Config
	DashboardHandler *handlers.DashboardHandler
	BatteryHandler   *handlers.BatteryHandler
	HealthHandler    *handlers.HealthHandler
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))

	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Gatherer(), promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		// Every PNG request launches a browser; the HTML route stays unlimited
		// because in url mode the browser itself calls it while holding a slot.
		api.GET("/dashboard",
			middleware.ConcurrencyLimiter(int64(deps.Config.Screenshot.MaxConcurrent)),
			deps.DashboardHandler.GetDashboardImage)
		api.GET("/internal/dashboard", deps.DashboardHandler.GetDashboardHTML)

		api.GET("/battery", deps.BatteryHandler.GetBattery)
		api.GET("/battery/:level", deps.BatteryHandler.RecordBattery)
	}

	return r
}
