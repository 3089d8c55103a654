package router

import (
	"github.com/NomadCrew/feedback-intake/config"
	"github.com/NomadCrew/feedback-intake/handlers"
	"github.com/NomadCrew/feedback-intake/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config          *config.Config
	FeedbackHandler *handlers.FeedbackHandler
	HealthHandler   *handlers.HealthHandler
	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.POST("/feedback", deps.FeedbackHandler.SubmitFeedback)
	r.OPTIONS("/feedback", deps.FeedbackHandler.Preflight)

	v1 := r.Group("/v1")
	{
		v1.POST("/feedback", deps.FeedbackHandler.SubmitFeedback)
		v1.OPTIONS("/feedback", deps.FeedbackHandler.Preflight)
	}

	r.NoRoute(middleware.NoRoute())

	return r
}
