package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ZanzyTHEbar/protoscore/internal/analysis"
	"github.com/ZanzyTHEbar/protoscore/internal/cache"
	"github.com/ZanzyTHEbar/protoscore/internal/errors"
	"github.com/ZanzyTHEbar/protoscore/internal/middleware"
	"github.com/ZanzyTHEbar/protoscore/internal/monitoring"
	"github.com/ZanzyTHEbar/protoscore/internal/protocols"
	"github.com/ZanzyTHEbar/protoscore/internal/ratelimit"
	"github.com/ZanzyTHEbar/protoscore/internal/security"
)

// deps holds everything the handlers need. All of it is built once at
// startup and is safe for concurrent use.
type deps struct {
	analyzer     *analysis.Analyzer
	catalog      *protocols.Catalog
	results      *cache.Cache[analysis.FeatureVector, analysis.ScoringResult]
	limiter      *ratelimit.RateLimiter
	security     *security.SecurityMiddleware
	compression  *middleware.CompressionMiddleware
	metrics      *monitoring.Metrics
	logger       *monitoring.Logger
	corpusSource string
}

func setupRouter(d *deps) *gin.Engine {
	r := gin.New()

	if err := r.SetTrustedProxies(d.security.Config().TrustedProxies); err != nil {
		d.logger.SystemLogger("trusted_proxies_invalid", err.Error())
	}

	// Request id first so every later log line and error envelope carries it
	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(d.metrics, d.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(d.logger))
	r.Use(d.compression.Handler())

	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(d.security.SecurityHeaders)
	r.Use(d.security.CORS())
	r.Use(d.security.RequestTimeout)
	r.Use(d.security.LimitBody)
	r.Use(d.security.ValidateContentType)

	if d.limiter != nil {
		r.Use(d.limiter.IPRateLimitMiddleware())
	}

	r.GET("/health", d.handleHealth)

	r.POST("/score", d.handleScore)

	r.GET("/protocols", d.handleListProtocols)
	r.GET("/protocols/:id", d.handleGetProtocol)
	r.POST("/protocols/:id/score", d.handleScoreProtocol)

	r.GET("/benchmark", d.handleBenchmark)
	r.GET("/benchmark/phases", d.handleBenchmarkPhases)

	r.GET("/metrics", func(c *gin.Context) {
		stats := d.metrics.GetStats()
		stats["compression"] = d.compression.GetStats()
		c.JSON(http.StatusOK, stats)
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, d.results.Stats())
	})

	if d.limiter != nil {
		r.GET("/ratelimit/status", d.limiter.HandleRateLimitStatus())
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.NoRoute(func(c *gin.Context) {
		errors.Abort(c, errors.NewNotFoundError("route", c.Request.URL.Path))
	})

	return r
}
