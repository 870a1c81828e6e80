package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "github.com/ZanzyTHEbar/protoscore/docs"
	"github.com/ZanzyTHEbar/protoscore/internal/analysis"
	"github.com/ZanzyTHEbar/protoscore/internal/cache"
	"github.com/ZanzyTHEbar/protoscore/internal/config"
	"github.com/ZanzyTHEbar/protoscore/internal/errors"
	"github.com/ZanzyTHEbar/protoscore/internal/middleware"
	"github.com/ZanzyTHEbar/protoscore/internal/monitoring"
	"github.com/ZanzyTHEbar/protoscore/internal/protocols"
	"github.com/ZanzyTHEbar/protoscore/internal/ratelimit"
	"github.com/ZanzyTHEbar/protoscore/internal/security"
)

// @title        Protocol Complexity Score API
// @version      1.0
// @description  Scores clinical-trial protocols for operational complexity and benchmarks them against historical protocols.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	appLogger := monitoring.NewLogger(monitoring.ParseLevel(cfg.LogLevel))
	slog.SetDefault(appLogger.Logger)

	gin.SetMode(cfg.Server.GinMode)
	errors.RegisterJSONFieldNames()

	corpus, err := loadCorpus(context.Background(), cfg.Corpus)
	if err != nil {
		slog.Error("Failed to load benchmark corpus", "source", cfg.Corpus.CorpusSource(), "error", err)
		os.Exit(1)
	}
	appLogger.CorpusLogger(cfg.Corpus.CorpusSource(), corpus.Len())

	catalog, err := protocols.Default()
	if err != nil {
		slog.Error("Failed to load protocol catalog", "error", err)
		os.Exit(1)
	}

	appMetrics := monitoring.NewMetrics()

	results := cache.NewCache[analysis.FeatureVector, analysis.ScoringResult](
		cfg.Cache.TTL,
		cache.WithMaxItems[analysis.FeatureVector, analysis.ScoringResult](cfg.Cache.MaxItems),
		cache.WithMetrics[analysis.FeatureVector, analysis.ScoringResult](appMetrics),
	)
	defer results.Close()

	// A Redis failure is not fatal; the limiter runs in memory instead
	redisClient, err := ratelimit.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		slog.Warn("Redis unavailable, continuing with in-memory rate limiting", "error", err)
	}
	defer errors.SafeClose(redisClient, "redis client")

	limiterConfig := ratelimit.DefaultConfig()
	limiterConfig.IPLimitPerMin = cfg.RateLimit.PerMinute
	limiter := ratelimit.NewRateLimiter(redisClient, limiterConfig, appMetrics)
	defer limiter.Close()

	securityConfig := security.DefaultSecurityConfig()
	securityConfig.AllowedOrigins = cfg.Server.AllowedOrigins
	securityConfig.RequestTimeout = cfg.Server.RequestTimeout
	securityConfig.EnableHSTS = cfg.Server.EnableHSTS

	r := setupRouter(&deps{
		analyzer:     analysis.NewAnalyzer(nil, corpus),
		catalog:      catalog,
		results:      results,
		limiter:      limiter,
		security:     security.NewSecurityMiddleware(securityConfig),
		compression:  middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
		metrics:      appMetrics,
		logger:       appLogger,
		corpusSource: cfg.Corpus.CorpusSource(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.RequestTimeout,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Server.Port, "corpus_size", corpus.Len(), "protocols", catalog.Len())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}
