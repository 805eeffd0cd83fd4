package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-grader/internal/config"
	"github.com/stemsi/exstem-grader/internal/handler"
	"github.com/stemsi/exstem-grader/internal/metrics"
	"github.com/stemsi/exstem-grader/internal/middleware"
	"github.com/stemsi/exstem-grader/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Submission *handler.SubmissionHandler
	Ingestion  *handler.IngestionHandler
	Health     *handler.HealthHandler
}

// SetupRouter configures the long-running HTTP server.
func SetupRouter(handlers *Handlers, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	router := newEngine(cfg, log)

	// Metrics and compression only make sense for the standalone server.
	router.Use(metrics.Middleware())
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper: func(c *gin.Context) bool {
			return c.Request.URL.Path == "/metrics"
		},
	}))

	// ─── Operational ───────────────────────────────────────────────────
	router.GET("/health", handlers.Health.Check)
	router.GET("/metrics", metrics.Handler())

	// ─── API ───────────────────────────────────────────────────────────
	api := router.Group("/api/v1")
	{
		api.Any("/submissions", handlers.Submission.Handle)

		ingest := api.Group("/questions")
		if cfg.IngestRatePerMinute > 0 {
			ingest.Use(middleware.NewRateLimiter(cfg.IngestRatePerMinute, time.Minute).Middleware())
		}
		ingest.Any("/ingest", handlers.Ingestion.Handle)
	}

	return router
}

// SetupFunction builds an engine that answers every path and method with h.
// Used behind API Gateway, where routing happens before the function runs.
func SetupFunction(h gin.HandlerFunc, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	router := newEngine(cfg, log)
	router.NoRoute(h)
	return router
}

// newEngine applies the middleware shared by both deployments.
func newEngine(cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// ─── CORS ──────────────────────────────────────────────────────────
	// Headers go on before anything else so error and panic responses carry them.
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))

	if cfg.JWTSecret != "" {
		router.Use(middleware.VerifyJWT(cfg.JWTSecret, log))
	}

	return router
}
