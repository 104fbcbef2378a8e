// Package api exposes the question answering pipeline over HTTP.
package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nba-qa-workers/internal/archive"
	"nba-qa-workers/internal/common/logger"
	"nba-qa-workers/internal/common/observability"
	"nba-qa-workers/internal/models"
	"nba-qa-workers/internal/qa/composer"
)

type Pipeline interface {
	Compose(ctx context.Context, question string) composer.Result
	AnswerWithDetails(ctx context.Context, question string) composer.Details
}

type Analyzer interface {
	Analyze(question string) models.QuestionAnalysis
}

type AnswerStore interface {
	Save(ctx context.Context, entry archive.Entry) (string, error)
	Load(ctx context.Context, requestID string) (archive.Entry, error)
}

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

type Options struct {
	Pipeline       Pipeline
	Analyzer       Analyzer
	Archive        AnswerStore
	Observability  *observability.Observability
	Readiness      map[string]ReadinessCheck
	AllowedOrigins []string
	Version        string
	Logger         logger.Logger
}

func NewRouter(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	h := &handler{
		pipeline:  opts.Pipeline,
		analyzer:  opts.Analyzer,
		archive:   opts.Archive,
		obs:       opts.Observability,
		readiness: opts.Readiness,
		version:   opts.Version,
		logger:    opts.Logger.With(map[string]interface{}{"component": "api"}),
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.logger))

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) == 0 || contains(opts.AllowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.GET("/health", h.health)
	router.GET("/ready", h.ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/answer", h.answer)
		apiV1.POST("/answer/details", h.details)
		apiV1.POST("/analyze", h.analyze)
		apiV1.GET("/answers/:requestId", h.getAnswer)
	}

	return router
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request served", map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
