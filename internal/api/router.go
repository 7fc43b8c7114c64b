package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vk/karelgrid/internal/ctxlog"
)

// Controller registers its routes on a versioned route group.
type Controller interface {
	Register(*gin.RouterGroup)
}

// Config holds configuration settings for creating a new Router instance.
type Config struct {
	BaseURL     string // Base URL for API routes, e.g. "/api"
	Controllers []Controller
	Logger      *slog.Logger
}

// Router builds the HTTP handler for the API.
type Router struct {
	baseURL     string
	controllers []Controller
	logger      *slog.Logger
}

// NewRouter creates a new Router instance with the given configuration.
func NewRouter(config Config) *Router {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		baseURL:     config.BaseURL,
		controllers: config.Controllers,
		logger:      logger,
	}
}

// Handler returns the gin engine with every route registered:
//
//	GET /health
//	<baseURL>/v1/...   routes of each controller
func (r *Router) Handler() http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery(), r.requestLogger())

	engine.GET("/health", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "OK")
	})

	api := engine.Group(r.baseURL)
	{
		v1 := api.Group("/v1")
		for _, c := range r.controllers {
			c.Register(v1)
		}
	}
	return engine
}

// requestLogger puts the router's logger into the request context and
// logs every request through it.
func (r *Router) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Request = ctx.Request.WithContext(ctxlog.WithLogger(ctx.Request.Context(), r.logger))
		ctx.Next()
		r.logger.Debug("HTTP request served.",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"duration", time.Since(start),
			"remote_addr", ctx.ClientIP(),
		)
	}
}
