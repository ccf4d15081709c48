// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bizprompt-api/internal/config"
	"bizprompt-api/internal/interfaces/http/handler"
	"bizprompt-api/internal/interfaces/http/middleware"
)

// RouterHandlers 路由依赖的处理器与中间件
type RouterHandlers struct {
	Health      *handler.HealthHandler
	Idea        *handler.IdeaHandler
	RateLimiter middleware.RateLimiter
	TokenBudget middleware.TokenBudget
	// RateLimitKey 构造限流 key，为空时使用默认格式
	RateLimitKey func(scope, clientKey string) string
}

// Router HTTP 路由器
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
	deps   RouterHandlers
}

// New 创建路由器
func New(cfg *config.Config, deps RouterHandlers) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine: gin.New(),
		cfg:    cfg,
		deps:   deps,
	}
	r.setupMiddleware()
	r.setupRoutes()
	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) systemPaths() []string {
	paths := []string{"/health", "/ready", "/live"}
	if r.cfg.Observability.Metrics.Enabled {
		paths = append(paths, r.metricsPath())
	}
	return paths
}

func (r *Router) metricsPath() string {
	if p := r.cfg.Observability.Metrics.Path; p != "" {
		return p
	}
	return "/metrics"
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name, r.systemPaths()...))
		r.engine.Use(middleware.TraceContext())
	}
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics(r.systemPaths()...))
	}
}

func (r *Router) setupRoutes() {
	if h := r.deps.Health; h != nil {
		r.engine.GET("/health", h.Health)
		r.engine.GET("/ready", h.Ready)
		r.engine.GET("/live", h.Live)
	}
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.metricsPath(), gin.WrapH(promhttp.Handler()))
	}

	if r.deps.Idea != nil {
		RegisterIdeaRoutes(r.engine.Group("/api"), r.deps.Idea, r.generationGuards()...)
	}
}

// generationGuards 只作用于会调用模型的接口
func (r *Router) generationGuards() []gin.HandlerFunc {
	rl := r.cfg.Security.RateLimit
	return []gin.HandlerFunc{
		middleware.RateLimit(middleware.RateLimitConfig{
			Enabled:  rl.Enabled,
			Requests: rl.Requests,
			Window:   rl.Window,
			Scope:    "generate",
		}, r.deps.RateLimiter, r.deps.RateLimitKey),
		middleware.DailyTokenBudget(r.deps.TokenBudget),
	}
}

// RegisterIdeaRoutes 注册创意相关路由
func RegisterIdeaRoutes(api *gin.RouterGroup, h *handler.IdeaHandler, guards ...gin.HandlerFunc) {
	generate := api.Group("", guards...)
	{
		generate.POST("/generate", h.Generate)
		generate.POST("/regenerate", h.Regenerate)
	}

	ideas := api.Group("/ideas")
	{
		ideas.POST("", h.Save)
		ideas.GET("", h.List)
		ideas.POST("/view", h.View)
		ideas.POST("/export", h.Export)
		ideas.GET("/tools/popular", h.PopularTools)
		ideas.GET("/:id", h.Get)
	}
}
