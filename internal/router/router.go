package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/studio-automations/internal/handler/health"
	"github.com/jwalitptl/studio-automations/internal/handler/prometheus"
	"github.com/jwalitptl/studio-automations/internal/middleware"
	"github.com/jwalitptl/studio-automations/pkg/logger"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	health  *health.Handler
	metrics *prometheus.Handler
	routes  []Handler
	config  RouterConfig
}

type RouterConfig struct {
	RateLimit   float64
	RateBurst   int
	Timeout     time.Duration
	CORSOrigins []string
}

// NewRouter builds the engine with the shared middleware chain. Protected
// handlers are mounted under /api/v1 behind auth; with none, only health and
// metrics are served.
func NewRouter(
	log *logger.Logger,
	auth *middleware.AuthMiddleware,
	healthH *health.Handler,
	metricsH *prometheus.Handler,
	config RouterConfig,
	routes ...Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	middleware.RegisterFieldNames()

	engine := gin.New()

	r := &Router{
		engine:  engine,
		auth:    auth,
		health:  healthH,
		metrics: metricsH,
		routes:  routes,
		config:  config,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		metricsH.Middleware(),
		middleware.ErrorHandler(log),
	)

	// Preflight requests never match a route, so CORS has to run globally.
	if len(config.CORSOrigins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowOrigins = config.CORSOrigins
		engine.Use(middleware.CORS(cors))
	}

	return r
}

func (r *Router) Setup() {
	r.health.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", r.metrics.Handler())

	if len(r.routes) == 0 {
		return
	}

	api := r.engine.Group("/api/v1")
	api.Use(
		middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RPS:   r.config.RateLimit,
			Burst: r.config.RateBurst,
		}).RateLimit(),
		middleware.Timeout(r.config.Timeout),
		r.auth.Authenticate(),
	)
	for _, h := range r.routes {
		h.RegisterRoutes(api)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
