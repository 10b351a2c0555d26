package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/orderdesk/order-api/internal/handler"
	"github.com/orderdesk/order-api/internal/middleware"
)

// Handler registers a group of routes on the router.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine        *gin.Engine
	auth          *middleware.AuthMiddleware
	authH         Handler
	orderH        Handler
	mediaH        Handler
	notificationH Handler
	userH         Handler
	h             *handler.Handler
	rateLimiter   *middleware.RateLimiter
	metrics       *routerMetrics
}

type RouterConfig struct {
	RateLimit     rate.Limit
	RateBurst     int
	RetryAfter    int
	CORSConfig    middleware.CORSConfig
	MaxBodyBytes  int64
	MetricsPrefix string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH Handler,
	orderH Handler,
	mediaH Handler,
	notificationH Handler,
	userH Handler,
	h *handler.Handler,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:        engine,
		auth:          auth,
		authH:         authH,
		orderH:        orderH,
		mediaH:        mediaH,
		notificationH: notificationH,
		userH:         userH,
		h:             h,
		metrics:       initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	if config.MaxBodyBytes > 0 {
		engine.Use(middleware.SizeLimit(middleware.SizeLimitConfig{MaxBodyBytes: config.MaxBodyBytes}))
	}

	r.rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:       config.RateLimit,
		Burst:      config.RateBurst,
		RetryAfter: config.RetryAfter,
	})

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.setupHealthCheck(api)
	api.GET("/metrics", r.h.MetricsHandler)

	// Auth endpoints are public, rate limited to slow credential guessing.
	// Registration reads an optional bearer token so admins can create
	// staff accounts with the same endpoint.
	public := api.Group("")
	public.Use(r.rateLimiter.RateLimit(), r.auth.AuthenticateOptional())
	r.authH.RegisterRoutes(public)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.orderH.RegisterRoutes(protected)
	r.mediaH.RegisterRoutes(protected)
	r.notificationH.RegisterRoutes(protected)
	r.userH.RegisterRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func initRouterMetrics(prefix string) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
