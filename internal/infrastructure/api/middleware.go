package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/k-shtanenko/temperature-archive/config"
	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
	"github.com/k-shtanenko/temperature-archive/internal/infrastructure/metrics"
	"github.com/k-shtanenko/temperature-archive/internal/pkg/logger"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	msgRateLimited  = "Rate limit exceeded"
)

type Middleware struct {
	logger      logger.Logger
	rateLimiter *rate.Limiter
	origins     map[string]struct{}
	anyOrigin   bool
	metrics     *metrics.Metrics
}

// NewMiddleware allows cfg.RateLimit requests per cfg.RateLimitWindow, with the
// whole allowance available as burst.
func NewMiddleware(cfg config.APIConfig, m *metrics.Metrics, log logger.Logger) *Middleware {
	limit := rate.Inf
	if cfg.RateLimit > 0 && cfg.RateLimitWindow > 0 {
		limit = rate.Limit(float64(cfg.RateLimit) / cfg.RateLimitWindow.Seconds())
	}

	mw := &Middleware{
		logger:      log.WithField("component", "middleware"),
		rateLimiter: rate.NewLimiter(limit, cfg.RateLimit),
		origins:     make(map[string]struct{}),
		metrics:     m,
	}
	for _, origin := range cfg.CorsAllowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "*" {
			mw.anyOrigin = true
			continue
		}
		if origin != "" {
			mw.origins[origin] = struct{}{}
		}
	}
	return mw
}

func (m *Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (m *Middleware) CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if m.anyOrigin {
				c.Header("Access-Control-Allow-Origin", "*")
			} else if _, ok := m.origins[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, X-Requested-With, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}

		// Only real preflights are answered here; other OPTIONS requests fall through
		// to routing and get the usual 404/405 envelopes.
		if c.Request.Method == http.MethodOptions && origin != "" && c.GetHeader("Access-Control-Request-Method") != "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (m *Middleware) Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		log := m.logger.WithField(requestIDKey, c.GetString(requestIDKey))

		if len(c.Errors) > 0 {
			for _, e := range c.Errors.Errors() {
				log.Error(e)
			}
		}

		log.Infof("HTTP | %3d | %13v | %15s | %-7s %s",
			c.Writer.Status(),
			latency,
			c.ClientIP(),
			c.Request.Method,
			path,
		)
	}
}

func (m *Middleware) Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.metrics.ObserveRequest(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}

func (m *Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.rateLimiter.Allow() {
			m.logger.Warnf("Rate limit exceeded for IP: %s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Success: false, Error: msgRateLimited})
			return
		}
		c.Next()
	}
}

func (m *Middleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				m.logger.WithField(requestIDKey, c.GetString(requestIDKey)).Errorf("Panic recovered: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: entities.MsgInternal})
			}
		}()
		c.Next()
	}
}
