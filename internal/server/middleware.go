package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/jimmyhealer/shovel-hero/internal/observability/context"
	"github.com/jimmyhealer/shovel-hero/internal/observability/logger"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns every request a stable identifier, honoring one the
// caller already carries.
func (s *Server) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		ctx := obscontext.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger emits one structured line per request. Sensitive headers
// are masked before they reach the log.
func (s *Server) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		fields := []zap.Field{
			zap.String("request_id", obscontext.RequestIDFromGin(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", elapsed),
			zap.String("client_ip", c.ClientIP()),
		}
		if actorType, actorID := obscontext.ActorFromGin(c); actorType != "" {
			fields = append(fields,
				zap.String("actor_type", actorType),
				zap.String("actor", actorID),
			)
		}
		if len(c.Errors) > 0 {
			fields = append(fields,
				zap.String("error", c.Errors.Last().Error()),
				zap.Any("headers", logger.MaskHeaders(c.Request.Header)),
			)
			s.log.Warn("request failed", fields...)
			return
		}
		s.log.Info("request", fields...)
	}
}

// WriteRateLimit bounds anonymous writes per client address.
func (s *Server) WriteRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.writeLimiter.Allow(c.ClientIP()) {
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}
