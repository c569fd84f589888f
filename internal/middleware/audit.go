package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/middleware/requestid"
)

// ResourceIDKey carries the ID of a resource created by the handler.
const ResourceIDKey = "resource_id"

// SetResourceID records the ID of a freshly created resource for the audit entry.
func SetResourceID(c *gin.Context, id string) {
	c.Set(ResourceIDKey, id)
}

// Audit logs successful mutations with the acting user.
func Audit(logger *zap.Logger, action string) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status >= 400 {
			return
		}

		fields := []zap.Field{
			zap.String("action", action),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", requestid.Value(c)),
		}
		if id := c.Param("id"); id != "" {
			fields = append(fields, zap.String("resource_id", id))
		} else if id := c.GetString(ResourceIDKey); id != "" {
			fields = append(fields, zap.String("resource_id", id))
		}
		if claims := CurrentUser(c); claims != nil {
			fields = append(fields, zap.String("user_id", claims.UserID), zap.String("role", claims.Role))
		}
		logger.Info("audit", fields...)
	}
}
