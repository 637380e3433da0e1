package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinMiddleware logs one line per request.
func GinMiddleware(l *Logger) gin.HandlerFunc {
	zl := l.Zap().WithOptions(zap.AddCallerSkip(-2))
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			zl.Error("request", fields...)
		case c.Writer.Status() >= 400:
			zl.Warn("request", fields...)
		default:
			zl.Info("request", fields...)
		}
	}
}
