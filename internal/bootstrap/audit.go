package bootstrap

import (
	"net/http"
	"time"

	"go-storefront/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuditEntry struct {
	Event     string
	Method    string
	Path      string
	Status    int
	Latency   time.Duration
	SessionID string
	RequestID string
	Detail    string
}

type AuditLogger interface {
	Log(e AuditEntry)
}

type zapAuditLogger struct {
	logger *zap.Logger
}

func NewZapAuditLogger(logger *zap.Logger) AuditLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapAuditLogger{logger: logger.Named("audit")}
}

func (a *zapAuditLogger) Log(e AuditEntry) {
	fields := []zap.Field{zap.String("event", e.Event)}
	if e.Method != "" {
		fields = append(fields,
			zap.String("method", e.Method),
			zap.String("path", e.Path),
			zap.Int("status", e.Status),
			zap.Duration("latency", e.Latency),
			zap.String("session_id", e.SessionID),
			zap.String("request_id", e.RequestID),
		)
	}
	if e.Detail != "" {
		fields = append(fields, zap.String("detail", e.Detail))
	}

	if e.Status >= http.StatusInternalServerError {
		a.logger.Warn("audit", fields...)
		return
	}
	a.logger.Info("audit", fields...)
}

// Audit records every state-changing request once it has been handled.
func Audit(audit AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		audit.Log(AuditEntry{
			Event:     "http_request",
			Method:    c.Request.Method,
			Path:      path,
			Status:    c.Writer.Status(),
			Latency:   time.Since(start),
			SessionID: middleware.SessionID(c),
			RequestID: c.GetString(middleware.RequestIDHeader),
		})
	}
}
