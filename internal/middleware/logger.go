package middleware

import (
	"fmt"
	"strings"
	"time"

	"botwatch/config"
	"botwatch/internal/core"
	"botwatch/internal/database/fluentd/model"
	"botwatch/internal/database/fluentd/repository"
	"botwatch/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 不寫入 log 的標頭
var redactedHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
}

type Logger struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewLogger(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Logger {
	return &Logger{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// LoggerHandler 記錄每個請求；本服務只有 GET，不讀 body
func (m *Logger) LoggerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if skipObservability(endpoint) {
			c.Next()
			return
		}

		ctx, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanLoggerMiddleware))

		requestTime := time.Now().UTC()
		if startTime, exists := c.Get(core.ContextRequestStartKey); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}

		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		traceID := span.SpanContext().TraceID()
		spanID := span.SpanContext().SpanID()
		id := requestID(c)

		// headers → map[string]string（lowercase key）
		headerMap := make(map[string]string, len(c.Request.Header))
		for k, v := range c.Request.Header {
			lk := strings.ToLower(k)
			if redactedHeaders[lk] {
				headerMap[lk] = "[redacted]"
				continue
			}
			headerMap[lk] = strings.Join(v, ",")
		}

		m.trace.ApplyTraceAttributes(span, core.LoggerRequestMeta{
			Method:    method,
			Path:      path,
			FullPath:  endpoint,
			Query:     query,
			Scheme:    c.Request.URL.Scheme,
			Host:      c.Request.Host,
			UserAgent: c.Request.UserAgent(),
			Proto:     c.Request.Proto,
			ClientIP:  c.Request.RemoteAddr,
			Headers:   headerMap,
		})

		logFields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Any("headers", headerMap),
			zap.String("requestId", id),
		}
		if query != "" {
			logFields = append(logFields, zap.String("query", query))
		}
		logFields = append(logFields, zap.String("spanId", fmt.Sprintf("%x", spanID[:])))
		logFields = append(logFields, zap.String("traceId", fmt.Sprintf("%x", traceID[:])))

		m.logger.Info("[Request] logging middleware message", logFields...)

		if err := m.fluentdRepository.LogRequest(ctx, model.RequestLog{
			RequestID: id,
			Method:    method,
			Path:      path,
			ClientIP:  c.Request.RemoteAddr,
			UserAgent: c.Request.UserAgent(),
			Referrer:  c.Request.Referer(),
			RequestTS: requestTime.Format("2006-01-02 15:04:05.999999 UTC"),
		}); err != nil {
			m.logger.Warn("fluentd request log failed", zap.Error(err))
		}
		end(nil)
		c.Next()
	}
}
