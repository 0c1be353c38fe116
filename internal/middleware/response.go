package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"botwatch/config"
	"botwatch/internal/core"
	"botwatch/internal/database/fluentd/model"
	"botwatch/internal/database/fluentd/repository"
	cErr "botwatch/internal/pkg/error"
	"botwatch/internal/pkg/response"
	"botwatch/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Response struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	metric            *telemetry.Metric
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewResponse(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Response {
	return &Response{
		logger:            logger,
		trace:             trace,
		metric:            metric,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// FormatHandler 各端點自行輸出 JSON；這裡只負責收尾的 log / metrics，
// 以及把沒有 body 的錯誤狀態碼轉交 Recovery 統一輸出
func (middleware *Response) FormatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if skipObservability(endpoint) {
			c.Next()
			return
		}

		requestTime := time.Now()
		if startTime, exists := c.Get(core.ContextRequestStartKey); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		} else {
			c.Set(core.ContextRequestStartKey, requestTime)
		}

		c.Next()

		// 已經有錯誤交由 Recovery 處理
		if len(c.Errors) > 0 {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode >= http.StatusBadRequest && !c.Writer.Written() {
			response.AbortWithError(c, cErr.MapHttpStatusToError(statusCode, "request error"))
			return
		}

		ctx, span, end := middleware.trace.WithSpan(middleware.trace.GetTraceContext(c), string(core.SpanResponseMiddleware))
		defer end(nil)

		duration := time.Since(requestTime)
		traceID := span.SpanContext().TraceID()
		spanID := span.SpanContext().SpanID()
		id := requestID(c)

		middleware.trace.ApplyTraceAttributes(span, core.TraceResponseMeta{
			Path:       c.Request.URL.Path,
			Method:     c.Request.Method,
			Status:     statusCode,
			DurationMs: float64(duration.Milliseconds()),
		})

		fields := []zap.Field{
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", statusCode),
			zap.Duration("duration", duration),
			zap.Int("size", c.Writer.Size()),
			zap.String("requestId", id),
			zap.String("spanId", fmt.Sprintf("%x", spanID[:])),
			zap.String("traceId", fmt.Sprintf("%x", traceID[:])),
		}
		if statusCode >= http.StatusBadRequest {
			middleware.logger.Warn("[Response] request failed", fields...)
		} else {
			middleware.logger.Info("[Response] request success", fields...)
		}

		if err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
			RequestID:  id,
			Path:       c.Request.URL.Path,
			StatusCode: statusCode,
			LatencyMs:  float64(duration.Microseconds()) / 1000,
			ResponseTS: time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
		}); err != nil {
			middleware.logger.Warn("fluentd response log failed", zap.Error(err))
		}

		// Metrics
		if statusCode < http.StatusBadRequest && middleware.metric.ResponseSuccessTotal != nil {
			middleware.metric.ResponseSuccessTotal.
				WithLabelValues(endpoint, strconv.Itoa(statusCode)).
				Inc()
		}
	}
}
