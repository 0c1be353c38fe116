package middleware

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"
	"unicode/utf8"

	"botwatch/config"
	"botwatch/internal/core"
	"botwatch/internal/database/fluentd/model"
	"botwatch/internal/database/fluentd/repository"
	cErr "botwatch/internal/pkg/error"
	res "botwatch/internal/pkg/response"
	"botwatch/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Recovery struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewRecovery(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Recovery {
	return &Recovery{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

func (middleware *Recovery) ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestTime := time.Now()
		if startTime, exists := c.Get(core.ContextRequestStartKey); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}
		id := requestID(c)

		// ---- panic recover 必須在 c.Next() 之前註冊 ----
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			duration := time.Since(requestTime)

			ctx, span, end := middleware.trace.WithSpan(middleware.trace.GetTraceContext(c), string(core.SpanRecoveryMiddleware))
			traceID := span.SpanContext().TraceID()

			meta := core.TracePanicMeta{
				Path:       c.Request.URL.Path,
				Method:     c.Request.Method,
				ClientIP:   c.Request.RemoteAddr,
				UserAgent:  c.Request.UserAgent(),
				DurationMs: float64(duration.Milliseconds()),
				Message:    toSafeString(fmt.Sprint(rec)),
				Stack:      toSafeStack(debug.Stack()),
				Status:     http.StatusInternalServerError,
			}
			middleware.trace.ApplyTraceAttributes(span, meta)

			middleware.logger.Error("[PANIC] Recovered",
				zap.String("path", meta.Path),
				zap.String("method", meta.Method),
				zap.String("client_ip", meta.ClientIP),
				zap.String("user_agent", meta.UserAgent),
				zap.Duration("duration", duration),
				zap.String("panic", meta.Message),
				zap.String("stacktrace", meta.Stack),
				zap.String("requestId", id),
				zap.String("traceId", fmt.Sprintf("%x", traceID[:])),
			)

			err := cErr.InternalServer("unexpected panic")
			end(err)
			// 尚未回寫才輸出
			if !c.Writer.Written() {
				res.FailByErr(c, id, err)
			}
			middleware.logResponse(ctx, c, id, http.StatusInternalServerError, duration, meta.Message)
			c.Abort()
		}()

		c.Next()

		// ---- 統一處理非 panic 的 gin errors（若尚未回寫）----
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		duration := time.Since(requestTime)
		ctx := middleware.trace.GetTraceContext(c)

		// 找第一個 *cErr.Error
		for _, e := range c.Errors {
			if appErr, ok := e.Err.(*cErr.Error); ok {
				middleware.logger.Warn(appErr.Error(),
					zap.Int("code", appErr.ErrorCode()),
					zap.String("data", appErr.ErrorDesc()),
					zap.Duration("duration", duration),
					zap.String("requestId", id),
				)
				res.FailByErr(c, id, appErr)
				middleware.logResponse(ctx, c, id, appErr.HttpCode(), duration, appErr.ErrorDesc())
				c.Abort()
				return
			}
		}

		// 其餘未知錯誤
		unknown := toSafeString(c.Errors.String())
		middleware.logger.Warn("[ERROR] unknown",
			zap.String("error", unknown),
			zap.Duration("duration", duration),
			zap.String("requestId", id),
		)
		res.Fail(c, id, http.StatusInternalServerError, "unknown-error", unknown)
		middleware.logResponse(ctx, c, id, http.StatusInternalServerError, duration, unknown)
		c.Abort()
	}
}

func (middleware *Recovery) logResponse(ctx context.Context, c *gin.Context, id string, status int, duration time.Duration, errMsg string) {
	if err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
		RequestID:  id,
		Path:       c.Request.URL.Path,
		StatusCode: status,
		LatencyMs:  float64(duration.Microseconds()) / 1000,
		Error:      errMsg,
		ResponseTS: time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
	}); err != nil {
		middleware.logger.Warn("fluentd response log failed", zap.Error(err))
	}
}

// ---- helpers ----

func toSafeString(s string) string {
	const max = 8000
	if utf8.ValidString(s) {
		if len(s) > max {
			return truncateUTF8(s, max) + "…"
		}
		return s
	}
	b := []byte(s)
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

func toSafeStack(b []byte) string {
	const max = 16000
	if utf8.Valid(b) {
		if len(b) > max {
			return truncateUTF8(string(b), max) + "…"
		}
		return string(b)
	}
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

// truncateUTF8 最多保留 max bytes，切點退回 rune 起點
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
