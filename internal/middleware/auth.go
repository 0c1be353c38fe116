package middleware

import (
	"errors"
	"slices"
	"strings"

	"botwatch/config"
	"botwatch/internal/core"
	cErr "botwatch/internal/pkg/error"
	"botwatch/internal/pkg/response"
	"botwatch/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// Auth 以 HS256 JWT 保護讀取紀錄的端點；AUTH.JWT_SECRET 未設定時不檢查
type Auth struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	config *config.Configuration
}

func NewAuth(logger *zap.Logger, trace *telemetry.Trace, config *config.Configuration) *Auth {
	return &Auth{logger: logger, trace: trace, config: config}
}

func (m *Auth) Enabled() bool {
	return m.config.Auth.JWTSecret != ""
}

// Handler scope 需包含 required
func (m *Auth) Handler(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Next()
			return
		}

		_, span, end := m.trace.WithSpan(m.trace.GetTraceContext(c), string(core.SpanAuthMiddleware))
		meta := core.TraceAuthMiddlewareMeta{ClientIP: c.Request.RemoteAddr}

		claims, err := m.parse(c.GetHeader("Authorization"))
		if err == nil && !slices.Contains(strings.Fields(claims.Scope), required) {
			err = errors.New("insufficient scope")
		}
		if err != nil {
			meta.Status = "rejected"
			m.trace.ApplyTraceAttributes(span, meta)
			cause := cErr.Unauthorized(err.Error())
			end(cause)
			m.logger.Warn("unauthorized request", zap.String("path", c.Request.URL.Path), zap.Error(err))
			response.AbortWithError(c, cause)
			return
		}

		meta.Subject = claims.Subject
		meta.Status = "success"
		m.trace.ApplyTraceAttributes(span, meta)
		end(nil)
		c.Next()
	}
}

func (m *Auth) parse(header string) (*core.Claims, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, errors.New("missing bearer token")
	}
	claims := &core.Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(m.config.Auth.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
