package middleware

import (
	"botwatch/internal/core"
	"botwatch/internal/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Cors struct {
	trace *telemetry.Trace
}

func NewCors(trace *telemetry.Trace) *Cors {
	return &Cors{trace: trace}
}

// CorsHandler 任何來源皆可讀取；跳過特定路徑的 tracing，但仍套用 CORS
func (m *Cors) CorsHandler() gin.HandlerFunc {
	cfg := cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "Accept-Encoding"},
		ExposeHeaders:   []string{core.HeaderRequestID, "Content-Encoding"},
	}
	corsHandler := cors.New(cfg)

	type corsMeta struct {
		AllowMethods []string `trace:"http.cors.allow_methods"`
		AllowHeaders []string `trace:"http.cors.allow_headers"`
		AllowAll     bool     `trace:"http.cors.allow_all_origins"`
	}

	return func(c *gin.Context) {
		if skipObservability(c.FullPath()) {
			corsHandler(c)
			return
		}

		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanCorsMiddleware))
		m.trace.ApplyTraceAttributes(span, corsMeta{
			AllowMethods: cfg.AllowMethods,
			AllowHeaders: cfg.AllowHeaders,
			AllowAll:     cfg.AllowAllOrigins,
		})
		end(nil)

		// preflight 會在此直接 abort
		corsHandler(c)
	}
}
