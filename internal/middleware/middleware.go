package middleware

import (
	"strings"

	"botwatch/internal/core"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewTraceEntry,
	NewCors,
	NewLogger,
	NewRecovery,
	NewResponse,
	NewAuth,
	NewCompress,
)

// 探針、文件與指標路徑不追蹤也不寫 request log
func skipObservability(endpoint string) bool {
	return strings.HasPrefix(endpoint, "/swagger") ||
		strings.HasPrefix(endpoint, "/metrics") ||
		strings.HasPrefix(endpoint, "/version") ||
		strings.HasPrefix(endpoint, "/health") ||
		strings.HasPrefix(endpoint, "/debug/pprof")
}

// requestID 由 TraceEntry 產生；被略過的路徑才在此補發
func requestID(c *gin.Context) string {
	if v, ok := c.Get(core.ContextRequestIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	c.Set(core.ContextRequestIDKey, id.String())
	return id.String()
}
