package router

import (
	"botwatch/config"
	"botwatch/internal/core"
	"botwatch/internal/handler"
	"botwatch/internal/middleware"

	"github.com/gin-gonic/gin"
)

type DetectionRouter struct {
	config           *config.Configuration
	detectionHandler *handler.DetectionHandler
	auth             *middleware.Auth
	compress         *middleware.Compress
}

func NewDetectionRouter(
	config *config.Configuration,
	detectionHandler *handler.DetectionHandler,
	auth *middleware.Auth,
	compress *middleware.Compress,
) *DetectionRouter {
	return &DetectionRouter{
		config:           config,
		detectionHandler: detectionHandler,
		auth:             auth,
		compress:         compress,
	}
}

func (dr *DetectionRouter) RegisterRoutes(r *gin.Engine) {
	r.GET("/", dr.detectionHandler.Detect)
	// 驗證在壓縮之前，401 不會帶 Content-Encoding
	r.GET("/logs",
		dr.auth.Handler(core.ClaimScopeLogsRead),
		dr.compress.Handler(),
		dr.detectionHandler.Logs,
	)
	// 直連模式下代理標頭不可信，不開放
	if dr.config.Detection.TrustProxy {
		r.GET("/ip", dr.detectionHandler.IP)
	}
}
